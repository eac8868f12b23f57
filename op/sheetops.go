/*
Copyright (C) 2023  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package op

import (
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/summary"
)

// AddSheetOp inserts a whole sheet (used both directly and as the
// inverse of DeleteSheetOp, in which case Sheet carries the exact
// removed snapshot so redo reuses the same SheetId).
type AddSheetOp struct {
	Sheet *grid.Sheet
}

func (o AddSheetOp) Kind() string { return "AddSheet" }

func (o AddSheetOp) Apply(g *grid.Grid, mode Mode, sum *summary.Summary) ([]Operation, []Operation, error) {
	if err := g.AddSheet(o.Sheet); err != nil {
		// duplicate name: refuse to produce an inverse, caller aborts
		// and unwinds.
		return nil, nil, err
	}
	sum.SheetListModified = true
	sum.AddHTML(o.Sheet.ID)
	inverse := DeleteSheetOp{SheetID: o.Sheet.ID}
	return []Operation{inverse}, nil, nil
}

// DeleteSheetOp removes a sheet. If, in User mode, this empties the
// grid, a replacement sheet is synthesized so the workbook is never
// left with zero sheets.
type DeleteSheetOp struct {
	SheetID grid.SheetId
}

func (o DeleteSheetOp) Kind() string { return "DeleteSheet" }

func (o DeleteSheetOp) Apply(g *grid.Grid, mode Mode, sum *summary.Summary) ([]Operation, []Operation, error) {
	removed, err := g.RemoveSheet(o.SheetID)
	if err != nil {
		return nil, nil, err
	}
	sum.SheetListModified = true
	sum.AddHTML(o.SheetID)

	inverses := []Operation{AddSheetOp{Sheet: removed.Clone()}}
	var forwardExtra []Operation

	if mode == ModeUser && g.IsEmpty() {
		replacement := grid.NewSheet("Sheet 1", g.EndOrder())
		g.MustAddSheet(replacement)
		sum.AddHTML(replacement.ID)
		// Unwind order is last-applied-first: the implicit AddSheet
		// happened after this DeleteSheet, so its own inverse
		// (DeleteSheet) must run before the original DeleteSheet's
		// inverse (AddSheet) when undoing.
		inverses = []Operation{
			DeleteSheetOp{SheetID: replacement.ID},
			AddSheetOp{Sheet: removed.Clone()},
		}
		forwardExtra = []Operation{AddSheetOp{Sheet: replacement}}
	}

	return inverses, forwardExtra, nil
}

// ReorderSheetOp overwrites a sheet's fractional order key.
type ReorderSheetOp struct {
	Target grid.SheetId
	Order  string
}

func (o ReorderSheetOp) Kind() string { return "ReorderSheet" }

func (o ReorderSheetOp) Apply(g *grid.Grid, mode Mode, sum *summary.Summary) ([]Operation, []Operation, error) {
	before, _ := g.FirstSheetID()

	prev, err := g.ReorderSheet(o.Target, o.Order)
	if err != nil {
		// unknown target: no-op rather than failing the transaction,
		// with no inverse to record.
		return nil, nil, nil
	}

	after, _ := g.FirstSheetID()
	if before != after {
		sum.GenerateThumbnail = true
	}
	sum.SheetListModified = true

	return []Operation{ReorderSheetOp{Target: o.Target, Order: prev}}, nil, nil
}

// SetSheetNameOp renames a sheet.
type SetSheetNameOp struct {
	SheetID grid.SheetId
	Name    string
}

func (o SetSheetNameOp) Kind() string { return "SetSheetName" }

func (o SetSheetNameOp) Apply(g *grid.Grid, mode Mode, sum *summary.Summary) ([]Operation, []Operation, error) {
	prev, err := g.SetSheetName(o.SheetID, o.Name)
	if err != nil {
		return nil, nil, err
	}
	sum.SheetListModified = true
	return []Operation{SetSheetNameOp{SheetID: o.SheetID, Name: prev}}, nil, nil
}

// SetSheetColorOp sets (or clears, with nil) a sheet's color.
type SetSheetColorOp struct {
	SheetID grid.SheetId
	Color   *string
}

func (o SetSheetColorOp) Kind() string { return "SetSheetColor" }

func (o SetSheetColorOp) Apply(g *grid.Grid, mode Mode, sum *summary.Summary) ([]Operation, []Operation, error) {
	prev, err := g.SetSheetColor(o.SheetID, o.Color)
	if err != nil {
		return nil, nil, err
	}
	sum.SheetListModified = true
	return []Operation{SetSheetColorOp{SheetID: o.SheetID, Color: prev}}, nil, nil
}
