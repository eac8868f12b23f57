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

// Package summary implements the stateless TransactionSummary
// aggregator: the diff of what rendering must refresh after one or more
// transactions.
package summary

import (
	"encoding/json"

	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

// SheetRect pairs a sheet with a rectangle dirtied on it.
type SheetRect struct {
	Sheet grid.SheetId
	Rect  pos.Rect
}

// SheetPos pairs a sheet with a single dirtied position (used for code
// cells, which the renderer refreshes individually rather than by
// region).
type SheetPos struct {
	Sheet grid.SheetId
	Pos   pos.Pos
}

// Summary is the aggregated observable effect of one or more
// transactions. Zero value is the empty summary.
type Summary struct {
	CellRegionsModified []SheetRect
	FillSheetsModified  map[grid.SheetId]bool
	BorderSheetsModified map[grid.SheetId]bool
	CodeCellsModified   []SheetPos
	SheetListModified   bool
	GenerateThumbnail   bool
	HTML                map[grid.SheetId]bool
	Save                bool
	TransactionID       *grid.TransactionId
	Operations          json.RawMessage
	RequestTransactions *uint64
	Cursor              *string
}

// New returns an empty, ready-to-use Summary.
func New() *Summary {
	return &Summary{
		FillSheetsModified:   make(map[grid.SheetId]bool),
		BorderSheetsModified: make(map[grid.SheetId]bool),
		HTML:                 make(map[grid.SheetId]bool),
	}
}

// Clear resets s to the empty summary in place. The executor and the
// replication engine do not call it: each of their entry points starts
// from a fresh summary.New().
func (s *Summary) Clear() {
	s.CellRegionsModified = nil
	s.FillSheetsModified = make(map[grid.SheetId]bool)
	s.BorderSheetsModified = make(map[grid.SheetId]bool)
	s.CodeCellsModified = nil
	s.SheetListModified = false
	s.GenerateThumbnail = false
	s.HTML = make(map[grid.SheetId]bool)
	s.Save = false
	s.TransactionID = nil
	s.Operations = nil
	s.RequestTransactions = nil
	s.Cursor = nil
}

func (s *Summary) AddCellRegion(sheet grid.SheetId, r pos.Rect) {
	s.CellRegionsModified = append(s.CellRegionsModified, SheetRect{Sheet: sheet, Rect: r})
}

func (s *Summary) AddCodeCell(sheet grid.SheetId, p pos.Pos) {
	s.CodeCellsModified = append(s.CodeCellsModified, SheetPos{Sheet: sheet, Pos: p})
}

func (s *Summary) AddHTML(sheet grid.SheetId) { s.HTML[sheet] = true }

// Merge is the stateless aggregator function: it unions set-valued
// fields, ORs booleans and concatenates region lists without
// deduplication — downstream renderers tolerate overlapping regions.
func Merge(a, b *Summary) *Summary {
	out := New()
	out.CellRegionsModified = append(append([]SheetRect{}, a.CellRegionsModified...), b.CellRegionsModified...)
	out.CodeCellsModified = append(append([]SheetPos{}, a.CodeCellsModified...), b.CodeCellsModified...)
	for _, m := range []map[grid.SheetId]bool{a.FillSheetsModified, b.FillSheetsModified} {
		for k := range m {
			out.FillSheetsModified[k] = true
		}
	}
	for _, m := range []map[grid.SheetId]bool{a.BorderSheetsModified, b.BorderSheetsModified} {
		for k := range m {
			out.BorderSheetsModified[k] = true
		}
	}
	for _, m := range []map[grid.SheetId]bool{a.HTML, b.HTML} {
		for k := range m {
			out.HTML[k] = true
		}
	}
	out.SheetListModified = a.SheetListModified || b.SheetListModified
	out.GenerateThumbnail = a.GenerateThumbnail || b.GenerateThumbnail
	out.Save = a.Save || b.Save
	// last writer wins for the singular fields; b is considered the
	// more recent delivery when merging in chronological order.
	out.TransactionID = pick(a.TransactionID, b.TransactionID)
	out.RequestTransactions = pickUint(a.RequestTransactions, b.RequestTransactions)
	out.Cursor = pickStr(a.Cursor, b.Cursor)
	if len(b.Operations) > 0 {
		out.Operations = b.Operations
	} else {
		out.Operations = a.Operations
	}
	return out
}

func pick(a, b *grid.TransactionId) *grid.TransactionId {
	if b != nil {
		return b
	}
	return a
}

func pickUint(a, b *uint64) *uint64 {
	if b != nil {
		return b
	}
	return a
}

func pickStr(a, b *string) *string {
	if b != nil {
		return b
	}
	return a
}
