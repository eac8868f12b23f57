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

package grid

import (
	"fmt"
	"sort"
)

// Grid is the ordered set of sheets that makes up one file. Sheet order
// follows the fractional Order key; every sheet name is unique.
//
// Sheets are stored in an id-keyed map. MustAddSheet panics on a
// duplicate name, because for its internal callers a duplicate means a
// caller broke an invariant it was supposed to enforce itself, not a
// normal user-triggered abort (the user-triggered path is AddSheetOp in
// package op, which uses AddSheet and gets an ordinary error for the
// executor to unwind).
type Grid struct {
	sheets map[SheetId]*Sheet
}

// NewGrid returns an empty grid. An empty grid is a transient state:
// callers create at least one sheet immediately, and the executor
// re-creates one automatically if a user transaction would otherwise
// empty the grid.
func NewGrid() *Grid {
	return &Grid{sheets: make(map[SheetId]*Sheet)}
}

// Sheets returns all sheets ordered by their fractional Order key
// ascending.
func (g *Grid) Sheets() []*Sheet {
	out := make([]*Sheet, 0, len(g.sheets))
	for _, s := range g.sheets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (g *Grid) Len() int { return len(g.sheets) }

func (g *Grid) IsEmpty() bool { return len(g.sheets) == 0 }

func (g *Grid) SheetByID(id SheetId) (*Sheet, bool) {
	s, ok := g.sheets[id]
	return s, ok
}

func (g *Grid) SheetByName(name string) (*Sheet, bool) {
	for _, s := range g.sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// FirstSheetID returns the id of the sheet with the lowest Order key,
// used to detect whether a ReorderSheet changed which sheet is first
// (that triggers generate_thumbnail).
func (g *Grid) FirstSheetID() (SheetId, bool) {
	sheets := g.Sheets()
	if len(sheets) == 0 {
		return SheetId{}, false
	}
	return sheets[0].ID, true
}

// EndOrder returns an order key that sorts after every sheet currently
// in the grid.
func (g *Grid) EndOrder() string {
	sheets := g.Sheets()
	if len(sheets) == 0 {
		return NextOrderKey("")
	}
	return NextOrderKey(sheets[len(sheets)-1].Order)
}

// AddSheet inserts a sheet into the grid. Returns an error (not a
// panic) when the name is already taken, so the transaction executor
// can abort-and-unwind the operation.
func (g *Grid) AddSheet(s *Sheet) error {
	if _, dup := g.SheetByName(s.Name); dup {
		return fmt.Errorf("grid: sheet name %q already exists", s.Name)
	}
	g.sheets[s.ID] = s
	return nil
}

// MustAddSheet is the panicking counterpart of AddSheet for internal
// callers (e.g. restoring a grid from a trusted snapshot) that have
// already guaranteed uniqueness: a duplicate here is a genuine
// invariant violation.
func (g *Grid) MustAddSheet(s *Sheet) {
	if err := g.AddSheet(s); err != nil {
		panic(err)
	}
}

// RemoveSheet deletes a sheet from the grid and returns it (the
// executor needs the removed sheet verbatim to build the DeleteSheet
// inverse, an AddSheet of the same sheet).
func (g *Grid) RemoveSheet(id SheetId) (*Sheet, error) {
	s, ok := g.sheets[id]
	if !ok {
		return nil, fmt.Errorf("grid: no sheet with id %s", id)
	}
	delete(g.sheets, id)
	return s, nil
}

// SetSheetName renames a sheet, returning the previous name for the
// operation's inverse. Refuses (error, no mutation) a rename that would
// collide with another sheet's name.
func (g *Grid) SetSheetName(id SheetId, name string) (string, error) {
	s, ok := g.sheets[id]
	if !ok {
		return "", fmt.Errorf("grid: no sheet with id %s", id)
	}
	if other, dup := g.SheetByName(name); dup && other.ID != id {
		return "", fmt.Errorf("grid: sheet name %q already exists", name)
	}
	prev := s.Name
	s.Name = name
	return prev, nil
}

// SetSheetColor sets a sheet's color, returning the previous value.
func (g *Grid) SetSheetColor(id SheetId, color *string) (*string, error) {
	s, ok := g.sheets[id]
	if !ok {
		return nil, fmt.Errorf("grid: no sheet with id %s", id)
	}
	prev := s.Color
	s.Color = color
	return prev, nil
}

// ReorderSheet overwrites a sheet's Order key, returning the previous
// value so the operation can build its inverse.
func (g *Grid) ReorderSheet(id SheetId, order string) (string, error) {
	s, ok := g.sheets[id]
	if !ok {
		return "", fmt.Errorf("grid: no sheet with id %s", id)
	}
	prev := s.Order
	s.Order = order
	return prev, nil
}

// OrderBeforeSheet computes the fractional order key that would sort
// target immediately before the sheet named by before, skipping target
// itself when locating neighbors so a sheet already in the list can be
// moved relative to its own current position. before == nil moves
// target to the end. Returns ok=false when before names an unknown
// sheet.
func (g *Grid) OrderBeforeSheet(target SheetId, before *SheetId) (order string, ok bool) {
	sheets := g.Sheets()
	others := make([]*Sheet, 0, len(sheets))
	for _, s := range sheets {
		if s.ID != target {
			others = append(others, s)
		}
	}

	if before == nil {
		if len(others) == 0 {
			return NextOrderKey(""), true
		}
		return NextOrderKey(others[len(others)-1].Order), true
	}

	idx := -1
	for i, s := range others {
		if s.ID == *before {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", false
	}
	lo := ""
	if idx > 0 {
		lo = others[idx-1].Order
	}
	return OrderBetween(lo, others[idx].Order), true
}
