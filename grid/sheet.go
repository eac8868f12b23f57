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
	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

// Sheet is a named, ordered page of cells with a stable id. Cell storage
// is sparse: a Blank cell is never materialized.
type Sheet struct {
	ID    SheetId
	Name  string
	Color *string
	Order string // opaque fractional ordering token

	columns *coordIndex[ColumnId]
	rows    *coordIndex[RowId]
	cells   map[CellRef]cellvalue.CellValue

	boundsDirty bool
	bounds      *pos.Rect // nil: sheet has no non-blank cell
}

// NewSheet allocates a fresh sheet with a new id and the given name and
// order key. Color starts unset.
func NewSheet(name, order string) *Sheet {
	return &Sheet{
		ID:      NewSheetId(),
		Name:    name,
		Order:   order,
		columns: newCoordIndex[ColumnId](),
		rows:    newCoordIndex[RowId](),
		cells:   make(map[CellRef]cellvalue.CellValue),
	}
}

// NewSheetFromWire reconstructs an empty sheet carrying a specific,
// already-allocated id. Used when decoding an AddSheet operation off
// the wire: the id must be preserved exactly (it may be the redo of a
// previously deleted sheet, or a remote peer's AddSheet), never
// reallocated.
func NewSheetFromWire(id SheetId, name string, color *string, order string) *Sheet {
	s := &Sheet{
		ID:      id,
		Name:    name,
		Color:   color,
		Order:   order,
		columns: newCoordIndex[ColumnId](),
		rows:    newCoordIndex[RowId](),
		cells:   make(map[CellRef]cellvalue.CellValue),
	}
	return s
}

// EnsureColumn materializes (creating if needed) the ColumnId living at x.
func (s *Sheet) EnsureColumn(x int64) ColumnId {
	return s.columns.Ensure(x, NewColumnId)
}

// EnsureRow materializes (creating if needed) the RowId living at y.
func (s *Sheet) EnsureRow(y int64) RowId {
	return s.rows.Ensure(y, NewRowId)
}

// ColumnAt is a read-only lookup: it never creates an id. Region
// construction over never-touched coordinates skips absent ids.
func (s *Sheet) ColumnAt(x int64) (ColumnId, bool) { return s.columns.At(x) }

// RowAt is the row analogue of ColumnAt.
func (s *Sheet) RowAt(y int64) (RowId, bool) { return s.rows.At(y) }

// ColumnX resolves a ColumnId back to its current logical x, O(1).
func (s *Sheet) ColumnX(id ColumnId) (int64, bool) { return s.columns.Coord(id) }

// RowY resolves a RowId back to its current logical y, O(1).
func (s *Sheet) RowY(id RowId) (int64, bool) { return s.rows.Coord(id) }

// RemoveColumn and RemoveRow drop a coordinate<->id mapping. No
// Operation in this module exposes row/column deletion; these exist so
// the "stale CellRef is a recoverable reference error, skip the cell"
// path is reachable and testable.
func (s *Sheet) RemoveColumn(x int64) { s.columns.Remove(x) }
func (s *Sheet) RemoveRow(y int64)    { s.rows.Remove(y) }

// ResolvePos materializes the CellRef for a logical position, creating
// column/row ids as needed.
func (s *Sheet) ResolvePos(p pos.Pos) CellRef {
	return CellRef{Sheet: s.ID, Column: s.EnsureColumn(p.X), Row: s.EnsureRow(p.Y)}
}

// TryResolvePos is the read-only counterpart of ResolvePos: it returns
// ok=false without mutating the sheet if either coordinate has never
// been materialized.
func (s *Sheet) TryResolvePos(p pos.Pos) (CellRef, bool) {
	col, ok := s.columns.At(p.X)
	if !ok {
		return CellRef{}, false
	}
	row, ok := s.rows.At(p.Y)
	if !ok {
		return CellRef{}, false
	}
	return CellRef{Sheet: s.ID, Column: col, Row: row}, true
}

// RefToPos resolves a durable CellRef back to its current logical
// position. ok is false when the column or row id is no longer live:
// a recoverable reference error that skips the cell rather than
// failing the transaction.
func (s *Sheet) RefToPos(ref CellRef) (pos.Pos, bool) {
	x, ok := s.columns.Coord(ref.Column)
	if !ok {
		return pos.Pos{}, false
	}
	y, ok := s.rows.Coord(ref.Row)
	if !ok {
		return pos.Pos{}, false
	}
	return pos.Pos{X: x, Y: y}, true
}

// GetByRef returns the cell value at ref, or Blank if the ref is stale
// or was never written.
func (s *Sheet) GetByRef(ref CellRef) cellvalue.CellValue {
	if v, ok := s.cells[ref]; ok {
		return v
	}
	return cellvalue.NewBlank()
}

// GetPos is the logical-coordinate counterpart of GetByRef.
func (s *Sheet) GetPos(p pos.Pos) cellvalue.CellValue {
	ref, ok := s.TryResolvePos(p)
	if !ok {
		return cellvalue.NewBlank()
	}
	return s.GetByRef(ref)
}

// SetByRef overwrites the cell at ref and returns the value it
// displaced (Blank if the cell was previously absent). The target
// rectangle's ids must already exist; callers materialize them via
// ResolvePos first.
func (s *Sheet) SetByRef(ref CellRef, v cellvalue.CellValue) cellvalue.CellValue {
	old := s.GetByRef(ref)
	if v.IsBlank() {
		delete(s.cells, ref)
	} else {
		s.cells[ref] = v
	}
	s.boundsDirty = true
	return old
}

// MarkBoundsDirty flags the sheet's cached bounds as needing a
// recompute; the executor does this once per SetCells operation and
// recomputes in a single pass per transaction.
func (s *Sheet) MarkBoundsDirty() { s.boundsDirty = true }

// RecomputeBounds rebuilds the cached bounding rectangle from scratch if
// dirty. A sheet with no non-blank cell has nil bounds.
func (s *Sheet) RecomputeBounds() {
	if !s.boundsDirty {
		return
	}
	s.boundsDirty = false
	if len(s.cells) == 0 {
		s.bounds = nil
		return
	}
	var r pos.Rect
	first := true
	for ref := range s.cells {
		p, ok := s.RefToPos(ref)
		if !ok {
			continue
		}
		if first {
			r = pos.SinglePos(p)
			first = false
			continue
		}
		r = r.Union(pos.SinglePos(p))
	}
	if first {
		s.bounds = nil
		return
	}
	s.bounds = &r
}

// Bounds returns the cached bounding rectangle, recomputing first if
// dirty. nil means the sheet has no non-blank cell.
func (s *Sheet) Bounds() *pos.Rect {
	s.RecomputeBounds()
	return s.bounds
}

// Clone deep-copies the sheet, including its cell store and id indexes.
// Used by the executor to capture the removed-sheet snapshot a
// DeleteSheet inverse (AddSheet) needs to restore exactly.
func (s *Sheet) Clone() *Sheet {
	out := &Sheet{
		ID:          s.ID,
		Name:        s.Name,
		Order:       s.Order,
		columns:     newCoordIndex[ColumnId](),
		rows:        newCoordIndex[RowId](),
		cells:       make(map[CellRef]cellvalue.CellValue, len(s.cells)),
		boundsDirty: true,
	}
	if s.Color != nil {
		c := *s.Color
		out.Color = &c
	}
	s.columns.forward.Ascend(func(e coordEntry[ColumnId]) bool {
		out.columns.forward.ReplaceOrInsert(e)
		out.columns.reverse[e.id] = e.coord
		return true
	})
	s.rows.forward.Ascend(func(e coordEntry[RowId]) bool {
		out.rows.forward.ReplaceOrInsert(e)
		out.rows.reverse[e.id] = e.coord
		return true
	})
	for ref, v := range s.cells {
		out.cells[ref] = v
	}
	return out
}
