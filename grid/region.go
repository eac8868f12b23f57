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

import "github.com/BlacksmithSoftware/quadratic/pos"

// RegionRef is a durable, id-based rectangular address: (sheet, column
// ids, row ids). Iterating it yields the cartesian product in row-major
// order (rows outer, columns inner).
type RegionRef struct {
	Sheet   SheetId
	Columns []ColumnId
	Rows    []RowId
}

// Size returns (width, height) only when both id lists are non-empty.
func (r RegionRef) Size() (pos.ArraySize, bool) {
	if len(r.Columns) == 0 || len(r.Rows) == 0 {
		return pos.ArraySize{}, false
	}
	return pos.ArraySize{W: int64(len(r.Columns)), H: int64(len(r.Rows))}, true
}

// Iterate visits every CellRef in the region in row-major order.
func (r RegionRef) Iterate(f func(CellRef)) {
	for _, row := range r.Rows {
		for _, col := range r.Columns {
			f(CellRef{Sheet: r.Sheet, Column: col, Row: row})
		}
	}
}

// RegionFromRect builds a RegionRef covering a logical rectangle on the
// given sheet. If materialize is true, missing column/row ids are
// created (used by SetCells); otherwise coordinates with no id yet are
// skipped (used by read-only region construction).
func RegionFromRect(s *Sheet, rect pos.Rect, materialize bool) RegionRef {
	region := RegionRef{Sheet: s.ID}
	for _, x := range rect.XRange() {
		if materialize {
			region.Columns = append(region.Columns, s.EnsureColumn(x))
			continue
		}
		if id, ok := s.ColumnAt(x); ok {
			region.Columns = append(region.Columns, id)
		}
	}
	for _, y := range rect.YRange() {
		if materialize {
			region.Rows = append(region.Rows, s.EnsureRow(y))
			continue
		}
		if id, ok := s.RowAt(y); ok {
			region.Rows = append(region.Rows, id)
		}
	}
	return region
}
