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
	"fmt"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/pos"
	"github.com/BlacksmithSoftware/quadratic/summary"
)

// SetCellsOp writes a dense array of values into a durable region.
type SetCellsOp struct {
	Region grid.RegionRef
	Values cellvalue.Array
}

// thumbnailRegion is the top-left rectangle a file's thumbnail preview
// is rendered from. A write that dirties any cell inside it requires a
// fresh thumbnail the next time the file is saved.
var thumbnailRegion = pos.NewArraySize(10, 25).RectFromOrigin(pos.Pos{})

func (o SetCellsOp) Kind() string { return "SetCells" }

func (o SetCellsOp) Apply(g *grid.Grid, mode Mode, sum *summary.Summary) ([]Operation, []Operation, error) {
	size, ok := o.Region.Size()
	if !ok {
		// an empty region is a no-op.
		return nil, nil, nil
	}
	if size != o.Values.Size() {
		panic(fmt.Sprintf("op: SetCells region size %dx%d does not match values size %dx%d",
			size.W, size.H, o.Values.Size().W, o.Values.Size().H))
	}

	s, ok := g.SheetByID(o.Region.Sheet)
	if !ok {
		panic(fmt.Sprintf("op: SetCells targets unknown sheet %s", o.Region.Sheet))
	}

	oldValues := make([]cellvalue.CellValue, 0, size.Len())
	var dirty pos.Rect
	haveDirty := false

	i := 0
	o.Region.Iterate(func(ref grid.CellRef) {
		newVal := o.Values.RowMajor()[i]
		i++
		at, live := s.RefToPos(ref)
		if !live {
			// stale column/row id: recoverable reference error, skip
			// this cell and continue the transaction.
			oldValues = append(oldValues, cellvalue.NewBlank())
			return
		}
		old := s.SetByRef(ref, newVal)
		oldValues = append(oldValues, old)
		if !haveDirty {
			dirty = pos.SinglePos(at)
			haveDirty = true
		} else {
			dirty = dirty.Union(pos.SinglePos(at))
		}
		if _, isCode := newVal.Code(); isCode {
			sum.AddCodeCell(o.Region.Sheet, at)
		}
	})

	s.MarkBoundsDirty()
	if haveDirty {
		sum.AddCellRegion(o.Region.Sheet, dirty)
		if dirty.Intersects(thumbnailRegion) {
			sum.GenerateThumbnail = true
		}
	}

	inverse := SetCellsOp{
		Region: o.Region,
		Values: cellvalue.FromRowMajor(size, oldValues),
	}
	return []Operation{inverse}, nil, nil
}
