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
	"context"
	"fmt"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

// CellGetter is the only interface through which an external formula
// evaluator observes the grid; it never calls executor methods
// directly. Get is async because the grid may be mutated by a
// concurrent room goroutine between calls on the server boundary.
type CellGetter interface {
	Get(ctx context.Context, sheet SheetId, p pos.Pos) (cellvalue.CellValue, error)
}

// GridProxy is the straightforward CellGetter backed directly by a
// *Grid. The collaboration boundary and any future formula evaluator
// both consume this, never the Grid type itself, keeping "evaluation
// never calls executor methods directly" true by construction.
type GridProxy struct {
	Grid *Grid
}

func (p GridProxy) Get(_ context.Context, sheetID SheetId, at pos.Pos) (cellvalue.CellValue, error) {
	s, ok := p.Grid.SheetByID(sheetID)
	if !ok {
		return cellvalue.CellValue{}, fmt.Errorf("grid: no sheet with id %s", sheetID)
	}
	return s.GetPos(at), nil
}
