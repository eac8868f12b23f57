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
	"encoding/json"
	"fmt"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

// wireSheet mirrors grid.Sheet's externally-relevant fields; the
// coordinate indexes and sparse cell store are internal and never
// cross the wire attached to an AddSheet operation (a freshly added
// sheet is always empty).
type wireSheet struct {
	ID    grid.SheetId `json:"id"`
	Name  string       `json:"name"`
	Color *string      `json:"color,omitempty"`
	Order string       `json:"order"`
}

// wireOp is the tagged-JSON shape for the Operation union: Transaction
// and Operation serialize as tagged JSON with the variant name as the
// tag, a string discriminator plus a flat payload, rather than one
// struct type per variant wrapped in an envelope.
type wireOp struct {
	Type string `json:"type"`

	// SetCells
	RegionSheet grid.SheetId   `json:"region_sheet,omitempty"`
	RegionCols  []grid.ColumnId `json:"region_columns,omitempty"`
	RegionRows  []grid.RowId    `json:"region_rows,omitempty"`
	ValuesW     int64          `json:"values_w,omitempty"`
	ValuesH     int64          `json:"values_h,omitempty"`
	Values      []cellvalue.CellValue `json:"values,omitempty"`

	// AddSheet
	Sheet *wireSheet `json:"sheet,omitempty"`

	// DeleteSheet / ReorderSheet / SetSheetName / SetSheetColor
	SheetID grid.SheetId `json:"sheet_id,omitempty"`
	Order   string       `json:"order,omitempty"`
	Name    string       `json:"name,omitempty"`
	Color   *string      `json:"color,omitempty"`
}

// Encode renders one Operation as its tagged-JSON wire form.
func Encode(o Operation) (json.RawMessage, error) {
	w := wireOp{Type: o.Kind()}
	switch v := o.(type) {
	case SetCellsOp:
		size, ok := v.Region.Size()
		w.RegionSheet = v.Region.Sheet
		w.RegionCols = v.Region.Columns
		w.RegionRows = v.Region.Rows
		if ok {
			w.ValuesW, w.ValuesH = size.W, size.H
			w.Values = v.Values.RowMajor()
		}
	case AddSheetOp:
		w.Sheet = &wireSheet{ID: v.Sheet.ID, Name: v.Sheet.Name, Color: v.Sheet.Color, Order: v.Sheet.Order}
	case DeleteSheetOp:
		w.SheetID = v.SheetID
	case ReorderSheetOp:
		w.SheetID = v.Target
		w.Order = v.Order
	case SetSheetNameOp:
		w.SheetID = v.SheetID
		w.Name = v.Name
	case SetSheetColorOp:
		w.SheetID = v.SheetID
		w.Color = v.Color
	default:
		return nil, fmt.Errorf("op: unknown operation type %T", o)
	}
	return json.Marshal(w)
}

// Decode parses one tagged-JSON Operation. A freshly-decoded AddSheet
// carries an empty sheet: wire sheets never include the cell store, so
// the grid that receives it must be one this id has never touched
// before (always true for forward AddSheet and for DeleteSheet's
// inverse replay of a never-mutated-since removal).
func Decode(data json.RawMessage) (Operation, error) {
	var w wireOp
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case "SetCells":
		region := grid.RegionRef{Sheet: w.RegionSheet, Columns: w.RegionCols, Rows: w.RegionRows}
		if w.ValuesW == 0 || w.ValuesH == 0 {
			return SetCellsOp{Region: region}, nil
		}
		arr := cellvalue.FromRowMajor(
			pos.NewArraySize(w.ValuesW, w.ValuesH),
			w.Values,
		)
		return SetCellsOp{Region: region, Values: arr}, nil
	case "AddSheet":
		if w.Sheet == nil {
			return nil, fmt.Errorf("op: AddSheet missing sheet payload")
		}
		s := grid.NewSheetFromWire(w.Sheet.ID, w.Sheet.Name, w.Sheet.Color, w.Sheet.Order)
		return AddSheetOp{Sheet: s}, nil
	case "DeleteSheet":
		return DeleteSheetOp{SheetID: w.SheetID}, nil
	case "ReorderSheet":
		return ReorderSheetOp{Target: w.SheetID, Order: w.Order}, nil
	case "SetSheetName":
		return SetSheetNameOp{SheetID: w.SheetID, Name: w.Name}, nil
	case "SetSheetColor":
		return SetSheetColorOp{SheetID: w.SheetID, Color: w.Color}, nil
	default:
		return nil, fmt.Errorf("op: unknown operation tag %q", w.Type)
	}
}
