package op

import (
	"testing"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

func encodeDecode(t *testing.T, o Operation) Operation {
	t.Helper()
	data, err := Encode(o)
	if err != nil {
		t.Fatalf("Encode(%v): %v", o, err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(%s): %v", data, err)
	}
	return decoded
}

func TestEncodeDecodeSetCells(t *testing.T) {
	sheetID := grid.NewSheetId()
	colID := grid.NewColumnId()
	rowID := grid.NewRowId()
	region := grid.RegionRef{Sheet: sheetID, Columns: []grid.ColumnId{colID}, Rows: []grid.RowId{rowID}}
	values := cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{cellvalue.NewText("hi")})
	want := SetCellsOp{Region: region, Values: values}

	got, ok := encodeDecode(t, want).(SetCellsOp)
	if !ok {
		t.Fatalf("Decode returned %T, want SetCellsOp", got)
	}
	if got.Region.Sheet != sheetID || len(got.Region.Columns) != 1 || got.Region.Columns[0] != colID {
		t.Errorf("region round trip mismatch: got %+v", got.Region)
	}
	if !got.Values.Get(0, 0).Equal(cellvalue.NewText("hi")) {
		t.Errorf("values round trip mismatch: got %v", got.Values.Get(0, 0))
	}
}

func TestEncodeDecodeSetCellsEmptyRegion(t *testing.T) {
	want := SetCellsOp{Region: grid.RegionRef{Sheet: grid.NewSheetId()}}
	got, ok := encodeDecode(t, want).(SetCellsOp)
	if !ok {
		t.Fatalf("Decode returned %T, want SetCellsOp", got)
	}
	if _, sized := got.Region.Size(); sized {
		t.Error("expected empty region to round trip as sizeless")
	}
}

func TestEncodeDecodeAddSheet(t *testing.T) {
	s := grid.NewSheet("Sheet 1", "m")
	want := AddSheetOp{Sheet: s}
	got, ok := encodeDecode(t, want).(AddSheetOp)
	if !ok {
		t.Fatalf("Decode returned %T, want AddSheetOp", got)
	}
	if got.Sheet.ID != s.ID || got.Sheet.Name != s.Name || got.Sheet.Order != s.Order {
		t.Errorf("sheet round trip mismatch: got %+v", got.Sheet)
	}
}

func TestEncodeDecodeDeleteReorderNameColor(t *testing.T) {
	id := grid.NewSheetId()
	color := "#ff0000"

	cases := []Operation{
		DeleteSheetOp{SheetID: id},
		ReorderSheetOp{Target: id, Order: "n"},
		SetSheetNameOp{SheetID: id, Name: "Renamed"},
		SetSheetColorOp{SheetID: id, Color: &color},
	}
	for _, want := range cases {
		got := encodeDecode(t, want)
		if got.Kind() != want.Kind() {
			t.Errorf("Kind mismatch: got %q, want %q", got.Kind(), want.Kind())
		}
	}
}

func TestDecodeUnknownTagErrors(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"NotARealOperation"}`)); err == nil {
		t.Error("expected an error decoding an unknown operation tag")
	}
}
