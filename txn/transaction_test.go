package txn

import (
	"encoding/json"
	"testing"

	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/op"
)

func TestTransactionJSONRoundTrip(t *testing.T) {
	cursor := "cursor-1"
	seq := uint64(42)
	sheetID := grid.NewSheetId()
	want := &Transaction{
		ID:          grid.NewTransactionId(),
		SequenceNum: &seq,
		Cursor:      &cursor,
		Operations: []op.Operation{
			op.DeleteSheetOp{SheetID: sheetID},
			op.SetSheetNameOp{SheetID: sheetID, Name: "Renamed"},
		},
	}

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}

	if got.ID != want.ID {
		t.Errorf("ID = %v, want %v", got.ID, want.ID)
	}
	if got.SequenceNum == nil || *got.SequenceNum != seq {
		t.Errorf("SequenceNum = %v, want %d", got.SequenceNum, seq)
	}
	if got.Cursor == nil || *got.Cursor != cursor {
		t.Errorf("Cursor = %v, want %q", got.Cursor, cursor)
	}
	if len(got.Operations) != len(want.Operations) {
		t.Fatalf("got %d operations, want %d", len(got.Operations), len(want.Operations))
	}
	for i, o := range got.Operations {
		if o.Kind() != want.Operations[i].Kind() {
			t.Errorf("Operations[%d].Kind() = %q, want %q", i, o.Kind(), want.Operations[i].Kind())
		}
	}
}

func TestTransactionJSONRoundTripNilOptionalFields(t *testing.T) {
	want := New(nil, nil)

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if got.SequenceNum != nil {
		t.Errorf("SequenceNum = %v, want nil", got.SequenceNum)
	}
	if got.Cursor != nil {
		t.Errorf("Cursor = %v, want nil", got.Cursor)
	}
	if len(got.Operations) != 0 {
		t.Errorf("Operations = %v, want empty", got.Operations)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := New([]op.Operation{op.DeleteSheetOp{SheetID: grid.NewSheetId()}}, nil)
	clone := orig.Clone()
	clone.Operations = append(clone.Operations, op.DeleteSheetOp{SheetID: grid.NewSheetId()})
	if len(orig.Operations) != 1 {
		t.Errorf("appending to clone.Operations mutated the original: len=%d", len(orig.Operations))
	}
}
