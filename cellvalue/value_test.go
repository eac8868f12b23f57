package cellvalue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BlacksmithSoftware/quadratic/pos"
)

func TestEqualDistinguishesKinds(t *testing.T) {
	if NewText("1").Equal(NewNumber(decimal.NewFromInt(1))) {
		t.Error("text and number with the same display should not be Equal")
	}
	if !NewBlank().Equal(NewBlank()) {
		t.Error("two blanks should be Equal")
	}
}

func TestCellValueJSONRoundTrip(t *testing.T) {
	cases := []CellValue{
		NewBlank(),
		NewText("hello"),
		NewNumber(decimal.RequireFromString("3.140")),
		NewLogical(true),
		NewInstant(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
		NewDuration(90 * time.Second),
		NewError(CellError{Kind: "circular_reference", Message: "cycle detected"}),
		NewCode(CodeCellValue{Language: "python", Code: "1+1", LastModified: time.Unix(0, 0).UTC()}),
	}
	for _, want := range cases {
		data, err := json.Marshal(want)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", want, err)
		}
		var got CellValue
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if !want.Equal(got) {
			t.Errorf("round trip mismatch: want %v, got %v (wire: %s)", want, got, data)
		}
	}
}

func TestArrayFromRowMajorRejectsSizeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on values/size mismatch")
		}
	}()
	FromRowMajor(pos.NewArraySize(2, 2), []CellValue{NewBlank()})
}

func TestArraySetGetRoundTrip(t *testing.T) {
	arr := NewEmpty(pos.NewArraySize(3, 2))
	arr.Set(1, 1, NewText("x"))
	if v := arr.Get(1, 1); !v.Equal(NewText("x")) {
		t.Errorf("Get(1,1) = %v, want text x", v)
	}
	if v := arr.Get(0, 0); !v.IsBlank() {
		t.Errorf("Get(0,0) = %v, want blank", v)
	}
}
