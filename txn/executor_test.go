package txn

import (
	"testing"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/op"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

func newSingleSheetGrid(t *testing.T) (*grid.Grid, *grid.Sheet) {
	t.Helper()
	g := grid.NewGrid()
	s := grid.NewSheet("Sheet 1", grid.NextOrderKey(""))
	g.MustAddSheet(s)
	return g, s
}

func setCellsTx(s *grid.Sheet, x, y int64, text string) *Transaction {
	rect := pos.NewRect(pos.Pos{X: x, Y: y}, pos.Pos{X: x, Y: y})
	region := grid.RegionFromRect(s, rect, true)
	values := cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{cellvalue.NewText(text)})
	return New([]op.Operation{op.SetCellsOp{Region: region, Values: values}}, nil)
}

// TestSetThenUndoThenRedo walks the full undo/redo seed scenario: set
// (3,6) to "a" then "b", two undos back to blank with a third undo
// reporting nothing to undo, then two redos back to "b" with a third
// redo reporting nothing to redo.
func TestSetThenUndoThenRedo(t *testing.T) {
	g, s := newSingleSheetGrid(t)
	exec := NewExecutor(g)
	at := pos.Pos{X: 3, Y: 6}

	if _, _, err := exec.ApplyUser(setCellsTx(s, at.X, at.Y, "a")); err != nil {
		t.Fatalf("ApplyUser(a): %v", err)
	}
	if _, _, err := exec.ApplyUser(setCellsTx(s, at.X, at.Y, "b")); err != nil {
		t.Fatalf("ApplyUser(b): %v", err)
	}
	if !s.GetPos(at).Equal(cellvalue.NewText("b")) {
		t.Fatalf("GetPos = %v, want %q", s.GetPos(at), "b")
	}

	sum, _, ok := exec.Undo(nil)
	if !ok {
		t.Fatal("Undo(1): expected something to undo")
	}
	if !s.GetPos(at).Equal(cellvalue.NewText("a")) {
		t.Errorf("GetPos after first undo = %v, want %q", s.GetPos(at), "a")
	}
	if len(sum.CellRegionsModified) == 0 {
		t.Error("undo summary should report the modified region")
	}

	if _, _, ok := exec.Undo(nil); !ok {
		t.Fatal("Undo(2): expected something to undo")
	}
	if !s.GetPos(at).IsBlank() {
		t.Errorf("GetPos after second undo = %v, want blank", s.GetPos(at))
	}

	if _, _, ok := exec.Undo(nil); ok {
		t.Error("Undo(3): expected nothing left to undo")
	}
	if !s.GetPos(at).IsBlank() {
		t.Error("a failed third undo should leave the grid unchanged")
	}

	if _, _, ok := exec.Redo(nil); !ok {
		t.Fatal("Redo(1): expected something to redo")
	}
	if !s.GetPos(at).Equal(cellvalue.NewText("a")) {
		t.Errorf("GetPos after first redo = %v, want %q", s.GetPos(at), "a")
	}

	if _, _, ok := exec.Redo(nil); !ok {
		t.Fatal("Redo(2): expected something to redo")
	}
	if !s.GetPos(at).Equal(cellvalue.NewText("b")) {
		t.Errorf("GetPos after second redo = %v, want %q", s.GetPos(at), "b")
	}

	if _, _, ok := exec.Redo(nil); ok {
		t.Error("Redo(3): expected nothing left to redo")
	}
	if !s.GetPos(at).Equal(cellvalue.NewText("b")) {
		t.Error("a failed third redo should leave the grid unchanged")
	}
}

func TestUndoWithNothingToUndo(t *testing.T) {
	g, _ := newSingleSheetGrid(t)
	exec := NewExecutor(g)
	if _, _, ok := exec.Undo(nil); ok {
		t.Error("Undo on a fresh executor should report nothing to undo")
	}
}

func TestApplyUserClearsRedoStack(t *testing.T) {
	g, s := newSingleSheetGrid(t)
	exec := NewExecutor(g)

	exec.ApplyUser(setCellsTx(s, 0, 0, "a"))
	exec.Undo(nil)
	if exec.UndoRedo.RedoCount() != 1 {
		t.Fatalf("RedoCount() = %d, want 1 before a new user transaction", exec.UndoRedo.RedoCount())
	}

	exec.ApplyUser(setCellsTx(s, 1, 1, "b"))
	if exec.UndoRedo.RedoCount() != 0 {
		t.Errorf("RedoCount() = %d, want 0 after a new user transaction", exec.UndoRedo.RedoCount())
	}
}

func TestDeleteLastSheetSynthesizesReplacementThenUndoRedo(t *testing.T) {
	g, s := newSingleSheetGrid(t)
	exec := NewExecutor(g)

	tx := New([]op.Operation{op.DeleteSheetOp{SheetID: s.ID}}, nil)
	sum, _, err := exec.ApplyUser(tx)
	if err != nil {
		t.Fatalf("ApplyUser: %v", err)
	}
	if g.Len() != 1 {
		t.Fatalf("grid should still have exactly one sheet after deleting its only sheet, got %d", g.Len())
	}
	if _, ok := g.SheetByID(s.ID); ok {
		t.Error("the original sheet id should be gone")
	}
	if !sum.SheetListModified {
		t.Error("deleting the last sheet should mark SheetListModified")
	}
	if len(tx.Operations) != 2 {
		t.Fatalf("forward op list should include the synthesized replacement AddSheet, got %d ops", len(tx.Operations))
	}

	replacement := g.Sheets()[0]

	if _, _, ok := exec.Undo(nil); !ok {
		t.Fatal("Undo: expected something to undo")
	}
	if _, ok := g.SheetByID(s.ID); !ok {
		t.Error("undo should restore the original sheet")
	}
	if _, ok := g.SheetByID(replacement.ID); ok {
		t.Error("undo should remove the synthesized replacement sheet")
	}

	if _, _, ok := exec.Redo(nil); !ok {
		t.Fatal("Redo: expected something to redo")
	}
	if _, ok := g.SheetByID(s.ID); ok {
		t.Error("redo should remove the original sheet again")
	}
	if g.Len() != 1 {
		t.Errorf("grid should have exactly one sheet after redo, got %d", g.Len())
	}
}

func TestReorderSheetUndoRestoresPreviousOrder(t *testing.T) {
	g, a := newSingleSheetGrid(t)
	exec := NewExecutor(g)
	b := grid.NewSheet("Second", g.EndOrder())
	g.MustAddSheet(b)
	originalOrder := b.Order

	newOrder := grid.NextOrderKey("")
	tx := New([]op.Operation{op.ReorderSheetOp{Target: b.ID, Order: newOrder}}, nil)
	if _, _, err := exec.ApplyUser(tx); err != nil {
		t.Fatalf("ApplyUser: %v", err)
	}
	if b.Order != newOrder {
		t.Fatalf("Order = %q, want %q", b.Order, newOrder)
	}

	if _, _, ok := exec.Undo(nil); !ok {
		t.Fatal("Undo: expected something to undo")
	}
	if b.Order != originalOrder {
		t.Errorf("Order after undo = %q, want original %q", b.Order, originalOrder)
	}
	_ = a
}

func TestReorderUnknownTargetIsNoOp(t *testing.T) {
	g, _ := newSingleSheetGrid(t)
	exec := NewExecutor(g)

	before := g.Sheets()[0].Order
	tx := New([]op.Operation{op.ReorderSheetOp{Target: grid.SheetId{}, Order: "z"}}, nil)
	if _, _, err := exec.ApplyUser(tx); err != nil {
		t.Fatalf("ApplyUser: %v", err)
	}
	if g.Sheets()[0].Order != before {
		t.Errorf("an unknown reorder target should not change any sheet's order")
	}
}
