package quadratic

import (
	"testing"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/config"
	"github.com/BlacksmithSoftware/quadratic/pos"
)

func TestRunUserRefusedOnceUnsavedBacklogIsFull(t *testing.T) {
	ctl := New(config.Config{GapRequestThrottleSeconds: 5, HeartbeatTTLSeconds: 30, MaxUnsavedTransactions: 1})
	sheet := ctl.Grid.Sheets()[0]

	rect := pos.NewRect(pos.Pos{X: 0, Y: 0}, pos.Pos{X: 0, Y: 0})
	arr := cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{cellvalue.NewText("a")})
	ctl.SetCells(sheet.ID, rect, arr, nil)
	if ctl.Replication.UnsavedCount() != 1 {
		t.Fatalf("UnsavedCount() = %d, want 1", ctl.Replication.UnsavedCount())
	}

	rect2 := pos.NewRect(pos.Pos{X: 1, Y: 0}, pos.Pos{X: 1, Y: 0})
	arr2 := cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{cellvalue.NewText("b")})
	ctl.SetCells(sheet.ID, rect2, arr2, nil)
	if ctl.Replication.UnsavedCount() != 1 {
		t.Errorf("UnsavedCount() = %d, want 1: a second edit past the cap should be refused", ctl.Replication.UnsavedCount())
	}
	if !sheet.GetPos(pos.Pos{X: 1, Y: 0}).IsBlank() {
		t.Error("the refused edit should not have touched the grid")
	}
}

func TestMoveSheetBeforeReordersAndToEnd(t *testing.T) {
	ctl := New(config.Config{GapRequestThrottleSeconds: 5, HeartbeatTTLSeconds: 30})
	a := ctl.Grid.Sheets()[0]
	ctl.AddSheet("Second")
	b, _ := ctl.Grid.SheetByName("Second")

	ctl.MoveSheetBefore(b.ID, &a.ID, nil)
	got := ctl.Grid.Sheets()
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("expected Second before Sheet 1, got order %v", got)
	}

	ctl.MoveSheetBefore(b.ID, nil, nil)
	got = ctl.Grid.Sheets()
	if got[len(got)-1].ID != b.ID {
		t.Errorf("expected Second moved to the end, got order %v", got)
	}
}
