package op

import (
	"testing"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/pos"
	"github.com/BlacksmithSoftware/quadratic/summary"
)

func TestSetCellsApplyAndInverseRoundTrip(t *testing.T) {
	g := grid.NewGrid()
	s := grid.NewSheet("Sheet 1", grid.NextOrderKey(""))
	g.MustAddSheet(s)

	rect := pos.NewRect(pos.Pos{X: 0, Y: 0}, pos.Pos{X: 1, Y: 0})
	region := grid.RegionFromRect(s, rect, true)
	values := cellvalue.FromRowMajor(pos.NewArraySize(2, 1), []cellvalue.CellValue{
		cellvalue.NewText("a"),
		cellvalue.NewText("b"),
	})

	setOp := SetCellsOp{Region: region, Values: values}
	sum := summary.New()
	inverses, extra, err := setOp.Apply(g, ModeUser, sum)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(extra) != 0 {
		t.Fatalf("SetCells should never synthesize extra forward ops, got %d", len(extra))
	}
	if len(inverses) != 1 {
		t.Fatalf("expected exactly one inverse, got %d", len(inverses))
	}
	if !s.GetPos(pos.Pos{X: 0, Y: 0}).Equal(cellvalue.NewText("a")) {
		t.Error("cell (0,0) was not set to \"a\"")
	}
	if !s.GetPos(pos.Pos{X: 1, Y: 0}).Equal(cellvalue.NewText("b")) {
		t.Error("cell (1,0) was not set to \"b\"")
	}
	if len(sum.CellRegionsModified) != 1 {
		t.Fatalf("expected one modified region, got %d", len(sum.CellRegionsModified))
	}

	inverse := inverses[0]
	undoSum := summary.New()
	if _, _, err := inverse.Apply(g, ModeUndo, undoSum); err != nil {
		t.Fatalf("Apply(inverse): %v", err)
	}
	if !s.GetPos(pos.Pos{X: 0, Y: 0}).IsBlank() {
		t.Error("cell (0,0) should be blank again after applying the inverse")
	}
	if !s.GetPos(pos.Pos{X: 1, Y: 0}).IsBlank() {
		t.Error("cell (1,0) should be blank again after applying the inverse")
	}
}

func TestSetCellsThumbnailRegionHeuristic(t *testing.T) {
	g := grid.NewGrid()
	s := grid.NewSheet("Sheet 1", grid.NextOrderKey(""))
	g.MustAddSheet(s)

	inside := SetCellsOp{
		Region: grid.RegionFromRect(s, pos.NewRect(pos.Pos{X: 0, Y: 0}, pos.Pos{X: 0, Y: 0}), true),
		Values: cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{cellvalue.NewText("a")}),
	}
	sum := summary.New()
	if _, _, err := inside.Apply(g, ModeUser, sum); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !sum.GenerateThumbnail {
		t.Error("a write inside the thumbnail region should set GenerateThumbnail")
	}

	outside := SetCellsOp{
		Region: grid.RegionFromRect(s, pos.NewRect(pos.Pos{X: 100, Y: 100}, pos.Pos{X: 100, Y: 100}), true),
		Values: cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{cellvalue.NewText("b")}),
	}
	sum = summary.New()
	if _, _, err := outside.Apply(g, ModeUser, sum); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if sum.GenerateThumbnail {
		t.Error("a write far outside the thumbnail region should not set GenerateThumbnail")
	}
}

func TestSetCellsEmptyRegionIsNoOp(t *testing.T) {
	g := grid.NewGrid()
	s := grid.NewSheet("Sheet 1", grid.NextOrderKey(""))
	g.MustAddSheet(s)

	setOp := SetCellsOp{Region: grid.RegionRef{Sheet: s.ID}, Values: cellvalue.Array{}}
	sum := summary.New()
	inverses, extra, err := setOp.Apply(g, ModeUser, sum)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if inverses != nil || extra != nil {
		t.Errorf("expected nil inverses/extra for an empty region, got %v, %v", inverses, extra)
	}
	if len(sum.CellRegionsModified) != 0 {
		t.Error("empty region should not mark any cell region modified")
	}
}

func TestSetCellsSkipsStaleReference(t *testing.T) {
	g := grid.NewGrid()
	s := grid.NewSheet("Sheet 1", grid.NextOrderKey(""))
	g.MustAddSheet(s)

	col := s.EnsureColumn(0)
	row := s.EnsureRow(0)
	ref := grid.CellRef{Sheet: s.ID, Column: col, Row: row}
	s.RemoveColumn(0)

	region := grid.RegionRef{Sheet: s.ID, Columns: []grid.ColumnId{col}, Rows: []grid.RowId{row}}
	values := cellvalue.FromRowMajor(pos.NewArraySize(1, 1), []cellvalue.CellValue{cellvalue.NewText("x")})
	setOp := SetCellsOp{Region: region, Values: values}
	sum := summary.New()

	if _, _, err := setOp.Apply(g, ModeUser, sum); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if v := s.GetByRef(ref); !v.IsBlank() {
		t.Error("a stale column reference should be skipped, not written")
	}
	if len(sum.CellRegionsModified) != 0 {
		t.Error("a transaction touching only stale refs should mark no region dirty")
	}
}
