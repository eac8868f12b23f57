package grid

import "testing"

func TestAddSheetRejectsDuplicateName(t *testing.T) {
	g := NewGrid()
	a := NewSheet("Sheet 1", NextOrderKey(""))
	if err := g.AddSheet(a); err != nil {
		t.Fatalf("AddSheet(first): %v", err)
	}
	b := NewSheet("Sheet 1", g.EndOrder())
	if err := g.AddSheet(b); err == nil {
		t.Fatal("expected error adding duplicate sheet name")
	}
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after rejected duplicate", g.Len())
	}
}

func TestMustAddSheetPanicsOnDuplicate(t *testing.T) {
	g := NewGrid()
	g.MustAddSheet(NewSheet("Sheet 1", NextOrderKey("")))
	defer func() {
		if recover() == nil {
			t.Error("expected panic adding duplicate via MustAddSheet")
		}
	}()
	g.MustAddSheet(NewSheet("Sheet 1", g.EndOrder()))
}

func TestSheetsOrderedByOrderKey(t *testing.T) {
	g := NewGrid()
	first := NewSheet("First", NextOrderKey(""))
	g.MustAddSheet(first)
	second := NewSheet("Second", g.EndOrder())
	g.MustAddSheet(second)
	third := NewSheet("Third", g.EndOrder())
	g.MustAddSheet(third)

	got := g.Sheets()
	if len(got) != 3 {
		t.Fatalf("Sheets() returned %d sheets, want 3", len(got))
	}
	want := []string{"First", "Second", "Third"}
	for i, s := range got {
		if s.Name != want[i] {
			t.Errorf("Sheets()[%d].Name = %q, want %q", i, s.Name, want[i])
		}
	}
}

func TestFirstSheetIDTracksReorder(t *testing.T) {
	g := NewGrid()
	a := NewSheet("A", NextOrderKey(""))
	g.MustAddSheet(a)
	b := NewSheet("B", g.EndOrder())
	g.MustAddSheet(b)

	first, ok := g.FirstSheetID()
	if !ok || first != a.ID {
		t.Fatalf("FirstSheetID() = %v, %v, want %v, true", first, ok, a.ID)
	}

	bOrder := b.Order
	prev, err := g.ReorderSheet(b.ID, PrevOrderKey(a.Order))
	if err != nil {
		t.Fatalf("ReorderSheet: %v", err)
	}
	if prev != bOrder {
		t.Errorf("ReorderSheet returned previous order %q, want %q", prev, bOrder)
	}
	first, ok = g.FirstSheetID()
	if !ok || first != b.ID {
		t.Fatalf("FirstSheetID() after reorder = %v, %v, want %v, true", first, ok, b.ID)
	}
}

func TestReorderSheetUnknownTargetErrors(t *testing.T) {
	g := NewGrid()
	g.MustAddSheet(NewSheet("A", NextOrderKey("")))
	if _, err := g.ReorderSheet(SheetId{}, "z"); err == nil {
		t.Error("expected error reordering an unknown sheet id")
	}
}

func TestOrderBeforeSheetMovesWithinList(t *testing.T) {
	g := NewGrid()
	a := NewSheet("A", NextOrderKey(""))
	g.MustAddSheet(a)
	b := NewSheet("B", g.EndOrder())
	g.MustAddSheet(b)
	c := NewSheet("C", g.EndOrder())
	g.MustAddSheet(c)

	order, ok := g.OrderBeforeSheet(c.ID, &b.ID)
	if !ok {
		t.Fatal("OrderBeforeSheet: expected ok")
	}
	if _, err := g.ReorderSheet(c.ID, order); err != nil {
		t.Fatalf("ReorderSheet: %v", err)
	}

	got := g.Sheets()
	want := []string{"A", "C", "B"}
	for i, s := range got {
		if s.Name != want[i] {
			t.Fatalf("Sheets()[%d].Name = %q, want %q (full order: %v)", i, s.Name, want[i], got)
		}
	}
}

func TestOrderBeforeSheetNilMovesToEnd(t *testing.T) {
	g := NewGrid()
	a := NewSheet("A", NextOrderKey(""))
	g.MustAddSheet(a)
	b := NewSheet("B", g.EndOrder())
	g.MustAddSheet(b)

	order, ok := g.OrderBeforeSheet(a.ID, nil)
	if !ok {
		t.Fatal("OrderBeforeSheet: expected ok")
	}
	if _, err := g.ReorderSheet(a.ID, order); err != nil {
		t.Fatalf("ReorderSheet: %v", err)
	}
	got := g.Sheets()
	if got[len(got)-1].ID != a.ID {
		t.Errorf("expected A last after moving to end, got order %v", got)
	}
}

func TestOrderBeforeSheetUnknownBeforeFails(t *testing.T) {
	g := NewGrid()
	a := NewSheet("A", NextOrderKey(""))
	g.MustAddSheet(a)
	unknown := SheetId{}
	if _, ok := g.OrderBeforeSheet(a.ID, &unknown); ok {
		t.Error("expected ok=false for an unknown before target")
	}
}

func TestOrderBetweenProducesStrictlySortedKey(t *testing.T) {
	lo := NextOrderKey("")
	hi := NextOrderKey(lo)
	mid := OrderBetween(lo, hi)
	if !(lo < mid && mid < hi) {
		t.Fatalf("OrderBetween(%q, %q) = %q, want strictly between", lo, hi, mid)
	}
}

func TestIsEmptyAndRemoveSheet(t *testing.T) {
	g := NewGrid()
	if !g.IsEmpty() {
		t.Fatal("new grid should be empty")
	}
	s := NewSheet("Only", NextOrderKey(""))
	g.MustAddSheet(s)
	if g.IsEmpty() {
		t.Fatal("grid with one sheet should not be empty")
	}
	removed, err := g.RemoveSheet(s.ID)
	if err != nil {
		t.Fatalf("RemoveSheet: %v", err)
	}
	if removed.ID != s.ID {
		t.Errorf("RemoveSheet returned %v, want %v", removed.ID, s.ID)
	}
	if !g.IsEmpty() {
		t.Fatal("grid should be empty after removing its only sheet")
	}
}
