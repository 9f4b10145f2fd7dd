package place

import "testing"

func TestNewSubrow(t *testing.T) {
	sr := NewSubrow(10, 50, 2)
	if sr.XEnd != 110 {
		t.Errorf("XEnd = %g, want 110", sr.XEnd)
	}
	if sr.CenterX() != 60 {
		t.Errorf("CenterX = %g, want 60", sr.CenterX())
	}
	if sr.SiteX(3) != 16 {
		t.Errorf("SiteX(3) = %g, want 16", sr.SiteX(3))
	}
}

func TestCanPlaceAt(t *testing.T) {
	sr := NewSubrow(0, 10, 1)

	if !sr.CanPlaceAt(0, 10) {
		t.Error("full empty subrow should accept a full-width run")
	}
	if sr.CanPlaceAt(-1, 2) {
		t.Error("negative start site should be rejected")
	}
	if sr.CanPlaceAt(8, 3) {
		t.Error("run past the end should be rejected")
	}
	if sr.CanPlaceAt(0, 0) {
		t.Error("empty run should be rejected")
	}

	c := &Cell{Name: "a", Width: 3, X: 4}
	sr.Insert(c, 4, 3)
	if sr.CanPlaceAt(3, 2) {
		t.Error("run into occupied sites should be rejected")
	}
	if sr.CanPlaceAt(6, 2) {
		t.Error("run starting on an occupied site should be rejected")
	}
	if !sr.CanPlaceAt(7, 3) {
		t.Error("run after the occupied block should be accepted")
	}
	if !sr.CanPlaceAt(0, 4) {
		t.Error("run before the occupied block should be accepted")
	}
}

func TestInsertKeepsOrder(t *testing.T) {
	sr := NewSubrow(0, 20, 1)

	right := &Cell{Name: "right", Width: 2, X: 10}
	left := &Cell{Name: "left", Width: 2, X: 2}
	mid := &Cell{Name: "mid", Width: 2, X: 6}
	sr.Insert(right, 10, 2)
	sr.Insert(left, 2, 2)
	sr.Insert(mid, 6, 2)

	cells := sr.Cells()
	if len(cells) != 3 {
		t.Fatalf("len(cells) = %d, want 3", len(cells))
	}
	for i, want := range []string{"left", "mid", "right"} {
		if cells[i].Name != want {
			t.Errorf("cells[%d] = %s, want %s", i, cells[i].Name, want)
		}
	}

	for _, site := range []int{2, 3, 6, 7, 10, 11} {
		if !sr.Occupied(site) {
			t.Errorf("site %d should be occupied", site)
		}
	}
	if sr.Occupied(4) || sr.Occupied(9) {
		t.Error("gap sites should be free")
	}
}

func TestRemove(t *testing.T) {
	sr := NewSubrow(0, 10, 1)
	a := &Cell{Name: "a", Width: 2, X: 1}
	b := &Cell{Name: "b", Width: 2, X: 5}
	sr.Insert(a, 1, 2)
	sr.Insert(b, 5, 2)

	sr.Remove(a, 1, 2)
	if sr.Occupied(1) || sr.Occupied(2) {
		t.Error("removed sites should be free")
	}
	if !sr.Occupied(5) {
		t.Error("unrelated sites should stay occupied")
	}
	cells := sr.Cells()
	if len(cells) != 1 || cells[0].Name != "b" {
		t.Errorf("cells after remove = %v", cells)
	}
}

func TestStartSiteClampsAtZero(t *testing.T) {
	sr := NewSubrow(10, 10, 1)
	// A left edge within Epsilon below xStart must not floor to -1.
	if got := sr.StartSite(10 - 1e-9); got != 0 {
		t.Errorf("StartSite(10-1e-9) = %d, want 0", got)
	}
	// A left edge far enough below xStart to floor to -1 is clamped.
	if got := sr.StartSite(10 - 1e-5); got != 0 {
		t.Errorf("StartSite(10-1e-5) = %d, want 0", got)
	}
	if got := sr.StartSite(13); got != 3 {
		t.Errorf("StartSite(13) = %d, want 3", got)
	}
}

func TestContains(t *testing.T) {
	sr := NewSubrow(0, 10, 1)
	if !sr.Contains(0, 10) {
		t.Error("exact extent should be contained")
	}
	if !sr.Contains(8, 2+1e-9) {
		t.Error("overhang within Epsilon should be contained")
	}
	if sr.Contains(8, 3) {
		t.Error("real overhang should not be contained")
	}
	if sr.Contains(-1, 2) {
		t.Error("start before xStart should not be contained")
	}
}
