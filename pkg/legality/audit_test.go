package legality

import (
	"testing"

	"github.com/rowfit/rowfit/pkg/place"
)

func legalPlacement() *place.Placement {
	p := place.New()
	row := &place.Row{YStart: 0, Height: 10, SiteWidth: 1}
	row.Subrows = []*place.Subrow{place.NewSubrow(0, 100, 1)}
	p.Rows = []*place.Row{row}

	a := &place.Cell{Name: "a", Width: 3, Height: 10, X: 2, Y: 0, OrigX: 2.4, OrigY: 0}
	b := &place.Cell{Name: "b", Width: 4, Height: 10, X: 10, Y: 0, OrigX: 9, OrigY: 0}
	p.Cells["a"] = a
	p.Cells["b"] = b
	sr := row.Subrows[0]
	sr.Insert(a, 2, 3)
	sr.Insert(b, 10, 4)
	return p
}

func TestAuditCleanPlacement(t *testing.T) {
	p := legalPlacement()
	if v := Audit(p, nil); len(v) != 0 {
		t.Errorf("clean placement produced violations: %v", v)
	}
	if v := CheckConsistency(p); len(v) != 0 {
		t.Errorf("clean placement produced consistency violations: %v", v)
	}
}

func TestAuditMisaligned(t *testing.T) {
	p := legalPlacement()
	p.Cells["a"].X = 2.5

	found := false
	for _, v := range Audit(p, nil) {
		if v.Kind == KindMisaligned && v.Cell == "a" {
			found = true
		}
	}
	if !found {
		t.Error("off-grid cell not reported as misaligned")
	}
}

func TestAuditOutsideRow(t *testing.T) {
	p := legalPlacement()

	// y matches no row
	p.Cells["a"].Y = 55
	violations := Audit(p, nil)
	if len(ByCell(violations, "a")) == 0 || violations[0].Kind != KindOutsideRow {
		t.Errorf("off-row cell not reported: %v", violations)
	}

	// extent beyond every subrow
	p.Cells["a"].Y = 0
	p.Cells["a"].X = 98
	found := false
	for _, v := range Audit(p, nil) {
		if v.Kind == KindOutsideRow && v.Cell == "a" {
			found = true
		}
	}
	if !found {
		t.Error("overhanging cell not reported as outside-row")
	}
}

func TestAuditOverlap(t *testing.T) {
	p := legalPlacement()
	p.Cells["b"].X = 4 // a spans [2, 5)

	found := false
	for _, v := range Audit(p, nil) {
		if v.Kind == KindOverlap {
			found = true
			if v.Cell != "a" || v.Other != "b" {
				t.Errorf("overlap pair = (%s, %s), want (a, b)", v.Cell, v.Other)
			}
		}
	}
	if !found {
		t.Error("overlapping cells not reported")
	}
}

func TestAuditFixedMoved(t *testing.T) {
	p := legalPlacement()
	p.Cells["pad"] = &place.Cell{Name: "pad", Width: 5, Height: 10, X: 51, Y: 20, OrigX: 50, OrigY: 20, Fixed: true}

	found := false
	for _, v := range Audit(p, nil) {
		if v.Kind == KindFixedMoved && v.Cell == "pad" {
			found = true
		}
	}
	if !found {
		t.Error("moved fixed cell not reported")
	}
}

func TestAuditSkipsNamedCells(t *testing.T) {
	p := legalPlacement()
	p.Cells["a"].X = 2.5 // would be misaligned

	if v := Audit(p, map[string]bool{"a": true}); len(v) != 0 {
		t.Errorf("skipped cell still audited: %v", v)
	}
}

func TestCheckConsistencyDetectsDrift(t *testing.T) {
	p := legalPlacement()
	// Drift a resident cell's coordinate without touching the bitmap.
	p.Cells["a"].X = 4

	if v := CheckConsistency(p); len(v) == 0 {
		t.Error("bitmap/list drift not reported")
	}
}
