package legalize

import (
	"fmt"
	"testing"

	"github.com/rowfit/rowfit/pkg/place"
)

func TestRefineCrowdedRowStaysLegal(t *testing.T) {
	p := singleRow(20)
	a := addCell(p, "a", 5, 10, 3, 0)
	b := addCell(p, "b", 5, 10, 4, 0)

	Initial(p, quiet())
	before, _ := p.Displacement()

	Refine(p, quiet())
	after, _ := p.Displacement()

	if after > before+place.Epsilon {
		t.Errorf("refinement increased displacement: %g -> %g", before, after)
	}
	if a.X == b.X {
		t.Error("cells share a position")
	}
	assertLegal(t, p, nil)
}

func TestRefineNeverExceedsIterationCap(t *testing.T) {
	p := singleRow(200)
	for i := 0; i < 40; i++ {
		addCell(p, fmt.Sprintf("c%d", i), 4, 10, float64(i)*1.5, 0)
	}

	Initial(p, quiet())
	if got := Refine(p, quiet()); got > DefaultMaxIterations {
		t.Errorf("iterations = %d, cap is %d", got, DefaultMaxIterations)
	}
	assertLegal(t, p, nil)
}

func TestRefineHonorsCustomIterationCap(t *testing.T) {
	p := singleRow(200)
	for i := 0; i < 20; i++ {
		addCell(p, fmt.Sprintf("c%d", i), 4, 10, float64(i)*2.3, 0)
	}

	Initial(p, quiet())
	opts := quiet()
	opts.MaxIterations = 2
	if got := Refine(p, opts); got > 2 {
		t.Errorf("iterations = %d, cap is 2", got)
	}
}

func TestRefineNonIncreasingAcrossRows(t *testing.T) {
	p := place.New()
	for _, y := range []float64{0, 10, 20, 30} {
		row := &place.Row{YStart: y, Height: 10, SiteWidth: 1}
		row.Subrows = []*place.Subrow{place.NewSubrow(0, 60, 1)}
		p.Rows = append(p.Rows, row)
	}
	coords := [][2]float64{
		{3.7, 1}, {4.1, 1}, {12.9, 8}, {0.2, 12}, {33.3, 22}, {8.8, 29}, {8.9, 29.5},
	}
	for i, xy := range coords {
		addCell(p, fmt.Sprintf("c%d", i), 5, 10, xy[0], xy[1])
	}

	Initial(p, quiet())
	before, _ := p.Displacement()
	Refine(p, quiet())
	after, _ := p.Displacement()

	if after > before+place.Epsilon {
		t.Errorf("refinement increased displacement: %g -> %g", before, after)
	}
	assertLegal(t, p, nil)
}

func TestRefineSearchRadiusLimitsRelocation(t *testing.T) {
	p := place.New()
	near := &place.Row{YStart: 0, Height: 10, SiteWidth: 1}
	near.Subrows = []*place.Subrow{place.NewSubrow(0, 10, 1)}
	far := &place.Row{YStart: 100, Height: 10, SiteWidth: 1}
	far.Subrows = []*place.Subrow{place.NewSubrow(0, 10, 1)}
	p.Rows = []*place.Row{near, far}

	c := addCell(p, "a", 2, 10, 3, 0)
	Initial(p, quiet())

	opts := quiet()
	opts.Slack = 1
	Refine(p, opts)

	// The far row is outside any reachable radius; the cell stays put.
	if c.Y != 0 {
		t.Errorf("cell moved to y=%g", c.Y)
	}
}

func TestRefineStopsWhenNothingImproves(t *testing.T) {
	p := singleRow(50)
	c := addCell(p, "a", 3, 10, 7, 0)

	Initial(p, quiet())
	Refine(p, quiet())
	x := c.X

	// Already converged: another full refinement does one scan and stops.
	if got := Refine(p, quiet()); got != 1 {
		t.Errorf("iterations on converged placement = %d, want 1", got)
	}
	if c.X != x {
		t.Error("converged placement changed")
	}
}
