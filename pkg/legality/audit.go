// Package legality audits a placement against the legal-placement rules:
// site alignment, row/subrow containment, pairwise non-overlap, fixed-cell
// immutability, and bitmap/list consistency. The audit reads only; it is
// used by the check command, the plot renderer, and the test suite.
package legality

import (
	"fmt"
	"math"
	"sort"

	"github.com/rowfit/rowfit/pkg/place"
)

// Kind classifies a violation.
type Kind string

const (
	// KindOverlap marks two cells whose site ranges intersect.
	KindOverlap Kind = "overlap"

	// KindOutsideRow marks a cell whose y matches no row's yStart, whose
	// height exceeds its row's, or that no subrow of its row contains.
	KindOutsideRow Kind = "outside-row"

	// KindMisaligned marks a cell whose left edge is not on its subrow's
	// site grid.
	KindMisaligned Kind = "misaligned"

	// KindFixedMoved marks a fixed cell whose coordinates differ from its
	// input coordinates.
	KindFixedMoved Kind = "fixed-moved"

	// KindInconsistent marks a subrow whose occupancy bitmap disagrees
	// with its resident-cell list.
	KindInconsistent Kind = "inconsistent"
)

// Violation is one audit finding.
type Violation struct {
	Kind   Kind
	Cell   string // primary cell, empty for subrow-level findings
	Other  string // second cell for overlaps
	Detail string
}

func (v Violation) String() string {
	if v.Other != "" {
		return fmt.Sprintf("%s: %s / %s: %s", v.Kind, v.Cell, v.Other, v.Detail)
	}
	if v.Cell != "" {
		return fmt.Sprintf("%s: %s: %s", v.Kind, v.Cell, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Kind, v.Detail)
}

// Audit checks every cell's geometry against the rows and each same-row
// cell against its x-sorted neighbor for overlap. Cells named in skip (the
// initial placer's unplaceable list) are excluded from geometric checks.
// Per-cell findings come first, sorted by cell name, followed by overlap
// findings in row and x order.
func Audit(p *place.Placement, skip map[string]bool) []Violation {
	var out []Violation

	names := make([]string, 0, len(p.Cells))
	for name := range p.Cells {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := p.Cells[name]
		if c.Fixed {
			if c.X != c.OrigX || c.Y != c.OrigY {
				out = append(out, Violation{Kind: KindFixedMoved, Cell: name,
					Detail: fmt.Sprintf("at (%g, %g), input (%g, %g)", c.X, c.Y, c.OrigX, c.OrigY)})
			}
			continue
		}
		if skip[name] {
			continue
		}
		out = append(out, auditCell(p, c)...)
	}

	out = append(out, auditOverlaps(p, skip)...)
	return out
}

// auditCell verifies containment and grid alignment for one movable cell.
func auditCell(p *place.Placement, c *place.Cell) []Violation {
	var row *place.Row
	for _, r := range p.Rows {
		if math.Abs(r.YStart-c.Y) < place.Epsilon {
			row = r
			break
		}
	}
	if row == nil {
		return []Violation{{Kind: KindOutsideRow, Cell: c.Name,
			Detail: fmt.Sprintf("y=%g matches no row", c.Y)}}
	}
	if !row.Fits(c.Height) {
		return []Violation{{Kind: KindOutsideRow, Cell: c.Name,
			Detail: fmt.Sprintf("height %g exceeds row height %g", c.Height, row.Height)}}
	}

	for _, sr := range row.Subrows {
		if !sr.Contains(c.X, c.Width) {
			continue
		}
		offset := (c.X - sr.XStart) / sr.SiteWidth
		if math.Abs(offset-math.Round(offset)) > place.Epsilon {
			return []Violation{{Kind: KindMisaligned, Cell: c.Name,
				Detail: fmt.Sprintf("x=%g is %g sites from subrow origin %g", c.X, offset, sr.XStart)}}
		}
		return nil
	}
	return []Violation{{Kind: KindOutsideRow, Cell: c.Name,
		Detail: fmt.Sprintf("extent [%g, %g] fits no subrow", c.X, c.X+c.Width)}}
}

// auditOverlaps sorts each row's movable cells by x and checks every
// adjacent pair; an overlap between non-adjacent cells shows up through an
// adjacent pair.
func auditOverlaps(p *place.Placement, skip map[string]bool) []Violation {
	byRow := make(map[int][]*place.Cell)
	for _, c := range p.Cells {
		if c.Fixed || skip[c.Name] {
			continue
		}
		for i, r := range p.Rows {
			if math.Abs(r.YStart-c.Y) < place.Epsilon {
				byRow[i] = append(byRow[i], c)
				break
			}
		}
	}

	rowIdxs := make([]int, 0, len(byRow))
	for i := range byRow {
		rowIdxs = append(rowIdxs, i)
	}
	sort.Ints(rowIdxs)

	var out []Violation
	for _, i := range rowIdxs {
		cells := byRow[i]
		sort.Slice(cells, func(a, b int) bool {
			if cells[a].X != cells[b].X {
				return cells[a].X < cells[b].X
			}
			return cells[a].Name < cells[b].Name
		})
		for j := 1; j < len(cells); j++ {
			prev, cur := cells[j-1], cells[j]
			if prev.X+prev.Width > cur.X+place.Epsilon {
				out = append(out, Violation{Kind: KindOverlap, Cell: prev.Name, Other: cur.Name,
					Detail: fmt.Sprintf("[%g, %g] intersects [%g, %g]", prev.X, prev.X+prev.Width, cur.X, cur.X+cur.Width)})
			}
		}
	}
	return out
}

// CheckConsistency verifies that each subrow's occupancy bitmap equals the
// union of site ranges implied by its resident-cell list and that the list
// is sorted by ascending x.
func CheckConsistency(p *place.Placement) []Violation {
	var out []Violation
	for ri, row := range p.Rows {
		for si, sr := range row.Subrows {
			want := make([]bool, sr.NumSites)
			prevX := math.Inf(-1)
			for _, c := range sr.Cells() {
				if c.X < prevX {
					out = append(out, Violation{Kind: KindInconsistent, Cell: c.Name,
						Detail: fmt.Sprintf("row %d subrow %d list not sorted by x", ri, si)})
				}
				prevX = c.X
				s := sr.StartSite(c.X)
				n := place.SitesNeeded(c.Width, sr.SiteWidth)
				for k := s; k < s+n && k < sr.NumSites; k++ {
					want[k] = true
				}
			}
			for k := 0; k < sr.NumSites; k++ {
				if want[k] != sr.Occupied(k) {
					out = append(out, Violation{Kind: KindInconsistent,
						Detail: fmt.Sprintf("row %d subrow %d site %d: bitmap %v, list implies %v", ri, si, k, sr.Occupied(k), want[k])})
				}
			}
		}
	}
	return out
}

// ByCell returns the subset of violations naming the given cell.
func ByCell(violations []Violation, name string) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Cell == name || v.Other == name {
			out = append(out, v)
		}
	}
	return out
}
