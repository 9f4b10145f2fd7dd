package place

import (
	"math"
	"sort"
)

// Placement is the full design: every cell keyed by name, the ordered row
// list, and the occupied extent. The placement exclusively owns its cells,
// rows, and subrows; subrows reference resident cells by pointer into the
// same map values.
type Placement struct {
	Cells map[string]*Cell
	Rows  []*Row
	MaxX  float64
	MaxY  float64
}

// New creates an empty placement.
func New() *Placement {
	return &Placement{Cells: make(map[string]*Cell)}
}

// Movable returns the movable (non-fixed) cells in unspecified order.
func (p *Placement) Movable() []*Cell {
	out := make([]*Cell, 0, len(p.Cells))
	for _, c := range p.Cells {
		if !c.Fixed {
			out = append(out, c)
		}
	}
	return out
}

// RowOrder returns indices into Rows sorted by ascending distance between
// each row's yStart and y. Among equidistant rows the one with the lower
// yStart comes first.
func (p *Placement) RowOrder(y float64) []int {
	order := make([]int, len(p.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da := math.Abs(p.Rows[order[a]].YStart - y)
		db := math.Abs(p.Rows[order[b]].YStart - y)
		if da != db {
			return da < db
		}
		return p.Rows[order[a]].YStart < p.Rows[order[b]].YStart
	})
	return order
}

// Locate finds the row and subrow currently holding the cell: the row
// whose yStart matches the cell's y within Epsilon, then the subrow whose
// extent contains the cell and whose bitmap shows its start site occupied.
// It returns nil, nil when the cell cannot be located; when the placement
// invariants hold that only happens for cells that were never placed.
func (p *Placement) Locate(c *Cell) (*Row, *Subrow) {
	for _, row := range p.Rows {
		if math.Abs(row.YStart-c.Y) >= Epsilon {
			continue
		}
		for _, sr := range row.Subrows {
			if !sr.Contains(c.X, c.Width) {
				continue
			}
			s := sr.StartSite(c.X)
			if s < sr.NumSites && sr.Occupied(s) {
				return row, sr
			}
		}
	}
	return nil, nil
}

// Displacement returns the total and maximum Manhattan displacement over
// movable cells. Fixed cells contribute zero by construction.
func (p *Placement) Displacement() (total, max float64) {
	for _, c := range p.Cells {
		if c.Fixed {
			continue
		}
		d := c.Displacement()
		total += d
		if d > max {
			max = d
		}
	}
	return total, max
}
