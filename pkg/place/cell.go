package place

import "math"

// Cell is a placeable module. OrigX/OrigY hold the global-placement
// coordinates the legalizer measures displacement against; X/Y are the
// current (possibly legalized) coordinates. Fixed cells never move and are
// never inserted into subrow occupancy.
type Cell struct {
	Name   string
	Width  float64
	Height float64
	X      float64
	Y      float64
	OrigX  float64
	OrigY  float64
	Fixed  bool
}

// Displacement returns the Manhattan distance between the cell's current
// and original coordinates.
func (c *Cell) Displacement() float64 {
	return math.Abs(c.X-c.OrigX) + math.Abs(c.Y-c.OrigY)
}
