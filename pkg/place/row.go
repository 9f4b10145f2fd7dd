package place

import (
	"math"
	"sort"
)

// Row is a horizontal strip of the layout. Its subrows share the row's
// site width; the spacing field is carried through from the input for
// emission and is not interpreted by the legalizer.
type Row struct {
	YStart      float64
	Height      float64
	SiteWidth   float64
	SiteSpacing float64
	Subrows     []*Subrow
}

// SubrowOrder returns indices into Subrows sorted by ascending distance
// between each subrow's horizontal center and x. The sort is stable so
// equidistant subrows keep their input order.
func (r *Row) SubrowOrder(x float64) []int {
	order := make([]int, len(r.Subrows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da := math.Abs(r.Subrows[order[a]].CenterX() - x)
		db := math.Abs(r.Subrows[order[b]].CenterX() - x)
		return da < db
	})
	return order
}

// Fits reports whether a cell of the given height fits in the row.
func (r *Row) Fits(height float64) bool {
	return height <= r.Height+Epsilon
}
