package legalize

import (
	"math"
	"sort"

	"github.com/rowfit/rowfit/pkg/place"
)

// Initial assigns every movable cell to a feasible site. Cells are visited
// in ascending (origY, origX) order so placement sweeps the layout bottom
// to top, left to right, which keeps early rows from fragmenting. For each
// cell the search tries rows nearest the cell's original y first, subrows
// nearest its original x first, and takes the leftmost free run of sites.
//
// Cells that fit nowhere are left at their input coordinates, logged, and
// returned by name; the pass continues with the rest.
func Initial(p *place.Placement, opts Options) []string {
	opts = opts.withDefaults()

	movable := p.Movable()
	sort.SliceStable(movable, func(i, j int) bool {
		a, b := movable[i], movable[j]
		if math.Abs(a.OrigY-b.OrigY) > place.Epsilon {
			return a.OrigY < b.OrigY
		}
		return a.OrigX < b.OrigX
	})

	var unplaced []string
	for _, c := range movable {
		if !placeCell(p, c) {
			opts.Logger.Warn("no feasible site for cell, leaving at input coordinates", "cell", c.Name)
			unplaced = append(unplaced, c.Name)
		}
	}
	return unplaced
}

// placeCell runs the per-cell search and commits the first feasible site.
func placeCell(p *place.Placement, c *place.Cell) bool {
	for _, rowIdx := range p.RowOrder(c.OrigY) {
		row := p.Rows[rowIdx]
		if !row.Fits(c.Height) {
			continue
		}
		n := place.SitesNeeded(c.Width, row.SiteWidth)
		if n == 0 {
			continue
		}
		for _, subIdx := range row.SubrowOrder(c.OrigX) {
			sr := row.Subrows[subIdx]
			for s := 0; s <= sr.NumSites-n; s++ {
				if !sr.CanPlaceAt(s, n) {
					continue
				}
				x := sr.SiteX(s)
				if x+c.Width > sr.XEnd+place.Epsilon {
					continue
				}
				c.X = x
				c.Y = row.YStart
				sr.Insert(c, s, n)
				return true
			}
		}
	}
	return false
}
