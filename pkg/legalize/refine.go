package legalize

import (
	"math"
	"sort"

	"github.com/rowfit/rowfit/pkg/place"
)

// candidate is the best relocation found for one cell.
type candidate struct {
	row    *place.Row
	subrow *place.Subrow
	site   int
	disp   float64
}

// Refine reduces total Manhattan displacement by relocating one cell at a
// time. Each iteration snapshots the movable cells sorted by current
// displacement descending — the farthest-from-home cells have the most to
// gain — and attempts a relocation for each. The loop stops after an
// iteration with no movement or after opts.MaxIterations, whichever comes
// first. It returns the number of iterations run.
func Refine(p *place.Placement, opts Options) int {
	opts = opts.withDefaults()

	iterations := 0
	improved := true
	for improved && iterations < opts.MaxIterations {
		improved = false
		iterations++

		movable := p.Movable()
		sort.SliceStable(movable, func(i, j int) bool {
			return movable[i].Displacement() > movable[j].Displacement()
		})

		for _, c := range movable {
			if relocate(p, c, opts) {
				improved = true
			}
		}
	}
	return iterations
}

// relocate searches within the cell's displacement radius for a site with
// strictly smaller displacement and moves the cell there. Returns whether
// the cell moved.
func relocate(p *place.Placement, c *place.Cell, opts Options) bool {
	d0 := c.Displacement()
	best := candidate{disp: d0}
	radius := d0 + opts.Slack

	for _, row := range p.Rows {
		vertical := math.Abs(row.YStart - c.OrigY)
		if vertical > radius {
			continue
		}
		if !row.Fits(c.Height) {
			continue
		}
		n := place.SitesNeeded(c.Width, row.SiteWidth)
		if n == 0 {
			continue
		}
		horizontal := radius - vertical
		minX := c.OrigX - horizontal
		maxX := c.OrigX + horizontal

		for _, sr := range row.Subrows {
			minSite := int(math.Floor((minX-sr.XStart)/sr.SiteWidth + place.Epsilon))
			maxSite := int(math.Floor((maxX-sr.XStart-c.Width)/sr.SiteWidth + place.Epsilon))
			if minSite < 0 {
				minSite = 0
			}
			if limit := sr.NumSites - n; maxSite > limit {
				maxSite = limit
			}
			for s := minSite; s <= maxSite; s++ {
				if !sr.CanPlaceAt(s, n) {
					continue
				}
				x := sr.SiteX(s)
				if x+c.Width > sr.XEnd+place.Epsilon {
					continue
				}
				disp := math.Abs(x-c.OrigX) + math.Abs(row.YStart-c.OrigY)
				if disp < best.disp-place.Epsilon {
					best = candidate{row: row, subrow: sr, site: s, disp: disp}
				}
			}
		}
	}

	if best.row == nil || best.disp >= d0-place.Epsilon {
		return false
	}

	curRow, curSub := p.Locate(c)
	if curRow == nil {
		opts.Logger.Warn("cannot locate cell's current subrow, skipping relocation", "cell", c.Name)
		return false
	}
	curSite := curSub.StartSite(c.X)
	curN := place.SitesNeeded(c.Width, curSub.SiteWidth)
	curSub.Remove(c, curSite, curN)

	c.X = best.subrow.SiteX(best.site)
	c.Y = best.row.YStart

	n := place.SitesNeeded(c.Width, best.subrow.SiteWidth)
	if !best.subrow.CanPlaceAt(best.site, n) {
		// The target was free during the search and only this cell's own
		// sites were released since, so this cannot fire in a
		// single-threaded run.
		opts.Logger.Warn("target sites no longer free, cell left out of occupancy", "cell", c.Name)
		return false
	}
	best.subrow.Insert(c, best.site, n)
	return true
}
