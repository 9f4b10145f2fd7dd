package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/rowfit/rowfit/pkg/legality"
	"github.com/rowfit/rowfit/pkg/place"
)

// Status colors follow the classification of the reference viewer: legal
// cells green, overlaps red, cells outside any row orange, off-grid cells
// cyan, fixed cells a purple outline.
const (
	colorRowFill    = "#cfe3f5"
	colorRowStroke  = "#4878b0"
	colorLegal      = "#3f9d55"
	colorOverlap    = "#d04038"
	colorOutsideRow = "#e08f2e"
	colorMisaligned = "#3bb8c4"
	colorFixed      = "#7a4f9e"
	colorTrace      = "#999999"
)

// Options configures the SVG output.
type Options struct {
	// Width is the output width in pixels; height follows the design's
	// aspect ratio. Zero selects 1200.
	Width float64

	// Traces draws a dashed line from each movable cell's original
	// position to its final one.
	Traces bool
}

// SVGOption mutates Options.
type SVGOption func(*Options)

// WithWidth sets the output pixel width.
func WithWidth(w float64) SVGOption { return func(o *Options) { o.Width = w } }

// WithTraces enables displacement traces.
func WithTraces() SVGOption { return func(o *Options) { o.Traces = true } }

// SVG renders the placement. Violations steer per-cell coloring; pass the
// output of legality.Audit, or nil to draw everything as legal.
func SVG(p *place.Placement, violations []legality.Violation, opts ...SVGOption) []byte {
	o := Options{Width: 1200}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Width == 0 {
		o.Width = 1200
	}

	extentX, extentY := extent(p)
	if extentX <= 0 || extentY <= 0 {
		extentX, extentY = 1, 1
	}
	scale := o.Width / extentX
	height := extentY * scale

	// SVG y grows downward, layout y upward.
	flipY := func(y, h float64) float64 { return height - (y+h)*scale }

	status := statusByCell(violations)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		o.Width, height, o.Width, height)
	buf.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	for _, row := range p.Rows {
		for _, sr := range row.Subrows {
			fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.3" stroke="%s" stroke-width="0.5"/>`+"\n",
				sr.XStart*scale, flipY(row.YStart, row.Height),
				(sr.XEnd-sr.XStart)*scale, row.Height*scale,
				colorRowFill, colorRowStroke)
		}
	}

	names := make([]string, 0, len(p.Cells))
	for name := range p.Cells {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := p.Cells[name]
		x := c.X * scale
		y := flipY(c.Y, c.Height)
		w := c.Width * scale
		h := c.Height * scale

		if c.Fixed {
			fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="1">`+"\n", x, y, w, h, colorFixed)
			fmt.Fprintf(&buf, "<title>%s (fixed)</title></rect>\n", c.Name)
			continue
		}

		fill := cellColor(status[name])
		fmt.Fprintf(&buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.6" stroke="%s" stroke-width="0.5">`+"\n", x, y, w, h, fill, fill)
		fmt.Fprintf(&buf, "<title>%s</title></rect>\n", c.Name)

		if o.Traces && c.Displacement() > place.Epsilon {
			fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="3,2"/>`+"\n",
				(c.OrigX+c.Width/2)*scale, flipY(c.OrigY, c.Height)+h/2,
				(c.X+c.Width/2)*scale, y+h/2,
				colorTrace)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// extent returns the drawable bounds, preferring the parsed design extent
// and falling back to the cells themselves for synthetic placements.
func extent(p *place.Placement) (float64, float64) {
	maxX, maxY := p.MaxX, p.MaxY
	for _, c := range p.Cells {
		if right := c.X + c.Width; right > maxX {
			maxX = right
		}
		if top := c.Y + c.Height; top > maxY {
			maxY = top
		}
	}
	return maxX, maxY
}

// statusByCell reduces violations to the dominant status per cell.
// Overlap outranks outside-row, which outranks misaligned.
func statusByCell(violations []legality.Violation) map[string]legality.Kind {
	rank := map[legality.Kind]int{
		legality.KindOverlap:    3,
		legality.KindOutsideRow: 2,
		legality.KindMisaligned: 1,
	}
	status := make(map[string]legality.Kind)
	for _, v := range violations {
		for _, name := range []string{v.Cell, v.Other} {
			if name == "" {
				continue
			}
			if rank[v.Kind] > rank[status[name]] {
				status[name] = v.Kind
			}
		}
	}
	return status
}

func cellColor(kind legality.Kind) string {
	switch kind {
	case legality.KindOverlap:
		return colorOverlap
	case legality.KindOutsideRow:
		return colorOutsideRow
	case legality.KindMisaligned:
		return colorMisaligned
	default:
		return colorLegal
	}
}
