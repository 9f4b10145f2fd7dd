// Package render draws a placement as an SVG: subrow strips underneath,
// cell rectangles on top, colored by audit status. It exists to eyeball a
// legalization result without a full EDA viewer.
package render
