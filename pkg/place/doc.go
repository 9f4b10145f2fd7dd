// Package place models a row-based standard-cell placement in the
// Bookshelf/UCLA sense: cells, rows partitioned into subrows, and the
// site-indexed occupancy state the legalizer mutates.
//
// # Data Model
//
// A [Placement] owns every [Cell] in a flat map keyed by name, plus the
// ordered list of [Row] strips. Each row is partitioned into one or more
// [Subrow] spans around obstacles; a subrow carries an occupancy bitmap
// with one bit per site and a denormalized list of its resident cells
// kept sorted by ascending x.
//
// Subrows hold non-owning pointers into the placement's cell map. Cells
// never reference rows or subrows back, so there is no cyclic ownership;
// the lifetime of every resident pointer is bounded by the placement.
//
// # Coordinates
//
// Sites are implicit: site k of a subrow sits at xStart + k*siteWidth.
// All geometric comparisons use the shared [Epsilon] tolerance and bias
// toward acceptance so rounding never loses a valid position.
package place
