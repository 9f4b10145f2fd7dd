// Package legalize turns a global placement into a legal one.
//
// Legalization runs in two passes. [Initial] assigns every movable cell
// to a free site, visiting cells bottom-to-top and left-to-right by their
// input coordinates and searching nearest-row-first, nearest-subrow-first,
// leftmost-site-first. [Refine] then iteratively relocates cells to
// shrink total Manhattan displacement while keeping the placement legal,
// bounded to a fixed number of iterations.
//
// Both passes mutate the placement's occupancy state through the subrow
// Insert/Remove operations, so occupancy stays consistent with cell
// coordinates at every step. Per-cell failures (an unplaceable cell, a
// cell that cannot be located during refinement) are logged and skipped;
// they never abort the run.
package legalize
