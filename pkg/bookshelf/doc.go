// Package bookshelf reads and writes placements in the Bookshelf/UCLA
// benchmark format: a .aux index naming the .nodes, .nets, .wts, .pl and
// .scl artifacts of one design.
//
// [Load] parses a full bundle into a [Design] holding the placement model
// plus the node records in input order, so emission is deterministic.
// [Design.Emit] writes the five artifacts under a new prefix, copying
// .nets and .wts byte for byte.
//
// Structural problems (missing files, malformed row definitions) are
// errors; per-record problems are logged: an unparsable record is skipped
// and a duplicate node name replaces the earlier record.
package bookshelf
