// Package item defines the ordered-collection data model: collections, items,
// and the sealed Content union over the four item variants (song reference,
// standalone slide, Bible passage snapshot, multi-entry slide).
//
// Treat this package as the single source of truth for variant semantics.
// Every consumer (store, resolver, projector, transcoder) switches on
// Content exhaustively instead of inspecting optional fields.
package item
