// Package store persists ordered collections, their heterogeneous items,
// the song catalog, and Bible text in SQLite.
//
// Every structural operation on a collection (insert, remove, reorder,
// replace-all, content update) runs as one transaction so a mid-operation
// failure leaves the collection exactly as it was. Items order by the
// position column ascending; inserts shift positions to open a slot and
// removals leave gaps, which reads tolerate by never depending on absolute
// values.
//
// Treat this package as the single source of truth for ordering semantics;
// schema changes bump schemaVersion in schema.go.
package store
