// Package resolve materializes live content for stored items. Snapshot
// variants pass through as-is; song references are looked up in the catalog
// on every read so that catalog edits show up everywhere immediately, and a
// deleted song degrades to a missing-content marker instead of an error.
package resolve
