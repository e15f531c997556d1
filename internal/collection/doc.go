// Package collection implements the ordered-collection operations: insert
// after an anchor, append, remove, reorder by complete permutation, update
// in place, and bulk replace with per-payload skip reporting.
//
// The service freezes Bible text into verse snapshots at insert time. A
// range that resolves to zero verses never produces an item; during bulk
// replace such payloads are skipped and reported by input index, while any
// other failure aborts the whole operation atomically.
package collection
