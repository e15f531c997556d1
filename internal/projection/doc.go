// Package projection flattens a resolved collection into the linear list of
// frames the operator steps through: one frame per song slide (with the
// chorus added after every verse when the song repeats it), one per
// snapshotted verse, one per stored multi-entry entry, one per standalone
// slide. Frames are
// addressable by flat index and by item id plus sub-index in constant time.
package projection
