// Package transcode moves programs in and out of the engine: a
// line-oriented text grammar for quick authoring and a versioned JSON
// interchange document for moving schedules between installations.
//
// Both importers share the same partial-failure contract: per-line problems
// (bad suffix, unparseable reference, unmatched song title) are collected
// and reported with their source position, never silently dropped, and
// never abort the rest of the batch. Only a structurally invalid JSON
// document is rejected whole.
package transcode
