// Package bibleref parses free-text scripture references ("John 3:16-18",
// "1 Corinthians 13:4-7") into book-coded verse ranges and renders the
// canonical display form used by exports and verse snapshots.
package bibleref
