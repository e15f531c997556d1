// Package testsupport provides helpers for tests that need a real SQLite
// store under a temp directory, seeded translations, and catalog songs.
package testsupport
