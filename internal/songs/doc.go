// Package songs defines the song aggregate and the Catalog contract the
// collection engine needs from the song catalog. The SQLite implementation
// lives in internal/store; tests use in-memory fakes.
package songs
