package testsupport

import (
	"context"
	"testing"

	"lectern/internal/bibleref"
	"lectern/internal/config"
	"lectern/internal/songs"
	"lectern/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedJohn3 installs a small KJV excerpt (John 3:16-18) so passage inserts
// have verses to snapshot.
func SeedJohn3(t testing.TB, st *store.Store) {
	t.Helper()

	ctx := context.Background()
	if err := st.SeedTranslation(ctx, store.Translation{ID: "kjv", Name: "King James Version", Abbrev: "KJV"}); err != nil {
		t.Fatalf("SeedTranslation: %v", err)
	}
	verses := []store.Verse{
		{BookCode: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
		{BookCode: "John", Chapter: 3, Verse: 17, Text: "For God sent not his Son into the world to condemn the world; but that the world through him might be saved."},
		{BookCode: "John", Chapter: 3, Verse: 18, Text: "He that believeth on him is not condemned: but he that believeth not is condemned already, because he hath not believed in the name of the only begotten Son of God."},
	}
	if err := st.ImportVerses(ctx, "kjv", verses); err != nil {
		t.Fatalf("ImportVerses: %v", err)
	}
}

// MustRange parses a reference or fails the test.
func MustRange(t testing.TB, reference string) bibleref.Range {
	t.Helper()

	r, err := bibleref.Parse(reference)
	if err != nil {
		t.Fatalf("bibleref.Parse(%q): %v", reference, err)
	}
	return *r
}

// NewSong creates a catalog song with the given slides for tests.
func NewSong(t testing.TB, st *store.Store, title string, repeatChorus bool, slides ...songs.Slide) *songs.Song {
	t.Helper()

	song, err := st.CreateSong(context.Background(), &songs.Song{
		Title:        title,
		RepeatChorus: repeatChorus,
		Slides:       slides,
	})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}
	return song
}
