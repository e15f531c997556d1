package bibleref_test

import (
	"errors"
	"testing"

	"lectern/internal/bibleref"
	"lectern/internal/services"
)

func TestParseSingleVerse(t *testing.T) {
	r, err := bibleref.Parse("John 3:16")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.BookCode != "John" || r.StartChapter != 3 || r.StartVerse != 16 {
		t.Fatalf("unexpected range: %+v", r)
	}
	if r.EndChapter != 3 || r.EndVerse != 16 {
		t.Fatalf("expected single-verse range, got %+v", r)
	}
	if got := r.Reference(); got != "John 3:16" {
		t.Fatalf("unexpected reference %q", got)
	}
}

func TestParseVerseRange(t *testing.T) {
	r, err := bibleref.Parse("John 3:16-18")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.EndVerse != 18 || r.EndChapter != 3 {
		t.Fatalf("unexpected range end: %+v", r)
	}
	if got := r.Reference(); got != "John 3:16-18" {
		t.Fatalf("unexpected reference %q", got)
	}
}

func TestParseCrossChapterRange(t *testing.T) {
	r, err := bibleref.Parse("John 3:16-4:2")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.EndChapter != 4 || r.EndVerse != 2 {
		t.Fatalf("unexpected range end: %+v", r)
	}
	if got := r.Reference(); got != "John 3:16-4:2" {
		t.Fatalf("unexpected reference %q", got)
	}
}

func TestParseNumberedBook(t *testing.T) {
	r, err := bibleref.Parse("1 Corinthians 13:4-7")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.BookCode != "1Cor" || r.BookName != "1 Corinthians" {
		t.Fatalf("unexpected book: %+v", r)
	}
}

func TestParseAbbreviationsAndCase(t *testing.T) {
	cases := map[string]string{
		"jn 3:16":           "John",
		"1 Cor. 13:4":       "1Cor",
		"PSALM 23:1":        "Ps",
		"song of songs 2:1": "Song",
	}
	for input, wantCode := range cases {
		r, err := bibleref.Parse(input)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}
		if r.BookCode != wantCode {
			t.Fatalf("Parse(%q): expected book %s, got %s", input, wantCode, r.BookCode)
		}
	}
}

func TestParseWholeChapter(t *testing.T) {
	r, err := bibleref.Parse("Psalm 23")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if r.StartVerse != 1 || r.EndVerse != 0 {
		t.Fatalf("expected whole-chapter range, got %+v", r)
	}
	if got := r.Reference(); got != "Psalm 23" {
		t.Fatalf("unexpected reference %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "Fhtagn 1:1", "John 3:18-16", "John"} {
		_, err := bibleref.Parse(input)
		if err == nil {
			t.Fatalf("Parse(%q): expected error", input)
		}
		if !errors.Is(err, services.ErrParse) {
			t.Fatalf("Parse(%q): expected parse marker, got %v", input, err)
		}
	}
}
