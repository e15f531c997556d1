package item

import (
	"strings"
	"time"

	"lectern/internal/bibleref"
)

// CollectionKind distinguishes the singleton queue from named schedules.
type CollectionKind string

const (
	KindQueue    CollectionKind = "queue"
	KindSchedule CollectionKind = "schedule"
)

// Collection is an ordered list of items: the live queue or a saved plan.
type Collection struct {
	ID          int64
	Kind        CollectionKind
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant names one of the four item content shapes.
type Variant string

const (
	VariantSong         Variant = "song"
	VariantSlide        Variant = "slide"
	VariantBiblePassage Variant = "bible_passage"
	VariantMultiEntry   Variant = "multi_entry"
)

// SlideKind distinguishes freeform announcement slides from scene switches.
type SlideKind string

const (
	SlideAnnouncement SlideKind = "announcement"
	SlideScene        SlideKind = "scene"
)

// Item is one entry in an ordered collection. Position orders items by
// ascending sort; gaps between positions are harmless.
type Item struct {
	ID           int64
	CollectionID int64
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Content      Content
}

// Content is the tagged union of item variants. It is sealed: the four
// implementations below are the only ones, so consumers switch exhaustively.
type Content interface {
	Variant() Variant
	sealed()
}

// SongRef points at a song in the catalog. Slides are not copied; they are
// resolved live on every read, so catalog edits retroactively change every
// collection referencing the song.
type SongRef struct {
	SongID int64
}

func (SongRef) Variant() Variant { return VariantSong }
func (SongRef) sealed()          {}

// Slide is a standalone slide: freeform announcement HTML or a named scene.
type Slide struct {
	Kind      SlideKind
	Content   string
	SceneName string
}

func (Slide) Variant() Variant { return VariantSlide }
func (Slide) sealed()          {}

// VerseSnapshot is one verse frozen into an item at insert time.
type VerseSnapshot struct {
	VerseID   int64
	Reference string
	Text      string
	SortOrder int
}

// BiblePassage is a verse range whose text was copied at insert time and is
// never re-fetched, so a schedule reproduces exactly the wording presented.
type BiblePassage struct {
	TranslationID     string
	TranslationAbbrev string
	BookCode          string
	BookName          string
	StartChapter      int
	StartVerse        int
	EndChapter        int
	EndVerse          int
	Verses            []VerseSnapshot
}

func (BiblePassage) Variant() Variant { return VariantBiblePassage }
func (BiblePassage) sealed()          {}

// Range rebuilds the verse range the snapshot was taken from.
func (p BiblePassage) Range() bibleref.Range {
	return bibleref.Range{
		BookCode:     p.BookCode,
		BookName:     p.BookName,
		StartChapter: p.StartChapter,
		StartVerse:   p.StartVerse,
		EndChapter:   p.EndChapter,
		EndVerse:     p.EndVerse,
	}
}

// Reference renders the passage's display form, e.g. "John 3:16-18".
func (p BiblePassage) Reference() string {
	r := p.Range()
	return r.Reference()
}

// Entry is one person's verse range inside a multi-entry slide, frozen at
// insert time like a passage snapshot.
type Entry struct {
	PersonName    string
	TranslationID string
	BookCode      string
	BookName      string
	Reference     string
	Text          string
	StartChapter  int
	StartVerse    int
	EndChapter    int
	EndVerse      int
	SortOrder     int
}

// MultiEntrySlide groups several entries onto one devotional slide.
type MultiEntrySlide struct {
	Entries []Entry
}

func (MultiEntrySlide) Variant() Variant { return VariantMultiEntry }
func (MultiEntrySlide) sealed()          {}

// Title joins the entry names for listings, e.g. "Ana, Mihai".
func (m MultiEntrySlide) Title() string {
	names := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		names = append(names, e.PersonName)
	}
	return strings.Join(names, ", ")
}
