package collection

import (
	"lectern/internal/bibleref"
	"lectern/internal/item"
)

// Payload describes content to insert before snapshots are materialized.
// Song and slide payloads carry their content directly; passage and
// multi-entry payloads carry ranges that the service resolves against the
// verse source at insert time.
type Payload interface {
	isPayload()
}

// SongRefPayload inserts a live reference to a catalog song.
type SongRefPayload struct {
	SongID int64
}

func (SongRefPayload) isPayload() {}

// SlidePayload inserts a standalone announcement or scene slide.
type SlidePayload struct {
	Kind      item.SlideKind
	Content   string
	SceneName string
}

func (SlidePayload) isPayload() {}

// BiblePassagePayload inserts a verse range; the text is snapshotted when
// the insert happens and never re-fetched.
type BiblePassagePayload struct {
	TranslationID     string
	TranslationAbbrev string
	Range             bibleref.Range
}

func (BiblePassagePayload) isPayload() {}

// EntryPayload is one person's verse range inside a multi-entry payload.
type EntryPayload struct {
	PersonName    string
	TranslationID string
	Range         bibleref.Range
}

// MultiEntryPayload inserts a grouped devotional slide; every entry's range
// is snapshotted at insert time.
type MultiEntryPayload struct {
	Entries []EntryPayload
}

func (MultiEntryPayload) isPayload() {}

// SnapshotPayload inserts content that is already materialized, such as a
// passage whose verse text arrived inside an interchange document instead
// of the local Bible catalog.
type SnapshotPayload struct {
	Content item.Content
}

func (SnapshotPayload) isPayload() {}
