package transcode

import (
	"context"
	"encoding/json"
	"fmt"

	"lectern/internal/collection"
	"lectern/internal/item"
	"lectern/internal/resolve"
	"lectern/internal/services"
	"lectern/internal/songs"
)

// DocumentVersion is the interchange version this build reads and writes.
const DocumentVersion = 1

// DocumentType tags every interchange document.
const DocumentType = "churchprogram"

const multiEntrySlideType = "verseteTineri"

// Document is the portable .churchprogram interchange format. Songs embed
// their full slide snapshot and passages embed their verse text, so the
// document survives moving between installations that share no catalog.
type Document struct {
	Version  int            `json:"version"`
	Type     string         `json:"type"`
	Schedule ScheduleHeader `json:"schedule"`
	Items    []DocumentItem `json:"items"`
}

// ScheduleHeader carries the collection metadata.
type ScheduleHeader struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// DocumentItem is one exported item. Exactly the fields for its itemType
// are set.
type DocumentItem struct {
	ItemType     string           `json:"itemType"`
	SortOrder    int              `json:"sortOrder"`
	Song         *DocumentSong    `json:"song,omitempty"`
	SlideType    string           `json:"slideType,omitempty"`
	SlideContent string           `json:"slideContent,omitempty"`
	BiblePassage *DocumentPassage `json:"biblePassage,omitempty"`
	// Field name kept for compatibility with existing documents.
	VerseteTineriEntries []DocumentEntry `json:"verseteTineriEntries,omitempty"`
}

// DocumentSong embeds the full song snapshot, not a catalog id.
type DocumentSong struct {
	Title        string              `json:"title"`
	Author       string              `json:"author,omitempty"`
	RepeatChorus bool                `json:"repeatChorus"`
	Slides       []DocumentSongSlide `json:"slides"`
}

// DocumentSongSlide is one authored slide of an embedded song.
type DocumentSongSlide struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// DocumentPassage embeds the snapshotted verse text.
type DocumentPassage struct {
	TranslationID     string          `json:"translationId,omitempty"`
	TranslationAbbrev string          `json:"translationAbbrev,omitempty"`
	BookCode          string          `json:"bookCode"`
	BookName          string          `json:"bookName"`
	StartChapter      int             `json:"startChapter"`
	StartVerse        int             `json:"startVerse"`
	EndChapter        int             `json:"endChapter"`
	EndVerse          int             `json:"endVerse"`
	Verses            []DocumentVerse `json:"verses"`
}

// DocumentVerse is one embedded verse.
type DocumentVerse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// DocumentEntry is one person's embedded verse range on a grouped slide.
type DocumentEntry struct {
	PersonName    string `json:"personName"`
	TranslationID string `json:"translationId,omitempty"`
	BookCode      string `json:"bookCode,omitempty"`
	BookName      string `json:"bookName,omitempty"`
	Reference     string `json:"reference"`
	Text          string `json:"text"`
	StartChapter  int    `json:"startChapter,omitempty"`
	StartVerse    int    `json:"startVerse,omitempty"`
	EndChapter    int    `json:"endChapter,omitempty"`
	EndVerse      int    `json:"endVerse,omitempty"`
}

// ExportJSON builds the interchange document for a resolved collection.
// Missing songs export as an empty-slide snapshot carrying the placeholder
// title, so the document still round-trips the program order.
func ExportJSON(meta ScheduleHeader, items []*resolve.ResolvedItem) *Document {
	doc := &Document{Version: DocumentVersion, Type: DocumentType, Schedule: meta}
	for i, ri := range items {
		di := DocumentItem{SortOrder: i}
		switch content := ri.Item.Content.(type) {
		case item.SongRef:
			di.ItemType = "song"
			di.Song = exportSong(ri)
		case item.Slide:
			di.ItemType = "slide"
			di.SlideType = string(content.Kind)
			if content.Kind == item.SlideScene {
				di.SlideContent = content.SceneName
			} else {
				di.SlideContent = content.Content
			}
		case item.BiblePassage:
			di.ItemType = "bible_passage"
			di.BiblePassage = exportPassage(content)
		case item.MultiEntrySlide:
			di.ItemType = "slide"
			di.SlideType = multiEntrySlideType
			for _, entry := range content.Entries {
				di.VerseteTineriEntries = append(di.VerseteTineriEntries, DocumentEntry{
					PersonName:    entry.PersonName,
					TranslationID: entry.TranslationID,
					BookCode:      entry.BookCode,
					BookName:      entry.BookName,
					Reference:     entry.Reference,
					Text:          entry.Text,
					StartChapter:  entry.StartChapter,
					StartVerse:    entry.StartVerse,
					EndChapter:    entry.EndChapter,
					EndVerse:      entry.EndVerse,
				})
			}
		}
		doc.Items = append(doc.Items, di)
	}
	return doc
}

func exportSong(ri *resolve.ResolvedItem) *DocumentSong {
	if ri.SongMissing {
		return &DocumentSong{Title: ri.Title()}
	}
	ds := &DocumentSong{
		Title:        ri.Song.Title,
		Author:       ri.Song.Author,
		RepeatChorus: ri.Song.RepeatChorus,
	}
	for _, slide := range ri.Song.Slides {
		ds.Slides = append(ds.Slides, DocumentSongSlide{Kind: string(slide.Kind), Content: slide.Content})
	}
	return ds
}

func exportPassage(p item.BiblePassage) *DocumentPassage {
	dp := &DocumentPassage{
		TranslationID:     p.TranslationID,
		TranslationAbbrev: p.TranslationAbbrev,
		BookCode:          p.BookCode,
		BookName:          p.BookName,
		StartChapter:      p.StartChapter,
		StartVerse:        p.StartVerse,
		EndChapter:        p.EndChapter,
		EndVerse:          p.EndVerse,
	}
	for _, verse := range p.Verses {
		dp.Verses = append(dp.Verses, DocumentVerse{Reference: verse.Reference, Text: verse.Text})
	}
	return dp
}

// ParseJSON decodes and validates an interchange document. Any violation
// of the version-1 schema rejects the whole document.
func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrParse, "transcode", "json", "malformed document", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the version-1 required-field schema.
func (d *Document) Validate() error {
	if d.Type != DocumentType {
		return validationErr(fmt.Sprintf("unexpected document type %q", d.Type))
	}
	if d.Version != DocumentVersion {
		return validationErr(fmt.Sprintf("unsupported version %d", d.Version))
	}
	for i, di := range d.Items {
		if err := di.validate(); err != nil {
			return validationErr(fmt.Sprintf("item %d: %v", i, err))
		}
	}
	return nil
}

func (di *DocumentItem) validate() error {
	switch di.ItemType {
	case "song":
		if di.Song == nil || di.Song.Title == "" {
			return fmt.Errorf("song item requires a song with a title")
		}
	case "slide":
		switch di.SlideType {
		case string(item.SlideAnnouncement), string(item.SlideScene):
			if di.SlideContent == "" {
				return fmt.Errorf("%s slide requires slideContent", di.SlideType)
			}
		case multiEntrySlideType:
			if len(di.VerseteTineriEntries) == 0 {
				return fmt.Errorf("%s slide requires entries", multiEntrySlideType)
			}
			for _, entry := range di.VerseteTineriEntries {
				if entry.PersonName == "" || entry.Reference == "" {
					return fmt.Errorf("entry requires personName and reference")
				}
			}
		default:
			return fmt.Errorf("unknown slideType %q", di.SlideType)
		}
	case "bible_passage":
		p := di.BiblePassage
		if p == nil {
			return fmt.Errorf("bible_passage item requires biblePassage")
		}
		if p.BookName == "" || p.StartChapter < 1 || len(p.Verses) == 0 {
			return fmt.Errorf("biblePassage requires bookName, startChapter and verses")
		}
	default:
		return fmt.Errorf("unknown itemType %q", di.ItemType)
	}
	return nil
}

func validationErr(msg string) error {
	return services.Wrap(services.ErrValidation, "transcode", "json", msg, nil)
}

// ResolveDocumentSongs matches embedded songs against the local catalog by
// case-insensitive exact title, the same flow text import uses. The
// unresolved list carries the item index so the caller can create songs
// from the embedded snapshots and retry.
func ResolveDocumentSongs(ctx context.Context, catalog songs.Catalog, doc *Document) (map[int]*songs.Song, []int, error) {
	matched := make(map[int]*songs.Song)
	var unresolved []int
	for i, di := range doc.Items {
		if di.ItemType != "song" {
			continue
		}
		song, err := catalog.FindByTitle(ctx, di.Song.Title)
		if err != nil {
			return nil, nil, fmt.Errorf("matching title %q: %w", di.Song.Title, err)
		}
		if song == nil {
			unresolved = append(unresolved, i)
			continue
		}
		matched[i] = song
	}
	return matched, unresolved, nil
}

// SongFromDocument rebuilds a catalog song from an embedded snapshot, for
// creating songs the local catalog is missing during import.
func SongFromDocument(ds *DocumentSong) *songs.Song {
	song := &songs.Song{Title: ds.Title, Author: ds.Author, RepeatChorus: ds.RepeatChorus}
	for i, slide := range ds.Slides {
		song.Slides = append(song.Slides, songs.Slide{
			Kind:      songs.SlideKind(slide.Kind),
			Content:   slide.Content,
			SortOrder: i,
		})
	}
	return song
}

// DocumentPayloads turns a validated document into collection payloads
// using embedded snapshots, so no local Bible catalog is consulted. Song
// items must appear in matched or they are skipped with a reason keyed by
// item index.
func DocumentPayloads(doc *Document, matched map[int]*songs.Song) *BuildResult {
	result := &BuildResult{}
	for i, di := range doc.Items {
		payload, reason := documentItemPayload(di, matched[i])
		if reason != "" {
			result.Skipped = append(result.Skipped, Skip{LineNumber: i, Reason: reason})
			continue
		}
		result.Payloads = append(result.Payloads, payload)
		result.LineNumbers = append(result.LineNumbers, i)
	}
	return result
}

func documentItemPayload(di DocumentItem, matchedSong *songs.Song) (collection.Payload, string) {
	switch di.ItemType {
	case "song":
		if matchedSong == nil {
			return nil, fmt.Sprintf("no catalog match for song %q", di.Song.Title)
		}
		return collection.SongRefPayload{SongID: matchedSong.ID}, ""
	case "slide":
		switch di.SlideType {
		case string(item.SlideScene):
			return collection.SlidePayload{Kind: item.SlideScene, SceneName: di.SlideContent}, ""
		case string(item.SlideAnnouncement):
			return collection.SlidePayload{Kind: item.SlideAnnouncement, Content: di.SlideContent}, ""
		case multiEntrySlideType:
			slide := item.MultiEntrySlide{}
			for j, entry := range di.VerseteTineriEntries {
				slide.Entries = append(slide.Entries, item.Entry{
					PersonName:    entry.PersonName,
					TranslationID: entry.TranslationID,
					BookCode:      entry.BookCode,
					BookName:      entry.BookName,
					Reference:     entry.Reference,
					Text:          entry.Text,
					StartChapter:  entry.StartChapter,
					StartVerse:    entry.StartVerse,
					EndChapter:    entry.EndChapter,
					EndVerse:      entry.EndVerse,
					SortOrder:     j,
				})
			}
			return collection.SnapshotPayload{Content: slide}, ""
		}
	case "bible_passage":
		p := di.BiblePassage
		passage := item.BiblePassage{
			TranslationID:     p.TranslationID,
			TranslationAbbrev: p.TranslationAbbrev,
			BookCode:          p.BookCode,
			BookName:          p.BookName,
			StartChapter:      p.StartChapter,
			StartVerse:        p.StartVerse,
			EndChapter:        p.EndChapter,
			EndVerse:          p.EndVerse,
		}
		for j, verse := range p.Verses {
			passage.Verses = append(passage.Verses, item.VerseSnapshot{
				Reference: verse.Reference,
				Text:      verse.Text,
				SortOrder: j,
			})
		}
		return collection.SnapshotPayload{Content: passage}, ""
	}
	return nil, fmt.Sprintf("unsupported itemType %q", di.ItemType)
}
