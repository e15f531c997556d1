package transcode

import (
	"context"
	"fmt"

	"lectern/internal/bibleref"
	"lectern/internal/collection"
	"lectern/internal/item"
	"lectern/internal/songs"
)

// UnresolvedSong is a parsed song title with no catalog match. The caller
// decides whether to link it to an existing song, create one, or skip it,
// then re-runs resolution.
type UnresolvedSong struct {
	LineNumber int
	Title      string
}

// SongResolution maps parsed song lines to catalog songs.
type SongResolution struct {
	// Matched is keyed by source line number.
	Matched    map[int]*songs.Song
	Unresolved []UnresolvedSong
}

// ResolveSongs matches every song line against the catalog by
// case-insensitive exact title. Unmatched titles are reported, not failed.
func ResolveSongs(ctx context.Context, catalog songs.Catalog, lines []Line) (*SongResolution, error) {
	resolution := &SongResolution{Matched: make(map[int]*songs.Song)}
	for _, line := range lines {
		if line.Kind != LineSong {
			continue
		}
		song, err := catalog.FindByTitle(ctx, line.Content)
		if err != nil {
			return nil, fmt.Errorf("matching title %q: %w", line.Content, err)
		}
		if song == nil {
			resolution.Unresolved = append(resolution.Unresolved, UnresolvedSong{
				LineNumber: line.Number,
				Title:      line.Content,
			})
			continue
		}
		resolution.Matched[line.Number] = song
	}
	return resolution, nil
}

// Skip is one input line excluded from the built payloads, with the reason
// the caller shows to the user.
type Skip struct {
	LineNumber int
	Reason     string
}

// BuildResult pairs the payloads ready for replaceAll with the skip list.
// LineNumbers is parallel to Payloads and maps each payload back to its
// source line, so later skips (such as empty verse lookups) can be
// reported against the original text.
type BuildResult struct {
	Payloads    []collection.Payload
	LineNumbers []int
	Skipped     []Skip
}

// BuildPayloads turns parsed lines into collection payloads. Song lines use
// the resolution result; unresolved songs are skipped. Bible references are
// parsed here, and a reference failure skips only its own line.
func BuildPayloads(lines []Line, resolution *SongResolution, translationID, translationAbbrev string) *BuildResult {
	result := &BuildResult{}
	for _, line := range lines {
		payload, reason := buildLinePayload(line, resolution, translationID, translationAbbrev)
		if reason != "" {
			result.Skipped = append(result.Skipped, Skip{LineNumber: line.Number, Reason: reason})
			continue
		}
		result.Payloads = append(result.Payloads, payload)
		result.LineNumbers = append(result.LineNumbers, line.Number)
	}
	return result
}

func buildLinePayload(line Line, resolution *SongResolution, translationID, translationAbbrev string) (collection.Payload, string) {
	switch line.Kind {
	case LineSong:
		song, ok := resolution.Matched[line.Number]
		if !ok {
			return nil, fmt.Sprintf("no catalog match for song %q", line.Content)
		}
		return collection.SongRefPayload{SongID: song.ID}, ""
	case LineAnnouncement:
		return collection.SlidePayload{Kind: item.SlideAnnouncement, Content: line.Content}, ""
	case LineScene:
		return collection.SlidePayload{Kind: item.SlideScene, SceneName: line.Content}, ""
	case LinePassage:
		r, err := bibleref.Parse(line.Content)
		if err != nil {
			return nil, fmt.Sprintf("bad reference %q", line.Content)
		}
		return collection.BiblePassagePayload{
			TranslationID:     translationID,
			TranslationAbbrev: translationAbbrev,
			Range:             *r,
		}, ""
	case LineMultiEntry:
		pairs, err := multiEntrySplit(line.Content)
		if err != nil {
			return nil, err.Error()
		}
		payload := collection.MultiEntryPayload{}
		for _, pair := range pairs {
			r, err := bibleref.Parse(pair[1])
			if err != nil {
				return nil, fmt.Sprintf("bad reference %q for %s", pair[1], pair[0])
			}
			payload.Entries = append(payload.Entries, collection.EntryPayload{
				PersonName:    pair[0],
				TranslationID: translationID,
				Range:         *r,
			})
		}
		return payload, ""
	default:
		return nil, fmt.Sprintf("unsupported line kind %q", line.Kind)
	}
}
