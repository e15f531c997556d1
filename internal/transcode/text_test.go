package transcode_test

import (
	"context"
	"strings"
	"testing"

	"lectern/internal/item"
	"lectern/internal/resolve"
	"lectern/internal/songs"
	"lectern/internal/testsupport"
	"lectern/internal/transcode"
)

func allKindsResolved() []*resolve.ResolvedItem {
	return []*resolve.ResolvedItem{
		{
			Item: &item.Item{ID: 1, Content: item.SongRef{SongID: 1}},
			Song: &songs.Song{ID: 1, Title: "Amazing Grace"},
		},
		{
			Item: &item.Item{ID: 2, Content: item.Slide{Kind: item.SlideAnnouncement, Content: "<p>Potluck <b>Sunday</b></p>"}},
		},
		{
			Item: &item.Item{ID: 3, Content: item.BiblePassage{
				BookName: "John", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 18,
			}},
		},
		{
			Item: &item.Item{ID: 4, Content: item.MultiEntrySlide{Entries: []item.Entry{
				{PersonName: "Ana", Reference: "John 3:16"},
				{PersonName: "Mihai", Reference: "Psalm 23"},
			}}},
		},
		{
			Item: &item.Item{ID: 5, Content: item.Slide{Kind: item.SlideScene, SceneName: "Camera 2"}},
		},
	}
}

func TestExportTextAllKinds(t *testing.T) {
	got := transcode.ExportText(allKindsResolved())
	want := strings.Join([]string{
		"Amazing Grace [S]",
		"Potluck Sunday [A]",
		"John 3:16-18 [V]",
		"Ana - John 3:16, Mihai - Psalm 23 [VT]",
		"Camera 2 [SC]",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("export mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	exported := transcode.ExportText(allKindsResolved())
	result := transcode.ParseText(exported)
	if len(result.Errors) != 0 {
		t.Fatalf("round-trip must parse cleanly, got %+v", result.Errors)
	}

	wantKinds := []transcode.LineKind{
		transcode.LineSong,
		transcode.LineAnnouncement,
		transcode.LinePassage,
		transcode.LineMultiEntry,
		transcode.LineScene,
	}
	wantContent := []string{
		"Amazing Grace",
		"Potluck Sunday",
		"John 3:16-18",
		"Ana - John 3:16, Mihai - Psalm 23",
		"Camera 2",
	}
	if len(result.Lines) != len(wantKinds) {
		t.Fatalf("expected %d lines, got %d", len(wantKinds), len(result.Lines))
	}
	for i, line := range result.Lines {
		if line.Kind != wantKinds[i] || line.Content != wantContent[i] {
			t.Fatalf("line %d = %+v, want %v %q", i, line, wantKinds[i], wantContent[i])
		}
	}
}

func TestParseTextCollectsErrors(t *testing.T) {
	input := strings.Join([]string{
		"# Sunday morning",
		"",
		"Amazing Grace [s]",
		"How Great Thou Art [c]",
		"no suffix here",
		"John 3:16 [X]",
		"[V]",
		"Psalm 23 [V]",
	}, "\n")

	result := transcode.ParseText(input)
	if len(result.Lines) != 3 {
		t.Fatalf("expected 3 parsed lines, got %+v", result.Lines)
	}
	if result.Lines[0].Kind != transcode.LineSong || result.Lines[1].Kind != transcode.LineSong {
		t.Fatalf("lowercase and C-alias suffixes must parse as songs: %+v", result.Lines)
	}
	if result.Lines[2].Content != "Psalm 23" {
		t.Fatalf("parsing must continue past bad lines, got %+v", result.Lines[2])
	}

	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 line errors, got %+v", result.Errors)
	}
	if result.Errors[0].Number != 5 || result.Errors[1].Number != 6 || result.Errors[2].Number != 7 {
		t.Fatalf("line numbers must point at the source: %+v", result.Errors)
	}
}

func TestStripHTML(t *testing.T) {
	got := transcode.StripHTML("<p>Choir practice<br/>7pm &amp; 8pm</p>")
	if got != "Choir practice 7pm & 8pm" {
		t.Fatalf("unexpected strip result %q", got)
	}
}

func TestResolveSongsAndBuildPayloads(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	known := testsupport.NewSong(t, st, "Amazing Grace", true,
		songs.Slide{Kind: songs.SlideVerse, Content: "v1"})

	result := transcode.ParseText(strings.Join([]string{
		"Amazing Grace [S]",
		"Unknown Hymn [S]",
		"John 3:16 [V]",
		"Not A Book 9:9 [V]",
		"Ana - John 3:16 [VT]",
		"broken entry [VT]",
	}, "\n"))

	resolution, err := transcode.ResolveSongs(ctx, st, result.Lines)
	if err != nil {
		t.Fatalf("ResolveSongs failed: %v", err)
	}
	if len(resolution.Unresolved) != 1 || resolution.Unresolved[0].Title != "Unknown Hymn" {
		t.Fatalf("unexpected unresolved list: %+v", resolution.Unresolved)
	}
	if resolution.Matched[1] == nil || resolution.Matched[1].ID != known.ID {
		t.Fatalf("expected line 1 matched to catalog song: %+v", resolution.Matched)
	}

	built := transcode.BuildPayloads(result.Lines, resolution, "kjv", "KJV")
	if len(built.Payloads) != 3 {
		t.Fatalf("expected 3 payloads, got %d", len(built.Payloads))
	}
	if len(built.Skipped) != 3 {
		t.Fatalf("expected 3 skips, got %+v", built.Skipped)
	}
	if built.Skipped[0].LineNumber != 2 {
		t.Fatalf("unresolved song must be skipped with its line number: %+v", built.Skipped)
	}
	if built.LineNumbers[2] != 5 {
		t.Fatalf("payloads must map back to source lines: %+v", built.LineNumbers)
	}
}
