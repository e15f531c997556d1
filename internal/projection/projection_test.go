package projection_test

import (
	"testing"

	"lectern/internal/item"
	"lectern/internal/projection"
	"lectern/internal/resolve"
	"lectern/internal/songs"
)

func song(repeatChorus bool, slides ...songs.Slide) *songs.Song {
	return &songs.Song{ID: 1, Title: "Test Song", RepeatChorus: repeatChorus, Slides: slides}
}

func TestExpandSlidesRepeatsChorus(t *testing.T) {
	s := song(true,
		songs.Slide{Kind: songs.SlideVerse, Content: "v1"},
		songs.Slide{Kind: songs.SlideChorus, Content: "c"},
		songs.Slide{Kind: songs.SlideVerse, Content: "v2"},
		songs.Slide{Kind: songs.SlideBridge, Content: "b"},
		songs.Slide{Kind: songs.SlideVerse, Content: "v3"},
	)

	var got []string
	for _, slide := range projection.ExpandSlides(s) {
		got = append(got, slide.Content)
	}
	want := []string{"v1", "c", "v2", "c", "b", "v3", "c"}
	if len(got) != len(want) {
		t.Fatalf("expanded to %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expanded to %v, want %v", got, want)
		}
	}
}

func TestExpandSlidesPassthrough(t *testing.T) {
	s := song(false,
		songs.Slide{Kind: songs.SlideVerse, Content: "v1"},
		songs.Slide{Kind: songs.SlideChorus, Content: "c"},
	)
	if got := projection.ExpandSlides(s); len(got) != 2 {
		t.Fatalf("repeat disabled must not expand, got %d slides", len(got))
	}

	chorusOnly := song(true, songs.Slide{Kind: songs.SlideChorus, Content: "c"})
	if got := projection.ExpandSlides(chorusOnly); len(got) != 1 {
		t.Fatalf("chorus-only song must pass through, got %d slides", len(got))
	}
}

func TestProjectFlattens(t *testing.T) {
	items := []*resolve.ResolvedItem{
		{
			Item: &item.Item{ID: 10, Content: item.SongRef{SongID: 1}},
			Song: song(false,
				songs.Slide{Kind: songs.SlideVerse, Content: "v1"},
				songs.Slide{Kind: songs.SlideChorus, Content: "c"},
				songs.Slide{Kind: songs.SlideVerse, Content: "v2"},
			),
		},
		{
			Item: &item.Item{ID: 11, Content: item.BiblePassage{
				BookName: "John", StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 17,
				Verses: []item.VerseSnapshot{
					{Reference: "John 3:16", Text: "For God so loved the world"},
					{Reference: "John 3:17", Text: "For God sent not his Son"},
				},
			}},
		},
		{
			Item: &item.Item{ID: 12, Content: item.Slide{Kind: item.SlideAnnouncement, Content: "Potluck Sunday"}},
		},
	}

	p := projection.Project(items)
	if p.Len() != 6 {
		t.Fatalf("expected 6 frames, got %d", p.Len())
	}

	frame, ok := p.Frame(3)
	if !ok {
		t.Fatalf("frame 3 missing")
	}
	if frame.ItemID != 11 || frame.SubIndex != 0 || frame.Reference != "John 3:16" {
		t.Fatalf("unexpected frame 3: %+v", frame)
	}

	flat, ok := p.Locate(11, 1)
	if !ok || flat != 4 {
		t.Fatalf("Locate(11,1) = %d,%v, want 4", flat, ok)
	}
	if _, ok := p.Locate(11, 2); ok {
		t.Fatalf("Locate past the item's span must fail")
	}

	start, count, ok := p.Span(10)
	if !ok || start != 0 || count != 3 {
		t.Fatalf("Span(10) = %d,%d,%v", start, count, ok)
	}

	last, _ := p.Frame(5)
	if last.Kind != "announcement" || last.Body != "Potluck Sunday" {
		t.Fatalf("unexpected last frame: %+v", last)
	}
}

func TestProjectMissingSongGetsOneFrame(t *testing.T) {
	p := projection.Project([]*resolve.ResolvedItem{
		{Item: &item.Item{ID: 7, Content: item.SongRef{SongID: 99}}, SongMissing: true},
	})
	if p.Len() != 1 {
		t.Fatalf("expected one placeholder frame, got %d", p.Len())
	}
	frame, _ := p.Frame(0)
	if frame.Kind != "song" || frame.Body == "" {
		t.Fatalf("unexpected placeholder: %+v", frame)
	}
}

func TestProjectMultiEntryFramePerEntry(t *testing.T) {
	p := projection.Project([]*resolve.ResolvedItem{
		{Item: &item.Item{ID: 3, Content: item.MultiEntrySlide{Entries: []item.Entry{
			{PersonName: "Ana", Reference: "John 3:16", Text: "For God so loved"},
			{PersonName: "Mihai", Reference: "Psalm 23", Text: "The Lord is my shepherd"},
		}}}},
	})
	if p.Len() != 2 {
		t.Fatalf("multi-entry must project one frame per entry, got %d", p.Len())
	}

	first, _ := p.Frame(0)
	if first.Title != "Ana" || first.Reference != "John 3:16" || first.SubIndex != 0 {
		t.Fatalf("unexpected first frame: %+v", first)
	}
	second, _ := p.Frame(1)
	if second.Title != "Mihai" || second.Body != "The Lord is my shepherd" || second.SubIndex != 1 {
		t.Fatalf("unexpected second frame: %+v", second)
	}

	flat, ok := p.Locate(3, 1)
	if !ok || flat != 1 {
		t.Fatalf("Locate(3,1) = %d,%v, want 1", flat, ok)
	}
	if start, count, ok := p.Span(3); !ok || start != 0 || count != 2 {
		t.Fatalf("Span(3) = %d,%d,%v", start, count, ok)
	}
}
