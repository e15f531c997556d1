package transcode_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"lectern/internal/collection"
	"lectern/internal/item"
	"lectern/internal/services"
	"lectern/internal/songs"
	"lectern/internal/testsupport"
	"lectern/internal/transcode"
)

func TestExportJSONEmbedsSnapshots(t *testing.T) {
	items := allKindsResolved()
	items[0].Song.RepeatChorus = true
	items[0].Song.Slides = []songs.Slide{
		{Kind: songs.SlideVerse, Content: "v1"},
		{Kind: songs.SlideChorus, Content: "c"},
	}
	items[2].Item.Content = item.BiblePassage{
		BookCode: "John", BookName: "John",
		StartChapter: 3, StartVerse: 16, EndChapter: 3, EndVerse: 17,
		Verses: []item.VerseSnapshot{
			{Reference: "John 3:16", Text: "For God so loved the world"},
			{Reference: "John 3:17", Text: "For God sent not his Son"},
		},
	}

	doc := transcode.ExportJSON(transcode.ScheduleHeader{Title: "Sunday AM"}, items)
	if doc.Version != 1 || doc.Type != "churchprogram" {
		t.Fatalf("unexpected envelope: %+v", doc)
	}
	if len(doc.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(doc.Items))
	}
	if doc.Items[0].Song == nil || len(doc.Items[0].Song.Slides) != 2 {
		t.Fatalf("song snapshot not embedded: %+v", doc.Items[0])
	}
	if doc.Items[2].BiblePassage == nil || len(doc.Items[2].BiblePassage.Verses) != 2 {
		t.Fatalf("verse snapshot not embedded: %+v", doc.Items[2])
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("exported document must validate: %v", err)
	}

	// The legacy entries field name is part of the format.
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(raw), `"verseteTineriEntries"`) {
		t.Fatalf("expected verseteTineriEntries field in %s", raw)
	}
}

func TestParseJSONRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"wrong type":     `{"version":1,"type":"setlist","schedule":{"title":"x"},"items":[]}`,
		"wrong version":  `{"version":2,"type":"churchprogram","schedule":{"title":"x"},"items":[]}`,
		"song no title":  `{"version":1,"type":"churchprogram","schedule":{"title":"x"},"items":[{"itemType":"song","song":{}}]}`,
		"empty slide":    `{"version":1,"type":"churchprogram","schedule":{"title":"x"},"items":[{"itemType":"slide","slideType":"announcement"}]}`,
		"bad item type":  `{"version":1,"type":"churchprogram","schedule":{"title":"x"},"items":[{"itemType":"video"}]}`,
		"passage barren": `{"version":1,"type":"churchprogram","schedule":{"title":"x"},"items":[{"itemType":"bible_passage","biblePassage":{"bookName":"John","startChapter":3,"verses":[]}}]}`,
	}
	for name, raw := range cases {
		if _, err := transcode.ParseJSON([]byte(raw)); !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	if _, err := transcode.ParseJSON([]byte("{not json")); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse for malformed JSON, got %v", err)
	}
}

func TestDocumentImportFlow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	raw := `{
		"version": 1,
		"type": "churchprogram",
		"schedule": {"title": "Guest program"},
		"items": [
			{"itemType": "song", "sortOrder": 0, "song": {"title": "Traveling Hymn", "repeatChorus": true, "slides": [{"kind": "verse", "content": "v1"}, {"kind": "chorus", "content": "c"}]}},
			{"itemType": "bible_passage", "sortOrder": 1, "biblePassage": {"bookCode": "John", "bookName": "John", "startChapter": 3, "startVerse": 16, "endChapter": 3, "endVerse": 16, "verses": [{"reference": "John 3:16", "text": "For God so loved the world"}]}},
			{"itemType": "slide", "sortOrder": 2, "slideType": "verseteTineri", "verseteTineriEntries": [{"personName": "Ana", "reference": "Psalm 23", "text": "The Lord is my shepherd"}]}
		]
	}`

	doc, err := transcode.ParseJSON([]byte(raw))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	matched, unresolved, err := transcode.ResolveDocumentSongs(ctx, st, doc)
	if err != nil {
		t.Fatalf("ResolveDocumentSongs failed: %v", err)
	}
	if len(matched) != 0 || len(unresolved) != 1 || unresolved[0] != 0 {
		t.Fatalf("expected item 0 unresolved, got matched=%v unresolved=%v", matched, unresolved)
	}

	// Create the missing song from its embedded snapshot and retry.
	created, err := st.CreateSong(ctx, transcode.SongFromDocument(doc.Items[0].Song))
	if err != nil {
		t.Fatalf("CreateSong failed: %v", err)
	}
	matched, unresolved, err = transcode.ResolveDocumentSongs(ctx, st, doc)
	if err != nil {
		t.Fatalf("ResolveDocumentSongs retry failed: %v", err)
	}
	if len(unresolved) != 0 || matched[0].ID != created.ID {
		t.Fatalf("retry should resolve the created song: matched=%v unresolved=%v", matched, unresolved)
	}

	built := transcode.DocumentPayloads(doc, matched)
	if len(built.Skipped) != 0 || len(built.Payloads) != 3 {
		t.Fatalf("unexpected build result: %+v", built)
	}

	// The passage travels as a snapshot; no local Bible catalog needed.
	svc := collection.NewService(st, nil, nil)
	queue, err := st.QueueCollection(ctx)
	if err != nil {
		t.Fatalf("QueueCollection failed: %v", err)
	}
	result, err := svc.ReplaceAll(ctx, queue.ID, built.Payloads)
	if err != nil || !result.Success {
		t.Fatalf("ReplaceAll failed: %+v err=%v", result, err)
	}

	stored, err := svc.Items(ctx, queue.ID)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	passage, ok := stored[1].Content.(item.BiblePassage)
	if !ok || len(passage.Verses) != 1 || passage.Verses[0].Text != "For God so loved the world" {
		t.Fatalf("embedded snapshot not stored verbatim: %+v", stored[1].Content)
	}
}
