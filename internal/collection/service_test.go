package collection_test

import (
	"context"
	"errors"
	"testing"

	"lectern/internal/bibleref"
	"lectern/internal/collection"
	"lectern/internal/item"
	"lectern/internal/services"
	"lectern/internal/songs"
	"lectern/internal/store"
	"lectern/internal/testsupport"
)

func newService(t *testing.T) (*collection.Service, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return collection.NewService(st, nil, nil), st
}

func queueID(t *testing.T, st *store.Store) int64 {
	t.Helper()
	queue, err := st.QueueCollection(context.Background())
	if err != nil {
		t.Fatalf("QueueCollection failed: %v", err)
	}
	return queue.ID
}

func TestInsertSnapshotsPassage(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	testsupport.SeedJohn3(t, st)
	queue := queueID(t, st)

	inserted, err := svc.Append(ctx, queue, collection.BiblePassagePayload{
		TranslationID:     "kjv",
		TranslationAbbrev: "KJV",
		Range:             testsupport.MustRange(t, "John 3:16-17"),
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	passage, ok := inserted.Content.(item.BiblePassage)
	if !ok {
		t.Fatalf("expected passage content, got %T", inserted.Content)
	}
	if len(passage.Verses) != 2 {
		t.Fatalf("expected 2 snapshotted verses, got %d", len(passage.Verses))
	}
	if passage.Verses[0].Reference != "John 3:16" {
		t.Fatalf("unexpected verse reference %q", passage.Verses[0].Reference)
	}
	if passage.Verses[1].SortOrder != 1 {
		t.Fatalf("snapshot order lost: %+v", passage.Verses)
	}
}

func TestInsertEmptyRangeRejected(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	testsupport.SeedJohn3(t, st)
	queue := queueID(t, st)

	_, err := svc.Append(ctx, queue, collection.BiblePassagePayload{
		TranslationID:     "kjv",
		TranslationAbbrev: "KJV",
		Range:             testsupport.MustRange(t, "Genesis 1:1"),
	})
	if !errors.Is(err, services.ErrEmptyLookup) {
		t.Fatalf("expected ErrEmptyLookup, got %v", err)
	}

	items, err := svc.Items(ctx, queue)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("failed insert must not store an item, got %d", len(items))
	}
}

func TestInsertAfterAnchor(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	queue := queueID(t, st)

	first, err := svc.Append(ctx, queue, collection.SlidePayload{Kind: item.SlideAnnouncement, Content: "Welcome"})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := svc.Append(ctx, queue, collection.SlidePayload{Kind: item.SlideAnnouncement, Content: "Closing"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	middle, err := svc.InsertAfter(ctx, queue, &first.ID, collection.SlidePayload{Kind: item.SlideScene, SceneName: "Camera 2"})
	if err != nil {
		t.Fatalf("InsertAfter failed: %v", err)
	}

	items, err := svc.Items(ctx, queue)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 3 || items[1].ID != middle.ID {
		t.Fatalf("expected inserted item in the middle, got %+v", items)
	}
}

func TestUpdateRebuildsSnapshot(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	testsupport.SeedJohn3(t, st)
	queue := queueID(t, st)

	inserted, err := svc.Append(ctx, queue, collection.BiblePassagePayload{
		TranslationID:     "kjv",
		TranslationAbbrev: "KJV",
		Range:             testsupport.MustRange(t, "John 3:16"),
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	updated, err := svc.Update(ctx, inserted.ID, collection.BiblePassagePayload{
		TranslationID:     "kjv",
		TranslationAbbrev: "KJV",
		Range:             testsupport.MustRange(t, "John 3:16-18"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	passage := updated.Content.(item.BiblePassage)
	if len(passage.Verses) != 3 {
		t.Fatalf("expected rebuilt snapshot with 3 verses, got %d", len(passage.Verses))
	}
	if updated.Position != inserted.Position {
		t.Fatalf("update must keep position, got %d vs %d", updated.Position, inserted.Position)
	}
}

func TestMultiEntrySnapshot(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	testsupport.SeedJohn3(t, st)
	queue := queueID(t, st)

	inserted, err := svc.Append(ctx, queue, collection.MultiEntryPayload{
		Entries: []collection.EntryPayload{
			{PersonName: "Ana", TranslationID: "kjv", Range: testsupport.MustRange(t, "John 3:16")},
			{PersonName: "Mihai", TranslationID: "kjv", Range: testsupport.MustRange(t, "John 3:17-18")},
		},
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	slide := inserted.Content.(item.MultiEntrySlide)
	if len(slide.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(slide.Entries))
	}
	if slide.Entries[1].PersonName != "Mihai" || slide.Entries[1].Reference != "John 3:17-18" {
		t.Fatalf("unexpected entry: %+v", slide.Entries[1])
	}
	if slide.Entries[1].Text == "" {
		t.Fatalf("entry text must be snapshotted")
	}

	// One empty entry fails the whole slide.
	_, err = svc.Append(ctx, queue, collection.MultiEntryPayload{
		Entries: []collection.EntryPayload{
			{PersonName: "Ana", TranslationID: "kjv", Range: testsupport.MustRange(t, "John 3:16")},
			{PersonName: "Mihai", TranslationID: "kjv", Range: testsupport.MustRange(t, "Genesis 1:1")},
		},
	})
	if !errors.Is(err, services.ErrEmptyLookup) {
		t.Fatalf("expected ErrEmptyLookup, got %v", err)
	}
}

func TestReplaceAllSkipsEmptyLookups(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	testsupport.SeedJohn3(t, st)
	queue := queueID(t, st)

	song := testsupport.NewSong(t, st, "Be Thou My Vision", false,
		songs.Slide{Kind: songs.SlideVerse, Content: "Be thou my vision"})

	if _, err := svc.Append(ctx, queue, collection.SlidePayload{Kind: item.SlideAnnouncement, Content: "old"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	result, err := svc.ReplaceAll(ctx, queue, []collection.Payload{
		collection.SongRefPayload{SongID: song.ID},
		collection.BiblePassagePayload{TranslationID: "kjv", TranslationAbbrev: "KJV", Range: testsupport.MustRange(t, "Genesis 1:1")},
		collection.BiblePassagePayload{TranslationID: "kjv", TranslationAbbrev: "KJV", Range: testsupport.MustRange(t, "John 3:16")},
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success with partial skips: %+v", result)
	}
	if len(result.Inserted) != 2 {
		t.Fatalf("expected 2 inserted, got %d", len(result.Inserted))
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Index != 1 {
		t.Fatalf("expected input index 1 skipped, got %+v", result.Skipped)
	}

	items, err := svc.Items(ctx, queue)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("old items must be gone, got %d", len(items))
	}
	if _, ok := items[0].Content.(item.SongRef); !ok {
		t.Fatalf("expected song ref first, got %T", items[0].Content)
	}
}

func TestReplaceAllEverythingSkipped(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	testsupport.SeedJohn3(t, st)
	queue := queueID(t, st)

	result, err := svc.ReplaceAll(ctx, queue, []collection.Payload{
		collection.BiblePassagePayload{TranslationID: "kjv", TranslationAbbrev: "KJV", Range: testsupport.MustRange(t, "Genesis 1:1")},
	})
	if err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	if result.Success || len(result.Inserted) != 0 || len(result.Skipped) != 1 {
		t.Fatalf("expected total skip without success: %+v", result)
	}
}

type failingVerses struct{}

func (failingVerses) VersesInRange(context.Context, string, bibleref.Range) ([]store.Verse, error) {
	return nil, errors.New("disk gone")
}

func TestReplaceAllAbortsOnLookupError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := collection.NewService(st, failingVerses{}, nil)
	ctx := context.Background()
	queue := queueID(t, st)

	if _, err := svc.Append(ctx, queue, collection.SlidePayload{Kind: item.SlideAnnouncement, Content: "keep me"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	_, err := svc.ReplaceAll(ctx, queue, []collection.Payload{
		collection.BiblePassagePayload{TranslationID: "kjv", TranslationAbbrev: "KJV", Range: testsupport.MustRange(t, "John 3:16")},
	})
	if err == nil {
		t.Fatalf("expected lookup failure to abort")
	}

	items, err := svc.Items(ctx, queue)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("aborted replace must leave collection untouched, got %d items", len(items))
	}
}
