package resolve_test

import (
	"context"
	"testing"

	"lectern/internal/collection"
	"lectern/internal/item"
	"lectern/internal/resolve"
	"lectern/internal/songs"
	"lectern/internal/testsupport"
)

func TestResolveSongRef(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	song := testsupport.NewSong(t, st, "How Great Thou Art", true,
		songs.Slide{Kind: songs.SlideVerse, Content: "O Lord my God"})

	resolver := resolve.NewResolver(st)
	resolved, err := resolver.Resolve(ctx, &item.Item{Content: item.SongRef{SongID: song.ID}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.SongMissing || resolved.Song == nil {
		t.Fatalf("expected live song, got %+v", resolved)
	}
	if resolved.Title() != "How Great Thou Art" {
		t.Fatalf("unexpected title %q", resolved.Title())
	}
}

func TestResolveDeletedSongDegrades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	song := testsupport.NewSong(t, st, "Doomed", false,
		songs.Slide{Kind: songs.SlideVerse, Content: "gone soon"})

	svc := collection.NewService(st, nil, nil)
	queue, err := st.QueueCollection(ctx)
	if err != nil {
		t.Fatalf("QueueCollection failed: %v", err)
	}
	if _, err := svc.Append(ctx, queue.ID, collection.SongRefPayload{SongID: song.ID}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, err := st.DeleteSong(ctx, song.ID); err != nil {
		t.Fatalf("DeleteSong failed: %v", err)
	}

	items, err := svc.Items(ctx, queue.ID)
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}

	resolver := resolve.NewResolver(st)
	resolved, err := resolver.ResolveAll(ctx, items)
	if err != nil {
		t.Fatalf("ResolveAll must not fail on a deleted song: %v", err)
	}
	if len(resolved) != 1 || !resolved[0].SongMissing {
		t.Fatalf("expected missing-song marker, got %+v", resolved)
	}
}

func TestResolvePassthroughTitles(t *testing.T) {
	resolver := resolve.NewResolver(nil)
	ctx := context.Background()

	passage, err := resolver.Resolve(ctx, &item.Item{Content: item.BiblePassage{
		BookName:     "John",
		StartChapter: 3,
		StartVerse:   16,
		EndChapter:   3,
		EndVerse:     18,
	}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if passage.Title() != "John 3:16-18" {
		t.Fatalf("unexpected passage title %q", passage.Title())
	}

	scene, err := resolver.Resolve(ctx, &item.Item{Content: item.Slide{Kind: item.SlideScene, SceneName: "Camera 2"}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if scene.Title() != "Camera 2" {
		t.Fatalf("unexpected scene title %q", scene.Title())
	}

	multi, err := resolver.Resolve(ctx, &item.Item{Content: item.MultiEntrySlide{
		Entries: []item.Entry{{PersonName: "Ana"}, {PersonName: "Mihai"}},
	}})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if multi.Title() != "Ana, Mihai" {
		t.Fatalf("unexpected multi-entry title %q", multi.Title())
	}
}
