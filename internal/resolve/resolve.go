package resolve

import (
	"context"
	"fmt"

	"lectern/internal/item"
	"lectern/internal/songs"
)

// ResolvedItem pairs a stored item with whatever live content it needs.
// Song references resolve against the catalog at read time; when the song
// has been deleted since the reference was inserted the item survives with
// SongMissing set rather than failing the whole collection read.
type ResolvedItem struct {
	Item        *item.Item
	Song        *songs.Song
	SongMissing bool
}

// Title returns the display title for the resolved item.
func (r *ResolvedItem) Title() string {
	switch content := r.Item.Content.(type) {
	case item.SongRef:
		if r.SongMissing {
			return fmt.Sprintf("(missing song #%d)", content.SongID)
		}
		return r.Song.Title
	case item.Slide:
		if content.Kind == item.SlideScene {
			return content.SceneName
		}
		return firstLine(content.Content)
	case item.BiblePassage:
		return content.Reference()
	case item.MultiEntrySlide:
		return content.Title()
	default:
		return ""
	}
}

// Resolver materializes live content for stored items.
type Resolver struct {
	catalog songs.Catalog
}

// NewResolver builds a Resolver over the given song catalog.
func NewResolver(catalog songs.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve materializes one item. Snapshot variants pass through untouched;
// a song reference is looked up fresh so catalog edits show immediately.
func (r *Resolver) Resolve(ctx context.Context, it *item.Item) (*ResolvedItem, error) {
	resolved := &ResolvedItem{Item: it}
	ref, ok := it.Content.(item.SongRef)
	if !ok {
		return resolved, nil
	}

	song, err := r.catalog.GetSong(ctx, ref.SongID)
	if err != nil {
		return nil, fmt.Errorf("resolving song %d: %w", ref.SongID, err)
	}
	if song == nil {
		resolved.SongMissing = true
		return resolved, nil
	}
	resolved.Song = song
	return resolved, nil
}

// ResolveAll materializes a whole collection in order. Missing songs do not
// fail the read; only catalog errors do.
func (r *Resolver) ResolveAll(ctx context.Context, items []*item.Item) ([]*ResolvedItem, error) {
	resolved := make([]*ResolvedItem, 0, len(items))
	for _, it := range items {
		ri, err := r.Resolve(ctx, it)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ri)
	}
	return resolved, nil
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
