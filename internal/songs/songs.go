package songs

import (
	"context"
	"time"
)

// SlideKind classifies an authored song slide.
type SlideKind string

const (
	SlideVerse  SlideKind = "verse"
	SlideChorus SlideKind = "chorus"
	SlideBridge SlideKind = "bridge"
	SlideTag    SlideKind = "tag"
)

// Slide is one authored slide of a song, in authored order.
type Slide struct {
	Kind      SlideKind
	Content   string
	SortOrder int
}

// Song is the catalog aggregate a SongRef item points at. Slides are
// authored content; RepeatChorus is the authored repeat pattern consumed by
// projection and exports.
type Song struct {
	ID           int64
	Title        string
	Author       string
	RepeatChorus bool
	Slides       []Slide
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Catalog is the contract the engine needs from the song catalog. GetSong
// returns (nil, nil) for a missing song so callers can flag missing content
// without treating it as an error.
type Catalog interface {
	GetSong(ctx context.Context, id int64) (*Song, error)
	// FindByTitle performs a case-insensitive exact-title match and returns
	// (nil, nil) when no song matches.
	FindByTitle(ctx context.Context, title string) (*Song, error)
	// Search returns songs whose titles contain the query, for resolving
	// unmatched import titles interactively.
	Search(ctx context.Context, query string) ([]*Song, error)
	CreateSong(ctx context.Context, song *Song) (*Song, error)
}
