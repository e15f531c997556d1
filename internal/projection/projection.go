package projection

import (
	"fmt"

	"lectern/internal/item"
	"lectern/internal/resolve"
	"lectern/internal/songs"
)

// Frame is one presentable screen of content. A frame is addressed two
// ways: by its flat index across the whole collection and by the pair of
// owning item id plus sub-index within that item.
type Frame struct {
	ItemID    int64
	SubIndex  int
	FlatIndex int

	// Display payload.
	Kind      string
	Title     string
	Body      string
	Reference string
	SceneName string
}

// Projection is the flattened frame list for one resolved collection,
// with constant-time lookup in both addressing directions.
type Projection struct {
	frames []Frame
	byItem map[int64]span
}

type span struct {
	start int
	count int
}

// ExpandSlides returns the slides of a song in presentation order. When the
// song repeats its chorus, the first authored chorus slide is added after
// every verse slide; authored slide positions are kept, so a verse already
// followed by the chorus is not doubled.
func ExpandSlides(song *songs.Song) []songs.Slide {
	var chorus *songs.Slide
	hasVerse := false
	for i := range song.Slides {
		if song.Slides[i].Kind == songs.SlideChorus && chorus == nil {
			chorus = &song.Slides[i]
		}
		if song.Slides[i].Kind == songs.SlideVerse {
			hasVerse = true
		}
	}
	if !song.RepeatChorus || chorus == nil || !hasVerse {
		return song.Slides
	}

	expanded := make([]songs.Slide, 0, len(song.Slides)*2)
	for i, slide := range song.Slides {
		expanded = append(expanded, slide)
		if slide.Kind != songs.SlideVerse {
			continue
		}
		if i+1 < len(song.Slides) && song.Slides[i+1].Kind == songs.SlideChorus {
			continue
		}
		expanded = append(expanded, *chorus)
	}
	return expanded
}

// Project flattens resolved items into frames. Every item contributes at
// least one frame: songs one per expanded slide, passages one per
// snapshotted verse, multi-entry slides one per stored entry, standalone
// slides exactly one.
func Project(items []*resolve.ResolvedItem) *Projection {
	p := &Projection{byItem: make(map[int64]span, len(items))}
	for _, ri := range items {
		start := len(p.frames)
		p.appendFrames(ri)
		p.byItem[ri.Item.ID] = span{start: start, count: len(p.frames) - start}
	}
	return p
}

func (p *Projection) appendFrames(ri *resolve.ResolvedItem) {
	itemID := ri.Item.ID
	switch content := ri.Item.Content.(type) {
	case item.SongRef:
		if ri.SongMissing {
			p.push(Frame{
				ItemID: itemID,
				Kind:   "song",
				Title:  ri.Title(),
				Body:   fmt.Sprintf("Song %d is no longer in the catalog.", content.SongID),
			})
			return
		}
		for _, slide := range ExpandSlides(ri.Song) {
			p.push(Frame{
				ItemID: itemID,
				Kind:   "song",
				Title:  ri.Song.Title,
				Body:   slide.Content,
			})
		}
	case item.Slide:
		frame := Frame{ItemID: itemID, Kind: string(content.Kind), Title: ri.Title()}
		if content.Kind == item.SlideScene {
			frame.SceneName = content.SceneName
		} else {
			frame.Body = content.Content
		}
		p.push(frame)
	case item.BiblePassage:
		for _, verse := range content.Verses {
			p.push(Frame{
				ItemID:    itemID,
				Kind:      "bible_passage",
				Title:     content.Reference(),
				Body:      verse.Text,
				Reference: verse.Reference,
			})
		}
	case item.MultiEntrySlide:
		for _, entry := range content.Entries {
			p.push(Frame{
				ItemID:    itemID,
				Kind:      "multi_entry",
				Title:     entry.PersonName,
				Body:      entry.Text,
				Reference: entry.Reference,
			})
		}
	}
}

func (p *Projection) push(f Frame) {
	f.FlatIndex = len(p.frames)
	// SubIndex counts frames within the owning item.
	for i := len(p.frames) - 1; i >= 0; i-- {
		if p.frames[i].ItemID != f.ItemID {
			break
		}
		f.SubIndex++
	}
	p.frames = append(p.frames, f)
}

// Len returns the total number of frames.
func (p *Projection) Len() int { return len(p.frames) }

// Frame returns the frame at the given flat index.
func (p *Projection) Frame(flatIndex int) (Frame, bool) {
	if flatIndex < 0 || flatIndex >= len(p.frames) {
		return Frame{}, false
	}
	return p.frames[flatIndex], true
}

// Frames returns all frames in order.
func (p *Projection) Frames() []Frame { return p.frames }

// Locate maps an item id and sub-index back to a flat index.
func (p *Projection) Locate(itemID int64, subIndex int) (int, bool) {
	sp, ok := p.byItem[itemID]
	if !ok || subIndex < 0 || subIndex >= sp.count {
		return 0, false
	}
	return sp.start + subIndex, true
}

// Span returns the flat range covered by one item's frames.
func (p *Projection) Span(itemID int64) (start, count int, ok bool) {
	sp, found := p.byItem[itemID]
	if !found {
		return 0, 0, false
	}
	return sp.start, sp.count, true
}
