package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"lectern/internal/bibleref"
	"lectern/internal/item"
	"lectern/internal/services"
	"lectern/internal/store"
)

// VerseSource supplies verse rows for snapshot materialization. The Store
// implements it; tests substitute fakes to force empty lookups.
type VerseSource interface {
	VersesInRange(ctx context.Context, translationID string, r bibleref.Range) ([]store.Verse, error)
}

// Service implements the ordered-collection operations on top of the Store.
// Each structural operation is one atomic transaction in the store layer;
// the service's job is validating payloads and freezing verse snapshots
// before anything is written.
type Service struct {
	store  *store.Store
	verses VerseSource
	logger *slog.Logger
}

// NewService builds a Service. A nil verse source defaults to the store
// itself; a nil logger discards output.
func NewService(st *store.Store, verses VerseSource, logger *slog.Logger) *Service {
	if verses == nil {
		verses = st
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: st, verses: verses, logger: logger.With("component", "collection")}
}

// Items returns the collection's items ordered by position ascending.
func (s *Service) Items(ctx context.Context, collectionID int64) ([]*item.Item, error) {
	return s.store.ItemsByCollection(ctx, collectionID)
}

// InsertAfter inserts a payload after the anchor item, or appends when the
// anchor is nil. A passage or multi-entry payload whose lookup yields zero
// verses fails with ErrEmptyLookup and nothing is inserted.
func (s *Service) InsertAfter(ctx context.Context, collectionID int64, anchorItemID *int64, payload Payload) (*item.Item, error) {
	content, err := s.buildContent(ctx, payload)
	if err != nil {
		return nil, err
	}
	inserted, err := s.store.InsertItem(ctx, collectionID, anchorItemID, content)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("item inserted",
		"collection_id", collectionID,
		"item_id", inserted.ID,
		"variant", string(inserted.Content.Variant()),
		"position", inserted.Position)
	return inserted, nil
}

// Append inserts a payload at the end of the collection.
func (s *Service) Append(ctx context.Context, collectionID int64, payload Payload) (*item.Item, error) {
	return s.InsertAfter(ctx, collectionID, nil, payload)
}

// Remove deletes an item and its snapshot sub-rows. Remaining positions are
// not compacted.
func (s *Service) Remove(ctx context.Context, collectionID, itemID int64) error {
	if err := s.store.RemoveItem(ctx, collectionID, itemID); err != nil {
		return err
	}
	s.logger.Debug("item removed", "collection_id", collectionID, "item_id", itemID)
	return nil
}

// Reorder rewrites the collection order to match the given complete
// permutation of its item ids.
func (s *Service) Reorder(ctx context.Context, collectionID int64, orderedIDs []int64) error {
	if err := s.store.ReorderItems(ctx, collectionID, orderedIDs); err != nil {
		return err
	}
	s.logger.Debug("collection reordered", "collection_id", collectionID, "items", len(orderedIDs))
	return nil
}

// Update replaces an item's content in place, re-materializing snapshots
// for passage and multi-entry payloads.
func (s *Service) Update(ctx context.Context, itemID int64, payload Payload) (*item.Item, error) {
	content, err := s.buildContent(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateItemContent(ctx, itemID, content)
}

// SkippedItem reports one payload that was not inserted during ReplaceAll,
// addressed by its index in the input slice so the caller can map it back
// to source context such as a line number.
type SkippedItem struct {
	Index  int
	Reason string
}

// ReplaceResult is the outcome of a ReplaceAll call.
type ReplaceResult struct {
	Success  bool
	Inserted []*item.Item
	Skipped  []SkippedItem
}

// ReplaceAll deletes every existing item and inserts the given payloads in
// order. Payloads whose verse lookup yields zero verses are skipped and
// reported, not inserted; success requires at least one stored item. Verse
// lookups run concurrently, the write is one sequential transaction.
func (s *Service) ReplaceAll(ctx context.Context, collectionID int64, payloads []Payload) (*ReplaceResult, error) {
	contents := make([]item.Content, len(payloads))
	buildErrs := make([]error, len(payloads))

	var wg sync.WaitGroup
	for i, payload := range payloads {
		wg.Add(1)
		go func(index int, p Payload) {
			defer wg.Done()
			contents[index], buildErrs[index] = s.buildContent(ctx, p)
		}(i, payload)
	}
	wg.Wait()

	result := &ReplaceResult{}
	kept := make([]item.Content, 0, len(contents))
	for i, err := range buildErrs {
		if err != nil {
			if !errors.Is(err, services.ErrEmptyLookup) {
				return nil, err
			}
			result.Skipped = append(result.Skipped, SkippedItem{Index: i, Reason: skipReason(err)})
			continue
		}
		kept = append(kept, contents[i])
	}

	inserted, err := s.store.ReplaceItems(ctx, collectionID, kept)
	if err != nil {
		return nil, err
	}
	result.Inserted = inserted
	result.Success = len(inserted) > 0

	s.logger.Info("collection replaced",
		"collection_id", collectionID,
		"inserted", len(result.Inserted),
		"skipped", len(result.Skipped))
	return result, nil
}

func (s *Service) buildContent(ctx context.Context, payload Payload) (item.Content, error) {
	switch p := payload.(type) {
	case SongRefPayload:
		return item.SongRef{SongID: p.SongID}, nil
	case SlidePayload:
		return item.Slide{Kind: p.Kind, Content: p.Content, SceneName: p.SceneName}, nil
	case BiblePassagePayload:
		return s.buildPassage(ctx, p)
	case MultiEntryPayload:
		return s.buildMultiEntry(ctx, p)
	case SnapshotPayload:
		if p.Content == nil {
			return nil, services.Wrap(services.ErrValidation, "collection", "snapshot", "empty snapshot payload", nil)
		}
		return p.Content, nil
	default:
		return nil, fmt.Errorf("unknown payload type %T", payload)
	}
}

func (s *Service) buildPassage(ctx context.Context, p BiblePassagePayload) (item.Content, error) {
	verses, err := s.verses.VersesInRange(ctx, p.TranslationID, p.Range)
	if err != nil {
		return nil, fmt.Errorf("verse lookup: %w", err)
	}
	if len(verses) == 0 {
		return nil, services.Wrap(services.ErrEmptyLookup, "collection", "passage",
			fmt.Sprintf("%s (%s) matched no verses", p.Range.Reference(), p.TranslationID), nil)
	}

	passage := item.BiblePassage{
		TranslationID:     p.TranslationID,
		TranslationAbbrev: p.TranslationAbbrev,
		BookCode:          p.Range.BookCode,
		BookName:          p.Range.BookName,
		StartChapter:      p.Range.StartChapter,
		StartVerse:        p.Range.StartVerse,
		EndChapter:        p.Range.EndChapter,
		EndVerse:          p.Range.EndVerse,
	}
	for i, verse := range verses {
		passage.Verses = append(passage.Verses, item.VerseSnapshot{
			VerseID:   verse.ID,
			Reference: bibleref.VerseReference(p.Range.BookName, verse.Chapter, verse.Verse),
			Text:      verse.Text,
			SortOrder: i,
		})
	}
	return passage, nil
}

func (s *Service) buildMultiEntry(ctx context.Context, p MultiEntryPayload) (item.Content, error) {
	if len(p.Entries) == 0 {
		return nil, services.Wrap(services.ErrEmptyLookup, "collection", "multi-entry", "no entries given", nil)
	}

	slide := item.MultiEntrySlide{}
	for i, entry := range p.Entries {
		verses, err := s.verses.VersesInRange(ctx, entry.TranslationID, entry.Range)
		if err != nil {
			return nil, fmt.Errorf("verse lookup: %w", err)
		}
		if len(verses) == 0 {
			return nil, services.Wrap(services.ErrEmptyLookup, "collection", "multi-entry",
				fmt.Sprintf("%s: %s (%s) matched no verses", entry.PersonName, entry.Range.Reference(), entry.TranslationID), nil)
		}

		texts := make([]string, 0, len(verses))
		for _, verse := range verses {
			texts = append(texts, verse.Text)
		}
		slide.Entries = append(slide.Entries, item.Entry{
			PersonName:    entry.PersonName,
			TranslationID: entry.TranslationID,
			BookCode:      entry.Range.BookCode,
			BookName:      entry.Range.BookName,
			Reference:     entry.Range.Reference(),
			Text:          strings.Join(texts, " "),
			StartChapter:  entry.Range.StartChapter,
			StartVerse:    entry.Range.StartVerse,
			EndChapter:    entry.Range.EndChapter,
			EndVerse:      entry.Range.EndVerse,
			SortOrder:     i,
		})
	}
	return slide, nil
}

// skipReason strips the "marker: component: operation: " prefix; the skip
// list is user-facing.
func skipReason(err error) string {
	msg := err.Error()
	for i := 0; i < 3; i++ {
		idx := strings.Index(msg, ": ")
		if idx < 0 {
			break
		}
		msg = msg[idx+2:]
	}
	return msg
}
