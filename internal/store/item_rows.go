package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lectern/internal/item"
)

const itemColumns = `id, collection_id, variant, song_id, slide_kind, slide_content, scene_name,
    passage_reference, passage_translation_id, passage_translation_abbrev,
    passage_book_code, passage_book_name, passage_start_chapter, passage_start_verse,
    passage_end_chapter, passage_end_verse, position, created_at, updated_at`

// variantColumns carries the per-variant column values of one items row.
type variantColumns struct {
	variant           string
	songID            any
	slideKind         any
	slideContent      any
	sceneName         any
	passageReference  any
	translationID     any
	translationAbbrev any
	bookCode          any
	bookName          any
	startChapter      any
	startVerse        any
	endChapter        any
	endVerse          any
}

func contentColumns(content item.Content) variantColumns {
	cols := variantColumns{variant: string(content.Variant())}
	switch c := content.(type) {
	case item.SongRef:
		cols.songID = c.SongID
	case item.Slide:
		cols.slideKind = string(c.Kind)
		cols.slideContent = nullableString(c.Content)
		cols.sceneName = nullableString(c.SceneName)
	case item.BiblePassage:
		cols.passageReference = passageReference(c)
		cols.translationID = c.TranslationID
		cols.translationAbbrev = nullableString(c.TranslationAbbrev)
		cols.bookCode = c.BookCode
		cols.bookName = c.BookName
		cols.startChapter = c.StartChapter
		cols.startVerse = c.StartVerse
		cols.endChapter = c.EndChapter
		cols.endVerse = c.EndVerse
	case item.MultiEntrySlide:
		// All content lives in the entries sub-table.
	}
	return cols
}

func passageReference(p item.BiblePassage) string {
	switch {
	case p.StartChapter != p.EndChapter:
		return fmt.Sprintf("%s %d:%d-%d:%d", p.BookName, p.StartChapter, p.StartVerse, p.EndChapter, p.EndVerse)
	case p.EndVerse > p.StartVerse:
		return fmt.Sprintf("%s %d:%d-%d", p.BookName, p.StartChapter, p.StartVerse, p.EndVerse)
	case p.EndVerse == 0:
		return fmt.Sprintf("%s %d", p.BookName, p.StartChapter)
	default:
		return fmt.Sprintf("%s %d:%d", p.BookName, p.StartChapter, p.StartVerse)
	}
}

func insertItemRow(ctx context.Context, tx *sql.Tx, collectionID int64, position int, content item.Content) (int64, error) {
	now := timestamp(time.Now())
	cols := contentColumns(content)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO items (
            collection_id, variant, song_id, slide_kind, slide_content, scene_name,
            passage_reference, passage_translation_id, passage_translation_abbrev,
            passage_book_code, passage_book_name, passage_start_chapter, passage_start_verse,
            passage_end_chapter, passage_end_verse, position, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		collectionID, cols.variant, cols.songID, cols.slideKind, cols.slideContent, cols.sceneName,
		cols.passageReference, cols.translationID, cols.translationAbbrev,
		cols.bookCode, cols.bookName, cols.startChapter, cols.startVerse,
		cols.endChapter, cols.endVerse, position, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	if err := insertSubRows(ctx, tx, id, content); err != nil {
		return 0, err
	}
	return id, nil
}

func insertSubRows(ctx context.Context, tx *sql.Tx, itemID int64, content item.Content) error {
	switch c := content.(type) {
	case item.BiblePassage:
		for _, verse := range c.Verses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO passage_verses (item_id, verse_id, reference, text, sort_order)
                 VALUES (?, ?, ?, ?, ?)`,
				itemID, verse.VerseID, verse.Reference, verse.Text, verse.SortOrder); err != nil {
				return fmt.Errorf("insert passage verse: %w", err)
			}
		}
	case item.MultiEntrySlide:
		for _, entry := range c.Entries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO entries (
                    item_id, person_name, translation_id, book_code, book_name, reference, text,
                    start_chapter, start_verse, end_chapter, end_verse, sort_order
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				itemID, entry.PersonName, entry.TranslationID, entry.BookCode, entry.BookName,
				entry.Reference, entry.Text, entry.StartChapter, entry.StartVerse,
				entry.EndChapter, entry.EndVerse, entry.SortOrder); err != nil {
				return fmt.Errorf("insert entry: %w", err)
			}
		}
	case item.SongRef, item.Slide:
		// No sub-rows.
	}
	return nil
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*item.Item, error) {
	var (
		id                int64
		collectionID      int64
		variant           string
		songID            sql.NullInt64
		slideKind         sql.NullString
		slideContent      sql.NullString
		sceneName         sql.NullString
		passageReference  sql.NullString
		translationID     sql.NullString
		translationAbbrev sql.NullString
		bookCode          sql.NullString
		bookName          sql.NullString
		startChapter      sql.NullInt64
		startVerse        sql.NullInt64
		endChapter        sql.NullInt64
		endVerse          sql.NullInt64
		position          int
		createdRaw        string
		updatedRaw        string
	)

	if err := scanner.Scan(
		&id, &collectionID, &variant, &songID, &slideKind, &slideContent, &sceneName,
		&passageReference, &translationID, &translationAbbrev,
		&bookCode, &bookName, &startChapter, &startVerse,
		&endChapter, &endVerse, &position, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	it := &item.Item{
		ID:           id,
		CollectionID: collectionID,
		Position:     position,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		it.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		it.UpdatedAt = updated
	}

	switch item.Variant(variant) {
	case item.VariantSong:
		it.Content = item.SongRef{SongID: songID.Int64}
	case item.VariantSlide:
		it.Content = item.Slide{
			Kind:      item.SlideKind(slideKind.String),
			Content:   slideContent.String,
			SceneName: sceneName.String,
		}
	case item.VariantBiblePassage:
		it.Content = item.BiblePassage{
			TranslationID:     translationID.String,
			TranslationAbbrev: translationAbbrev.String,
			BookCode:          bookCode.String,
			BookName:          bookName.String,
			StartChapter:      int(startChapter.Int64),
			StartVerse:        int(startVerse.Int64),
			EndChapter:        int(endChapter.Int64),
			EndVerse:          int(endVerse.Int64),
		}
	case item.VariantMultiEntry:
		it.Content = item.MultiEntrySlide{}
	default:
		return nil, fmt.Errorf("unknown item variant %q", variant)
	}

	return it, nil
}

// loadSubRows fills the verse or entry snapshots for passage and multi-entry
// items. Collections are human-curated, so per-item queries are fine.
func (s *Store) loadSubRows(ctx context.Context, it *item.Item) error {
	switch content := it.Content.(type) {
	case item.BiblePassage:
		rows, err := s.db.QueryContext(ctx,
			`SELECT verse_id, reference, text, sort_order FROM passage_verses
             WHERE item_id = ? ORDER BY sort_order ASC`, it.ID)
		if err != nil {
			return fmt.Errorf("load passage verses: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var verse item.VerseSnapshot
			if err := rows.Scan(&verse.VerseID, &verse.Reference, &verse.Text, &verse.SortOrder); err != nil {
				return err
			}
			content.Verses = append(content.Verses, verse)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		it.Content = content
	case item.MultiEntrySlide:
		rows, err := s.db.QueryContext(ctx,
			`SELECT person_name, translation_id, book_code, book_name, reference, text,
                start_chapter, start_verse, end_chapter, end_verse, sort_order
             FROM entries WHERE item_id = ? ORDER BY sort_order ASC`, it.ID)
		if err != nil {
			return fmt.Errorf("load entries: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var entry item.Entry
			if err := rows.Scan(&entry.PersonName, &entry.TranslationID, &entry.BookCode,
				&entry.BookName, &entry.Reference, &entry.Text, &entry.StartChapter,
				&entry.StartVerse, &entry.EndChapter, &entry.EndVerse, &entry.SortOrder); err != nil {
				return err
			}
			content.Entries = append(content.Entries, entry)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		it.Content = content
	case item.SongRef, item.Slide:
		// No sub-rows.
	}
	return nil
}
