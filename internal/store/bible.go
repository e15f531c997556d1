package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lectern/internal/bibleref"
)

// Translation identifies one installed Bible translation. VerseCount is
// populated by Translations only.
type Translation struct {
	ID         string
	Name       string
	Abbrev     string
	VerseCount int
}

// Verse is one Bible verse row used to build snapshots.
type Verse struct {
	ID       int64
	BookCode string
	Chapter  int
	Verse    int
	Text     string
}

// Translations lists installed translations ordered by id.
func (s *Store) Translations(ctx context.Context) ([]Translation, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT t.id, t.name, t.abbrev,
            (SELECT COUNT(*) FROM bible_verses v WHERE v.translation_id = t.id)
        FROM translations t ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	defer rows.Close()

	var translations []Translation
	for rows.Next() {
		var t Translation
		if err := rows.Scan(&t.ID, &t.Name, &t.Abbrev, &t.VerseCount); err != nil {
			return nil, err
		}
		translations = append(translations, t)
	}
	return translations, rows.Err()
}

// GetTranslation fetches one translation, returning (nil, nil) when absent.
func (s *Store) GetTranslation(ctx context.Context, id string) (*Translation, error) {
	ctx = ensureContext(ctx)
	var t Translation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, abbrev FROM translations WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Abbrev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get translation: %w", err)
	}
	return &t, nil
}

// VersesInRange returns the verses of a range in canonical order. EndVerse 0
// means "to the end of EndChapter". An empty result is not an error here;
// the collection service decides what an empty lookup means.
func (s *Store) VersesInRange(ctx context.Context, translationID string, r bibleref.Range) ([]Verse, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, book_code, chapter, verse, text FROM bible_verses
        WHERE translation_id = ? AND book_code = ?
          AND (chapter > ? OR (chapter = ? AND verse >= ?))
          AND (chapter < ? OR (chapter = ? AND (? = 0 OR verse <= ?)))
        ORDER BY chapter ASC, verse ASC`
	rows, err := s.db.QueryContext(ctx, query,
		translationID, r.BookCode,
		r.StartChapter, r.StartChapter, r.StartVerse,
		r.EndChapter, r.EndChapter, r.EndVerse, r.EndVerse)
	if err != nil {
		return nil, fmt.Errorf("query verses: %w", err)
	}
	defer rows.Close()

	var verses []Verse
	for rows.Next() {
		var v Verse
		if err := rows.Scan(&v.ID, &v.BookCode, &v.Chapter, &v.Verse, &v.Text); err != nil {
			return nil, err
		}
		verses = append(verses, v)
	}
	return verses, rows.Err()
}

// SeedTranslation upserts a translation record.
func (s *Store) SeedTranslation(ctx context.Context, t Translation) error {
	ctx = ensureContext(ctx)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (id, name, abbrev) VALUES (?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET name = excluded.name, abbrev = excluded.abbrev`,
		t.ID, t.Name, t.Abbrev)
	if err != nil {
		return fmt.Errorf("seed translation: %w", err)
	}
	return nil
}

// ImportVerses bulk-inserts verses for a translation in one transaction,
// replacing any existing verse at the same position.
func (s *Store) ImportVerses(ctx context.Context, translationID string, verses []Verse) error {
	ctx = ensureContext(ctx)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, v := range verses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO bible_verses (translation_id, book_code, chapter, verse, text)
                 VALUES (?, ?, ?, ?, ?)
                 ON CONFLICT(translation_id, book_code, chapter, verse) DO UPDATE SET text = excluded.text`,
				translationID, v.BookCode, v.Chapter, v.Verse, v.Text); err != nil {
				return fmt.Errorf("insert verse: %w", err)
			}
		}
		return nil
	})
}
