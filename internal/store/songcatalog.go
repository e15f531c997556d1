package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lectern/internal/songs"
)

// The Store is the SQLite implementation of songs.Catalog.
var _ songs.Catalog = (*Store)(nil)

// GetSong fetches a song with its authored slides. A missing song returns
// (nil, nil) so callers can flag missing content instead of failing.
func (s *Store) GetSong(ctx context.Context, id int64) (*songs.Song, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	if err := s.loadSongSlides(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// FindByTitle performs a case-insensitive exact-title match, returning
// (nil, nil) when nothing matches.
func (s *Store) FindByTitle(ctx context.Context, title string) (*songs.Song, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE title = ? COLLATE NOCASE ORDER BY id LIMIT 1`,
		strings.TrimSpace(title))
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find song by title: %w", err)
	}
	if err := s.loadSongSlides(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// Search returns songs whose titles contain the query, ordered by title.
func (s *Store) Search(ctx context.Context, query string) ([]*songs.Song, error) {
	ctx = ensureContext(ctx)
	pattern := "%" + strings.TrimSpace(query) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE title LIKE ? COLLATE NOCASE ORDER BY title COLLATE NOCASE`,
		pattern)
	if err != nil {
		return nil, fmt.Errorf("search songs: %w", err)
	}
	defer rows.Close()

	var results []*songs.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, song := range results {
		if err := s.loadSongSlides(ctx, song); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// CreateSong inserts a song and its authored slides in one transaction.
func (s *Store) CreateSong(ctx context.Context, song *songs.Song) (*songs.Song, error) {
	ctx = ensureContext(ctx)
	if song == nil || strings.TrimSpace(song.Title) == "" {
		return nil, errors.New("song title is required")
	}
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := timestamp(time.Now())
		res, err := tx.ExecContext(ctx,
			`INSERT INTO songs (title, author, repeat_chorus, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?)`,
			strings.TrimSpace(song.Title), song.Author, boolToInt(song.RepeatChorus), now, now)
		if err != nil {
			return fmt.Errorf("insert song: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		for i, slide := range song.Slides {
			order := slide.SortOrder
			if order == 0 {
				order = i
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO song_slides (song_id, kind, content, sort_order) VALUES (?, ?, ?, ?)`,
				id, string(slide.Kind), slide.Content, order); err != nil {
				return fmt.Errorf("insert song slide: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetSong(ctx, id)
}

// DeleteSong removes a song and its slides. Items referencing it keep their
// rows; their slide content resolves to empty afterwards.
func (s *Store) DeleteSong(ctx context.Context, id int64) (bool, error) {
	ctx = ensureContext(ctx)
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Songs lists the whole catalog ordered by title.
func (s *Store) Songs(ctx context.Context) ([]*songs.Song, error) {
	return s.Search(ctx, "")
}

const songColumns = "id, title, author, repeat_chorus, created_at, updated_at"

func scanSong(scanner interface{ Scan(dest ...any) error }) (*songs.Song, error) {
	var (
		id           int64
		title        string
		author       string
		repeatChorus int
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(&id, &title, &author, &repeatChorus, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	song := &songs.Song{
		ID:           id,
		Title:        title,
		Author:       author,
		RepeatChorus: repeatChorus != 0,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		song.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		song.UpdatedAt = updated
	}
	return song, nil
}

func (s *Store) loadSongSlides(ctx context.Context, song *songs.Song) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, content, sort_order FROM song_slides WHERE song_id = ? ORDER BY sort_order ASC`,
		song.ID)
	if err != nil {
		return fmt.Errorf("load song slides: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var slide songs.Slide
		var kind string
		if err := rows.Scan(&kind, &slide.Content, &slide.SortOrder); err != nil {
			return err
		}
		slide.Kind = songs.SlideKind(kind)
		song.Slides = append(song.Slides, slide)
	}
	return rows.Err()
}
