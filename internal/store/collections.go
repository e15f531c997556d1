package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lectern/internal/item"
	"lectern/internal/services"
)

// QueueCollection returns the singleton queue collection.
func (s *Store) QueueCollection(ctx context.Context) (*item.Collection, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE kind = 'queue' LIMIT 1`)
	coll, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "queue", "queue collection missing", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get queue collection: %w", err)
	}
	return coll, nil
}

// GetCollection fetches a collection by identifier.
func (s *Store) GetCollection(ctx context.Context, id int64) (*item.Collection, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ?`, id)
	coll, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "collection", fmt.Sprintf("collection %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return coll, nil
}

// CreateSchedule inserts a new named schedule.
func (s *Store) CreateSchedule(ctx context.Context, title, description string) (*item.Collection, error) {
	ctx = ensureContext(ctx)
	now := timestamp(time.Now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (kind, title, description, created_at, updated_at)
         VALUES ('schedule', ?, ?, ?, ?)`,
		title, description, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert schedule: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetCollection(ctx, id)
}

// UpdateSchedule updates a schedule's title and description.
func (s *Store) UpdateSchedule(ctx context.Context, id int64, title, description string) error {
	ctx = ensureContext(ctx)
	res, err := s.db.ExecContext(ctx,
		`UPDATE collections SET title = ?, description = ?, updated_at = ?
         WHERE id = ? AND kind = 'schedule'`,
		title, description, timestamp(time.Now()), id)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "schedule", fmt.Sprintf("schedule %d", id), nil)
	}
	return nil
}

// Schedules lists all named schedules ordered by title.
func (s *Store) Schedules(ctx context.Context) ([]*item.Collection, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE kind = 'schedule' ORDER BY title COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var collections []*item.Collection
	for rows.Next() {
		coll, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, coll)
	}
	return collections, rows.Err()
}

// DeleteCollection removes a schedule and cascades to its items and their
// sub-rows. The queue singleton cannot be deleted.
func (s *Store) DeleteCollection(ctx context.Context, id int64) error {
	ctx = ensureContext(ctx)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM collections WHERE id = ? AND kind = 'schedule'`, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "collection", fmt.Sprintf("schedule %d", id), nil)
	}
	return nil
}

const collectionColumns = "id, kind, title, description, created_at, updated_at"

func scanCollection(scanner interface{ Scan(dest ...any) error }) (*item.Collection, error) {
	var (
		id          int64
		kind        string
		title       string
		description string
		createdRaw  string
		updatedRaw  string
	)
	if err := scanner.Scan(&id, &kind, &title, &description, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	coll := &item.Collection{
		ID:          id,
		Kind:        item.CollectionKind(kind),
		Title:       title,
		Description: description,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		coll.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		coll.UpdatedAt = updated
	}
	return coll, nil
}

func touchCollection(ctx context.Context, tx *sql.Tx, collectionID int64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE collections SET updated_at = ? WHERE id = ?`,
		timestamp(time.Now()), collectionID); err != nil {
		return fmt.Errorf("touch collection: %w", err)
	}
	return nil
}

func collectionExists(ctx context.Context, tx *sql.Tx, collectionID int64) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM collections WHERE id = ?`, collectionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return services.Wrap(services.ErrNotFound, "store", "collection", fmt.Sprintf("collection %d", collectionID), nil)
	}
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	return nil
}
