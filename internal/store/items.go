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

// InsertItem inserts content into a collection as one transaction. With an
// anchor the new item lands at anchor.position + 1 and every item at or past
// that position shifts up one slot; without an anchor the item appends after
// the current maximum position. The anchor is validated before any shift so
// a missing anchor leaves the collection untouched.
func (s *Store) InsertItem(ctx context.Context, collectionID int64, anchorItemID *int64, content item.Content) (*item.Item, error) {
	ctx = ensureContext(ctx)
	var insertedID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := collectionExists(ctx, tx, collectionID); err != nil {
			return err
		}

		var target int
		if anchorItemID != nil {
			var anchorPos int
			err := tx.QueryRowContext(ctx,
				`SELECT position FROM items WHERE id = ? AND collection_id = ?`,
				*anchorItemID, collectionID).Scan(&anchorPos)
			if errors.Is(err, sql.ErrNoRows) {
				return services.Wrap(services.ErrNotFound, "store", "insert", fmt.Sprintf("anchor item %d", *anchorItemID), nil)
			}
			if err != nil {
				return fmt.Errorf("lookup anchor: %w", err)
			}
			target = anchorPos + 1
		} else {
			err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(position) + 1, 0) FROM items WHERE collection_id = ?`,
				collectionID).Scan(&target)
			if err != nil {
				return fmt.Errorf("compute append position: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET position = position + 1 WHERE collection_id = ? AND position >= ?`,
			collectionID, target); err != nil {
			return fmt.Errorf("shift positions: %w", err)
		}

		id, err := insertItemRow(ctx, tx, collectionID, target, content)
		if err != nil {
			return err
		}
		insertedID = id
		return touchCollection(ctx, tx, collectionID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetItem(ctx, insertedID)
}

// GetItem fetches one item with its sub-rows.
func (s *Store) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "item", fmt.Sprintf("item %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if err := s.loadSubRows(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// ItemsByCollection returns a collection's items ordered by position
// ascending, sub-rows loaded in sort order.
func (s *Store) ItemsByCollection(ctx context.Context, collectionID int64) ([]*item.Item, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE collection_id = ? ORDER BY position ASC`,
		collectionID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := s.loadSubRows(ctx, it); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// RemoveItem deletes an item; verse and entry sub-rows cascade. Positions of
// the remaining items are not compacted.
func (s *Store) RemoveItem(ctx context.Context, collectionID, itemID int64) error {
	ctx = ensureContext(ctx)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE id = ? AND collection_id = ?`, itemID, collectionID)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return services.Wrap(services.ErrNotFound, "store", "remove", fmt.Sprintf("item %d", itemID), nil)
		}
		return touchCollection(ctx, tx, collectionID)
	})
}

// ReorderItems rewrites positions to match the given order. The id list must
// be a complete permutation of the collection's current item ids; anything
// else fails with ErrInvalidPermutation and leaves stored order unchanged.
// The rewrite incidentally compacts position gaps.
func (s *Store) ReorderItems(ctx context.Context, collectionID int64, orderedIDs []int64) error {
	ctx = ensureContext(ctx)
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := collectionExists(ctx, tx, collectionID); err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM items WHERE collection_id = ?`, collectionID)
		if err != nil {
			return fmt.Errorf("list item ids: %w", err)
		}
		current := make(map[int64]struct{})
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			current[id] = struct{}{}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if len(orderedIDs) != len(current) {
			return services.Wrap(services.ErrInvalidPermutation, "store", "reorder",
				fmt.Sprintf("got %d ids, collection has %d items", len(orderedIDs), len(current)), nil)
		}
		seen := make(map[int64]struct{}, len(orderedIDs))
		for _, id := range orderedIDs {
			if _, dup := seen[id]; dup {
				return services.Wrap(services.ErrInvalidPermutation, "store", "reorder",
					fmt.Sprintf("duplicate id %d", id), nil)
			}
			seen[id] = struct{}{}
			if _, ok := current[id]; !ok {
				return services.Wrap(services.ErrInvalidPermutation, "store", "reorder",
					fmt.Sprintf("id %d is not in the collection", id), nil)
			}
		}

		now := timestamp(time.Now())
		for index, id := range orderedIDs {
			if _, err := tx.ExecContext(ctx,
				`UPDATE items SET position = ?, updated_at = ? WHERE id = ?`,
				index, now, id); err != nil {
				return fmt.Errorf("rewrite position: %w", err)
			}
		}
		return touchCollection(ctx, tx, collectionID)
	})
}

// ReplaceItems deletes every item in the collection and inserts the given
// content in order with position = index, all in one transaction.
func (s *Store) ReplaceItems(ctx context.Context, collectionID int64, contents []item.Content) ([]*item.Item, error) {
	ctx = ensureContext(ctx)
	var ids []int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := collectionExists(ctx, tx, collectionID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM items WHERE collection_id = ?`, collectionID); err != nil {
			return fmt.Errorf("clear collection: %w", err)
		}
		ids = ids[:0]
		for index, content := range contents {
			id, err := insertItemRow(ctx, tx, collectionID, index, content)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return touchCollection(ctx, tx, collectionID)
	})
	if err != nil {
		return nil, err
	}

	items := make([]*item.Item, 0, len(ids))
	for _, id := range ids {
		it, err := s.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// UpdateItemContent replaces an item's content in place, keeping its
// position. Sub-rows are rewritten to match the new content.
func (s *Store) UpdateItemContent(ctx context.Context, itemID int64, content item.Content) (*item.Item, error) {
	ctx = ensureContext(ctx)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var collectionID int64
		err := tx.QueryRowContext(ctx,
			`SELECT collection_id FROM items WHERE id = ?`, itemID).Scan(&collectionID)
		if errors.Is(err, sql.ErrNoRows) {
			return services.Wrap(services.ErrNotFound, "store", "update", fmt.Sprintf("item %d", itemID), nil)
		}
		if err != nil {
			return fmt.Errorf("lookup item: %w", err)
		}

		cols := contentColumns(content)
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET variant = ?, song_id = ?, slide_kind = ?, slide_content = ?, scene_name = ?,
                passage_reference = ?, passage_translation_id = ?, passage_translation_abbrev = ?,
                passage_book_code = ?, passage_book_name = ?, passage_start_chapter = ?,
                passage_start_verse = ?, passage_end_chapter = ?, passage_end_verse = ?, updated_at = ?
             WHERE id = ?`,
			cols.variant, cols.songID, cols.slideKind, cols.slideContent, cols.sceneName,
			cols.passageReference, cols.translationID, cols.translationAbbrev,
			cols.bookCode, cols.bookName, cols.startChapter,
			cols.startVerse, cols.endChapter, cols.endVerse, timestamp(time.Now()),
			itemID); err != nil {
			return fmt.Errorf("update item: %w", err)
		}

		for _, table := range []string{"passage_verses", "entries"} {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM `+table+` WHERE item_id = ?`, itemID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := insertSubRows(ctx, tx, itemID, content); err != nil {
			return err
		}
		return touchCollection(ctx, tx, collectionID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetItem(ctx, itemID)
}
