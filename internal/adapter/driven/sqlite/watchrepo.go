package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
	"github.com/ericfisherdev/assignwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WatchStore = (*WatchRepo)(nil)

// WatchRepo is the SQLite implementation of the WatchStore port interface.
// Instants are stored as UnixNano integers so that a persisted record reads
// back with the exact timestamps that were written.
type WatchRepo struct {
	db *DB
}

// NewWatchRepo creates a new WatchRepo backed by the given DB.
func NewWatchRepo(db *DB) *WatchRepo {
	return &WatchRepo{db: db}
}

// Upsert inserts or replaces a watched item, keyed by its URL.
func (r *WatchRepo) Upsert(ctx context.Context, item model.WatchedItem) error {
	const query = `
		INSERT INTO watches (url, deadline_ns, last_check_ns, last_reminder_ns)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			deadline_ns = excluded.deadline_ns,
			last_check_ns = excluded.last_check_ns,
			last_reminder_ns = excluded.last_reminder_ns
	`

	var lastReminder any
	if item.LastReminder != nil {
		lastReminder = item.LastReminder.UnixNano()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		item.URL, item.Deadline.UnixNano(), item.LastCheck.UnixNano(), lastReminder,
	)
	if err != nil {
		return fmt.Errorf("upsert watch %q: %w", item.URL, err)
	}

	return nil
}

// GetByURL retrieves a single watched item by URL. Returns nil, nil if no
// watch exists for the URL.
func (r *WatchRepo) GetByURL(ctx context.Context, url string) (*model.WatchedItem, error) {
	const query = `
		SELECT url, deadline_ns, last_check_ns, last_reminder_ns
		FROM watches
		WHERE url = ?
	`

	item, err := scanWatch(r.db.Reader.QueryRowContext(ctx, query, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get watch %q: %w", url, err)
	}

	return item, nil
}

// ListAll returns all watched items ordered by deadline ascending, oldest
// deadline first.
func (r *WatchRepo) ListAll(ctx context.Context) ([]model.WatchedItem, error) {
	const query = `
		SELECT url, deadline_ns, last_check_ns, last_reminder_ns
		FROM watches
		ORDER BY deadline_ns
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query watches: %w", err)
	}
	defer rows.Close()

	var items []model.WatchedItem
	for rows.Next() {
		item, err := scanWatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watch: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watches: %w", err)
	}

	return items, nil
}

// Delete removes a watched item by URL. Returns an error if no watch exists
// for the URL.
func (r *WatchRepo) Delete(ctx context.Context, url string) error {
	const query = `DELETE FROM watches WHERE url = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, url)
	if err != nil {
		return fmt.Errorf("delete watch %q: %w", url, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("watch %q not found", url)
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanWatch(s scanner) (*model.WatchedItem, error) {
	var item model.WatchedItem
	var deadlineNS, lastCheckNS int64
	var lastReminderNS sql.NullInt64

	if err := s.Scan(&item.URL, &deadlineNS, &lastCheckNS, &lastReminderNS); err != nil {
		return nil, err
	}

	item.Deadline = time.Unix(0, deadlineNS).UTC()
	item.LastCheck = time.Unix(0, lastCheckNS).UTC()
	if lastReminderNS.Valid {
		t := time.Unix(0, lastReminderNS.Int64).UTC()
		item.LastReminder = &t
	}

	return &item, nil
}
