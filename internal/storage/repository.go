// Package storage persists the app state as three independent JSON blobs in
// a single-table SQLite database. Writes are full-collection replacements;
// there is no delta tracking and no cross-key transactionality.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"

	_ "modernc.org/sqlite"
)

// Storage keys. The categories key carries a version suffix: an earlier
// incompatible category schema was migrated by renaming the key, so stale
// blobs under the old name are simply never read again.
const (
	KeyRecords    = "STONE_RECORDS"
	KeyCategories = "STONE_CATEGORIES_V4"
	KeyLimit      = "STONE_DAILY_LIMIT"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key %s: %w", key, err)
	}
	return value, true, nil
}

func (r *Repository) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write key %s: %w", key, err)
	}
	return nil
}

// LoadRecords returns the stored record list, or nil when nothing has been
// stored yet.
func (r *Repository) LoadRecords(ctx context.Context) ([]core.FluidRecord, error) {
	raw, ok, err := r.get(ctx, KeyRecords)
	if err != nil || !ok {
		return nil, err
	}
	var records []core.FluidRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("parse records blob: %w", err)
	}
	return records, nil
}

// SaveRecords re-serializes and stores the whole record collection.
func (r *Repository) SaveRecords(ctx context.Context, records []core.FluidRecord) error {
	if records == nil {
		records = []core.FluidRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := r.set(ctx, KeyRecords, string(raw)); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Records persisted", "count", len(records))
	return nil
}

// LoadCategories returns the stored category list, or nil when absent or
// stored as an empty list. Callers treat both the same way: reseed.
func (r *Repository) LoadCategories(ctx context.Context) ([]core.Category, error) {
	raw, ok, err := r.get(ctx, KeyCategories)
	if err != nil || !ok {
		return nil, err
	}
	var categories []core.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		return nil, fmt.Errorf("parse categories blob: %w", err)
	}
	return categories, nil
}

func (r *Repository) SaveCategories(ctx context.Context, categories []core.Category) error {
	if categories == nil {
		categories = []core.Category{}
	}
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}
	if err := r.set(ctx, KeyCategories, string(raw)); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Categories persisted", "count", len(categories))
	return nil
}

// LoadLimit returns the stored daily limit and whether one was present.
func (r *Repository) LoadLimit(ctx context.Context) (float64, bool, error) {
	raw, ok, err := r.get(ctx, KeyLimit)
	if err != nil || !ok {
		return 0, false, err
	}
	limit, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse limit value %q: %w", raw, err)
	}
	return limit, true, nil
}

func (r *Repository) SaveLimit(ctx context.Context, limit float64) error {
	return r.set(ctx, KeyLimit, strconv.FormatFloat(limit, 'f', -1, 64))
}

// Clear removes all three storage keys.
func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM app_state WHERE key IN (?, ?, ?)`,
		KeyRecords, KeyCategories, KeyLimit)
	if err != nil {
		return fmt.Errorf("clear storage keys: %w", err)
	}
	slog.InfoContext(ctx, "Storage cleared")
	return nil
}
