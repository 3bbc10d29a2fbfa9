// Package store holds the in-memory record store and category registry.
// The Store is constructed explicitly and injected into its consumers; every
// mutation writes the affected collection through to the persister and then
// notifies subscribers, which replaces the reactive recomputation of the
// original app with explicit callbacks.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
)

// Persister is the storage port. *storage.Repository implements it.
type Persister interface {
	LoadRecords(ctx context.Context) ([]core.FluidRecord, error)
	SaveRecords(ctx context.Context, records []core.FluidRecord) error
	LoadCategories(ctx context.Context) ([]core.Category, error)
	SaveCategories(ctx context.Context, categories []core.Category) error
	LoadLimit(ctx context.Context) (float64, bool, error)
	SaveLimit(ctx context.Context, limit float64) error
	Clear(ctx context.Context) error
}

type Store struct {
	mu         sync.Mutex
	persister  Persister
	records    []core.FluidRecord
	categories []core.Category
	dailyLimit float64
	selected   int64 // ms, reference date for the current-day view

	subMu sync.Mutex
	subs  []func()
}

func New(p Persister) *Store {
	return &Store{
		persister:  p,
		categories: core.DefaultCategories(),
		dailyLimit: core.DefaultDailyLimit,
		selected:   time.Now().UnixMilli(),
	}
}

// Load pulls the three persisted blobs into memory. Read or parse failures
// are logged and leave the affected collection at its default instead of
// failing startup. An absent or empty categories blob triggers reseeding
// with an immediate write-back.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.persister.LoadRecords(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load records, starting empty", "error", err)
	} else if records != nil {
		s.records = records
	}

	limit, ok, err := s.persister.LoadLimit(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load daily limit, using default", "error", err)
	} else if ok {
		s.dailyLimit = limit
	}

	categories, err := s.persister.LoadCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load categories, reseeding defaults", "error", err)
		categories = nil
	}
	if len(categories) == 0 {
		s.categories = core.DefaultCategories()
		if err := s.persister.SaveCategories(ctx, s.categories); err != nil {
			slog.ErrorContext(ctx, "Failed to persist reseeded categories", "error", err)
		}
	} else {
		s.categories = categories
	}

	slog.InfoContext(ctx, "Store loaded",
		"records", len(s.records),
		"categories", len(s.categories),
		"daily_limit", s.dailyLimit)
}

// Subscribe registers a callback invoked after every mutation. Callbacks run
// synchronously on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := append([]func(){}, s.subs...)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// AddRecord validates and appends a record, assigning an id (and timestamp,
// when unset) at creation. The whole collection is written through.
func (s *Store) AddRecord(ctx context.Context, r core.FluidRecord) (core.FluidRecord, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}
	if err := r.Validate(); err != nil {
		return core.FluidRecord{}, fmt.Errorf("validate record: %w", err)
	}

	s.mu.Lock()
	s.records = append(s.records, r)
	err := s.persister.SaveRecords(ctx, s.records)
	s.mu.Unlock()
	if err != nil {
		return r, fmt.Errorf("persist records: %w", err)
	}

	s.notify()
	return r, nil
}

// RemoveRecord deletes by id and reports whether anything was removed.
func (s *Store) RemoveRecord(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := -1
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return false, nil
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	err := s.persister.SaveRecords(ctx, s.records)
	s.mu.Unlock()
	if err != nil {
		return true, fmt.Errorf("persist records: %w", err)
	}

	s.notify()
	return true, nil
}

func (s *Store) Records() []core.FluidRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.FluidRecord{}, s.records...)
}

// AddCategory appends a user-created category with a fresh custom_ id.
func (s *Store) AddCategory(ctx context.Context, label string, typ core.FlowType, icon string) (core.Category, error) {
	if icon == "" {
		icon = "✨"
	}
	c := core.Category{
		ID:        "custom_" + uuid.NewString(),
		Label:     strings.TrimSpace(label),
		Type:      typ,
		Icon:      icon,
		IsDefault: false,
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, fmt.Errorf("validate category: %w", err)
	}

	s.mu.Lock()
	s.categories = append(s.categories, c)
	err := s.persister.SaveCategories(ctx, s.categories)
	s.mu.Unlock()
	if err != nil {
		return c, fmt.Errorf("persist categories: %w", err)
	}

	s.notify()
	return c, nil
}

// RemoveCategory deletes a non-default category. Default categories can
// never be removed; attempting to do so returns false with the registry
// unchanged.
func (s *Store) RemoveCategory(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 || s.categories[idx].IsDefault {
		s.mu.Unlock()
		return false, nil
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	err := s.persister.SaveCategories(ctx, s.categories)
	s.mu.Unlock()
	if err != nil {
		return true, fmt.Errorf("persist categories: %w", err)
	}

	s.notify()
	return true, nil
}

func (s *Store) Categories() []core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category{}, s.categories...)
}

// CategoryByID resolves a category id, degrading to the unknown placeholder
// for ids that no longer exist so records stay renderable.
func (s *Store) CategoryByID(id string) core.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return core.UnknownCategory()
}

func (s *Store) DailyLimit() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyLimit
}

// SetDailyLimit updates and persists the intake ceiling.
func (s *Store) SetDailyLimit(ctx context.Context, limit float64) error {
	if limit <= 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	s.dailyLimit = limit
	err := s.persister.SaveLimit(ctx, limit)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("persist limit: %w", err)
	}

	s.notify()
	return nil
}

// SetDate moves the reference date for the current-day view.
func (s *Store) SetDate(ts int64) {
	s.mu.Lock()
	s.selected = ts
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SelectedDate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Snapshot returns copies of the full state triple for export.
func (s *Store) Snapshot() ([]core.FluidRecord, []core.Category, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.FluidRecord{}, s.records...),
		append([]core.Category{}, s.categories...),
		s.dailyLimit
}

// Replace swaps in a whole new state triple and persists all three blobs.
// A nil limit keeps the current one. Used by backup import.
func (s *Store) Replace(ctx context.Context, records []core.FluidRecord, categories []core.Category, limit *float64) error {
	s.mu.Lock()
	s.records = records
	s.categories = categories
	if limit != nil && *limit > 0 {
		s.dailyLimit = *limit
	}
	var errs []error
	if err := s.persister.SaveRecords(ctx, s.records); err != nil {
		errs = append(errs, err)
	}
	if err := s.persister.SaveCategories(ctx, s.categories); err != nil {
		errs = append(errs, err)
	}
	if err := s.persister.SaveLimit(ctx, s.dailyLimit); err != nil {
		errs = append(errs, err)
	}
	s.mu.Unlock()
	if len(errs) > 0 {
		return fmt.Errorf("persist imported state: %v", errs)
	}

	s.notify()
	return nil
}

// Reset clears all records, restores the default categories (discarding
// custom ones), resets the limit to its default, wipes the storage keys and
// re-persists categories only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.records = nil
	s.categories = core.DefaultCategories()
	s.dailyLimit = core.DefaultDailyLimit
	var errs []error
	if err := s.persister.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.persister.SaveCategories(ctx, s.categories); err != nil {
		errs = append(errs, err)
	}
	s.mu.Unlock()
	if len(errs) > 0 {
		return fmt.Errorf("reset state: %v", errs)
	}

	s.notify()
	return nil
}
