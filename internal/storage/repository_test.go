package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "stone.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	loaded, err := repo.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil for absent records, got %v", loaded)
	}

	records := []core.FluidRecord{
		{ID: "a", Timestamp: 1000, Type: core.FlowIn, CategoryID: "sys_water", Amount: 250, Note: "morning"},
		{ID: "b", Timestamp: 2000, Type: core.FlowOut, CategoryID: "sys_urine", Amount: 150.5},
	}
	if err := repo.SaveRecords(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err = repo.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != records[0] || loaded[1] != records[1] {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestCategoriesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cats := core.DefaultCategories()
	if err := repo.SaveCategories(ctx, cats); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.LoadCategories(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != len(cats) {
		t.Fatalf("expected %d categories, got %d", len(cats), len(loaded))
	}
	for i := range cats {
		if loaded[i] != cats[i] {
			t.Fatalf("category %d mismatch: %+v != %+v", i, loaded[i], cats[i])
		}
	}
}

func TestLimitRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.LoadLimit(ctx); err != nil || ok {
		t.Fatalf("expected absent limit, ok=%v err=%v", ok, err)
	}
	if err := repo.SaveLimit(ctx, 1800); err != nil {
		t.Fatalf("save: %v", err)
	}
	limit, ok, err := repo.LoadLimit(ctx)
	if err != nil || !ok || limit != 1800 {
		t.Fatalf("load limit: %v ok=%v err=%v", limit, ok, err)
	}

	// Overwrite, not append.
	if err := repo.SaveLimit(ctx, 2500); err != nil {
		t.Fatalf("save again: %v", err)
	}
	limit, _, _ = repo.LoadLimit(ctx)
	if limit != 2500 {
		t.Fatalf("expected 2500 after overwrite, got %v", limit)
	}
}

func TestClear(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveRecords(ctx, []core.FluidRecord{{ID: "a", Type: core.FlowIn, CategoryID: "c", Amount: 1}}); err != nil {
		t.Fatalf("save records: %v", err)
	}
	if err := repo.SaveLimit(ctx, 1500); err != nil {
		t.Fatalf("save limit: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if recs, err := repo.LoadRecords(ctx); err != nil || recs != nil {
		t.Fatalf("records should be gone, got %v err=%v", recs, err)
	}
	if _, ok, _ := repo.LoadLimit(ctx); ok {
		t.Fatalf("limit should be gone")
	}
}
