package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/store"
)

type memPersister struct {
	records    []core.FluidRecord
	categories []core.Category
	limit      float64
	hasLimit   bool
}

func (m *memPersister) LoadRecords(context.Context) ([]core.FluidRecord, error) {
	return m.records, nil
}
func (m *memPersister) SaveRecords(_ context.Context, r []core.FluidRecord) error {
	m.records = r
	return nil
}
func (m *memPersister) LoadCategories(context.Context) ([]core.Category, error) {
	return m.categories, nil
}
func (m *memPersister) SaveCategories(_ context.Context, c []core.Category) error {
	m.categories = c
	return nil
}
func (m *memPersister) LoadLimit(context.Context) (float64, bool, error) {
	return m.limit, m.hasLimit, nil
}
func (m *memPersister) SaveLimit(_ context.Context, l float64) error {
	m.limit, m.hasLimit = l, true
	return nil
}
func (m *memPersister) Clear(context.Context) error {
	m.records, m.categories, m.limit, m.hasLimit = nil, nil, 0, false
	return nil
}

func TestSnapshotWritesBackupFile(t *testing.T) {
	st := store.New(&memPersister{})
	st.Load(context.Background())
	if _, err := st.AddRecord(context.Background(), core.FluidRecord{Type: core.FlowIn, CategoryID: "sys_water", Amount: 500}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "backups")
	s := New(st, dir, nil)
	if err := s.RunNow(); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 snapshot file, got %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var env struct {
		Version string            `json:"version"`
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if env.Version != "1.0.0" || len(env.Records) != 1 {
		t.Fatalf("unexpected snapshot content: version=%q records=%d", env.Version, len(env.Records))
	}
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(store.New(&memPersister{}), t.TempDir(), nil)
	if err := s.Register("not a cron"); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
	if err := s.Register("0 3 * * *"); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}
}
