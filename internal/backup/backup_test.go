package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

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

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(&memPersister{})
	ctx := context.Background()
	s.Load(ctx)
	if _, err := s.AddRecord(ctx, core.FluidRecord{Type: core.FlowIn, CategoryID: "sys_water", Amount: 300, Timestamp: time.Now().UnixMilli()}); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if _, err := s.AddCategory(ctx, "Tea", core.FlowIn, "🍵"); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if err := s.SetDailyLimit(ctx, 1750); err != nil {
		t.Fatalf("seed limit: %v", err)
	}
	return s
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := seededStore(t)

	data, err := Export(src)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if env.Version != "1.0.0" || env.Timestamp == 0 {
		t.Fatalf("unexpected envelope: version=%q timestamp=%d", env.Version, env.Timestamp)
	}

	dst := store.New(&memPersister{})
	dst.Load(ctx)
	if err := Import(ctx, dst, data); err != nil {
		t.Fatalf("import: %v", err)
	}

	sr, sc, sl := src.Snapshot()
	dr, dc, dl := dst.Snapshot()
	if len(dr) != len(sr) || len(dc) != len(sc) || dl != sl {
		t.Fatalf("round trip mismatch: %d/%d records, %d/%d categories, limit %v/%v",
			len(dr), len(sr), len(dc), len(sc), dl, sl)
	}
	for i := range sr {
		if dr[i] != sr[i] {
			t.Fatalf("record %d mismatch: %+v != %+v", i, dr[i], sr[i])
		}
	}
}

func TestImportRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"missing records", `{"version":"1.0.0","categories":[]}`},
		{"records not array", `{"version":"1.0.0","records":{"a":1},"categories":[]}`},
		{"records null", `{"version":"1.0.0","records":null,"categories":[]}`},
		{"missing categories", `{"version":"1.0.0","records":[]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			s := seededStore(t)
			beforeRecords, beforeCats, beforeLimit := s.Snapshot()

			if err := Import(ctx, s, []byte(tc.data)); err == nil {
				t.Fatalf("expected import failure")
			}

			afterRecords, afterCats, afterLimit := s.Snapshot()
			if len(afterRecords) != len(beforeRecords) || len(afterCats) != len(beforeCats) || afterLimit != beforeLimit {
				t.Fatalf("failed import must leave state untouched")
			}
		})
	}
}

func TestImportIgnoresExtraFieldsAndMissingLimit(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	data := `{"version":"9.9.9","unknownField":true,"records":[],"categories":[{"id":"sys_water","label":"饮水","type":"IN","icon":"🥤","isDefault":true}]}`
	if err := Import(ctx, s, []byte(data)); err != nil {
		t.Fatalf("import: %v", err)
	}

	records, categories, limit := s.Snapshot()
	if len(records) != 0 || len(categories) != 1 {
		t.Fatalf("unexpected state after import: %d records, %d categories", len(records), len(categories))
	}
	if limit != 1750 {
		t.Fatalf("missing dailyLimit should keep the current limit, got %v", limit)
	}
}
