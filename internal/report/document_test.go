package report

import (
	"testing"
	"time"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
)

func TestBuildDocument(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	morning := time.Date(2026, 8, 30, 8, 30, 0, 0, time.Local).UnixMilli()
	evening := time.Date(2026, 8, 30, 20, 15, 0, 0, time.Local).UnixMilli()

	records := []core.FluidRecord{
		{ID: "a", Timestamp: morning, Type: core.FlowIn, CategoryID: "sys_water", Amount: 250, Note: "tea"},
		{ID: "b", Timestamp: evening, Type: core.FlowOut, CategoryID: "gone", Amount: 100},
	}
	r := core.BuildRangeReport(records, 7, now)

	resolve := func(id string) core.Category {
		if id == "sys_water" {
			return core.Category{ID: id, Label: "饮水", Icon: "🥤", Type: core.FlowIn, IsDefault: true}
		}
		return core.UnknownCategory()
	}

	doc := BuildDocument(r, resolve)
	if doc.Period != "7 Days" {
		t.Fatalf("unexpected period %q", doc.Period)
	}
	if len(doc.Days) != 1 {
		t.Fatalf("expected 1 day section, got %d", len(doc.Days))
	}

	day := doc.Days[0]
	if day.Date != "2026-08-30" {
		t.Fatalf("unexpected date %q", day.Date)
	}
	if day.Summary != "In: 250 | Out: 100 | Balance: 150 mL" {
		t.Fatalf("unexpected summary %q", day.Summary)
	}
	if len(day.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(day.Rows))
	}

	// Rows follow record order inside the group: most recent first.
	first := day.Rows[0]
	if first[0] != "20:15" || first[1] != "OUT" || first[2] != "❓ 未知" || first[3] != "100" {
		t.Fatalf("unexpected first row: %v", first)
	}
	second := day.Rows[1]
	if second[0] != "08:30" || second[1] != "IN" || second[2] != "🥤 饮水" || second[4] != "tea" {
		t.Fatalf("unexpected second row: %v", second)
	}
}

func TestBuildDocumentEmptyReport(t *testing.T) {
	doc := BuildDocument(core.BuildRangeReport(nil, 7, time.Now()), func(string) core.Category {
		return core.UnknownCategory()
	})
	if len(doc.Days) != 0 {
		t.Fatalf("expected no day sections, got %d", len(doc.Days))
	}
	if doc.TotalIn != 0 || doc.TotalOut != 0 {
		t.Fatalf("expected zero totals: %+v", doc)
	}
}
