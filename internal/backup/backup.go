// Package backup implements whole-state JSON export and import.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/store"
)

// Version is a literal stamped into every export; it is not negotiated on
// import.
const Version = "1.0.0"

// Envelope is the backup file shape. Unrecognized extra fields in an import
// are ignored; records and categories are required.
type Envelope struct {
	Version    string             `json:"version"`
	Timestamp  int64              `json:"timestamp"`
	DailyLimit float64            `json:"dailyLimit"`
	Categories []core.Category    `json:"categories"`
	Records    []core.FluidRecord `json:"records"`
}

// Export serializes the current state triple as one JSON document.
func Export(s *store.Store) ([]byte, error) {
	records, categories, limit := s.Snapshot()
	env := Envelope{
		Version:    Version,
		Timestamp:  time.Now().UnixMilli(),
		DailyLimit: limit,
		Categories: categories,
		Records:    records,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// Import parses a backup document and wholesale-replaces the store state.
// records must be an array-typed field and categories must be present;
// otherwise the import fails without mutating the current state. A positive
// dailyLimit is applied, anything else keeps the current limit.
func Import(ctx context.Context, s *store.Store, data []byte) error {
	var probe struct {
		DailyLimit float64         `json:"dailyLimit"`
		Categories json.RawMessage `json:"categories"`
		Records    json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("parse backup: %w", err)
	}
	if len(probe.Records) == 0 || string(probe.Records) == "null" {
		return fmt.Errorf("invalid backup: missing records")
	}
	if len(probe.Categories) == 0 || string(probe.Categories) == "null" {
		return fmt.Errorf("invalid backup: missing categories")
	}

	var records []core.FluidRecord
	if err := json.Unmarshal(probe.Records, &records); err != nil {
		return fmt.Errorf("invalid backup: records is not an array: %w", err)
	}
	var categories []core.Category
	if err := json.Unmarshal(probe.Categories, &categories); err != nil {
		return fmt.Errorf("invalid backup: categories is not an array: %w", err)
	}

	var limit *float64
	if probe.DailyLimit > 0 {
		limit = &probe.DailyLimit
	}
	if err := s.Replace(ctx, records, categories, limit); err != nil {
		return fmt.Errorf("apply backup: %w", err)
	}

	slog.InfoContext(ctx, "Backup imported",
		"records", len(records),
		"categories", len(categories))
	return nil
}
