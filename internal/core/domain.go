package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	FlowIn  FlowType = "IN"
	FlowOut FlowType = "OUT"
)

// Unit is the only volume unit the app works in.
const Unit = "mL"

type (
	// FlowType is the direction of a fluid event: intake or output.
	FlowType string

	// FluidRecord is one logged fluid event. Records are immutable after
	// creation; corrections are delete-and-re-add.
	FluidRecord struct {
		ID          string   `json:"id"`
		Timestamp   int64    `json:"timestamp"` // ms since epoch, may be backdated
		Type        FlowType `json:"type"`
		CategoryID  string   `json:"categoryId"`
		Amount      float64  `json:"amount"` // milliliters
		Temperature float64  `json:"temperature,omitempty"`
		Note        string   `json:"note,omitempty"`
	}

	// Category is a user-facing tag with a fixed flow direction.
	Category struct {
		ID        string   `json:"id"`
		Label     string   `json:"label"`
		Type      FlowType `json:"type"`
		Icon      string   `json:"icon"`
		IsDefault bool     `json:"isDefault"`
	}

	// BalanceReport summarizes a record set. Balance is rounded to two
	// decimals at this level only; TotalIn/TotalOut stay raw.
	BalanceReport struct {
		TotalIn  float64 `json:"totalIn"`
		TotalOut float64 `json:"totalOut"`
		Balance  float64 `json:"balance"`
		Unit     string  `json:"unit"`
	}
)

var (
	ErrInvalidType   = errors.New("invalid flow type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category id")
	ErrEmptyLabel    = errors.New("empty label")
)

func (t FlowType) Validate() error {
	switch t {
	case FlowIn, FlowOut:
		return nil
	}
	return ErrInvalidType
}

// Validate rejects records that would poison the aggregation arithmetic.
// The aggregator itself stays permissive; this runs at the entry boundary.
func (r FluidRecord) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.Amount < 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.CategoryID) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (c Category) Validate() error {
	if err := c.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Label) == "" {
		return ErrEmptyLabel
	}
	return nil
}

// Time returns the record timestamp in the local time zone.
func (r FluidRecord) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// UnknownCategory is substituted at read time for records whose category
// was deleted, so every record stays renderable.
func UnknownCategory() Category {
	return Category{ID: "unknown", Label: "未知", Type: FlowIn, Icon: "❓", IsDefault: true}
}

// DefaultCategories returns the ten seeded system categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "sys_diet", Label: "饮食", Type: FlowIn, Icon: "🥣", IsDefault: true},
		{ID: "sys_water", Label: "饮水", Type: FlowIn, Icon: "🥤", IsDefault: true},
		{ID: "sys_infusion", Label: "输液", Type: FlowIn, Icon: "💉", IsDefault: true},
		{ID: "sys_blood", Label: "输血", Type: FlowIn, Icon: "🩸", IsDefault: true},
		{ID: "sys_urine", Label: "尿液", Type: FlowOut, Icon: "💧", IsDefault: true},
		{ID: "sys_stool", Label: "大便", Type: FlowOut, Icon: "💩", IsDefault: true},
		{ID: "sys_vomit", Label: "呕吐", Type: FlowOut, Icon: "🤮", IsDefault: true},
		{ID: "sys_sputum", Label: "痰量", Type: FlowOut, Icon: "🫁", IsDefault: true},
		{ID: "sys_drainage", Label: "引流", Type: FlowOut, Icon: "🧴", IsDefault: true},
		{ID: "sys_other_out", Label: "其他排出", Type: FlowOut, Icon: "📉", IsDefault: true},
	}
}

// MedicalIcons is the icon preset offered by the category editor.
var MedicalIcons = []string{
	"🥣", "🥤", "🍵", "🥛", "🧴", "🫙", "🥡",
	"💧", "💦", "🩸", "🥥", "🍋",
	"💉", "💊", "🧪", "🩹", "🫁", "🌡️",
}

// SameDay reports whether two millisecond timestamps fall on the same
// local calendar day.
func SameDay(ts1, ts2 int64) bool {
	y1, m1, d1 := time.UnixMilli(ts1).Date()
	y2, m2, d2 := time.UnixMilli(ts2).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
