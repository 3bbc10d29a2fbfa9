package store

import (
	"time"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
)

// Derived views. Each is computed on demand from the live collections; the
// original app recomputed these reactively, here subscribers decide when to
// re-read them.

// TodayBalance aggregates the records falling on today's local date.
func (s *Store) TodayBalance() core.BalanceReport {
	return core.Aggregate(core.DayRecords(s.Records(), time.Now().UnixMilli()))
}

// LimitStatus always derives from the live today balance, not from the
// selected date.
func (s *Store) LimitStatus() core.LimitStatus {
	return core.ComputeLimitStatus(s.TodayBalance().TotalIn, s.DailyLimit())
}

// CurrentDateRecords returns the selected day's records, most recent first.
func (s *Store) CurrentDateRecords() []core.FluidRecord {
	return core.DayRecords(s.Records(), s.SelectedDate())
}

// CurrentDateReport aggregates the selected day's records.
func (s *Store) CurrentDateReport() core.BalanceReport {
	return core.Aggregate(s.CurrentDateRecords())
}

// WeeklyTrend returns the fixed 7-day zero-filled trend ending today.
func (s *Store) WeeklyTrend() []core.TrendPoint {
	return core.WeeklyTrend(s.Records(), time.Now())
}

// RangeReport builds the trailing-days report ending today.
func (s *Store) RangeReport(days int) core.RangeReport {
	return core.BuildRangeReport(s.Records(), days, time.Now())
}
