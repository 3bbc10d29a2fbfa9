package core

import (
	"fmt"
	"sort"
	"time"
)

const dayMillis = 24 * 60 * 60 * 1000

type (
	// DayGroup is one calendar day inside a range report, carrying its raw
	// records. Days with no records produce no group at all.
	DayGroup struct {
		Date         string        `json:"date"` // YYYY-MM-DD, local
		Records      []FluidRecord `json:"records"`
		DailyIn      float64       `json:"dailyIn"`
		DailyOut     float64       `json:"dailyOut"`
		DailyBalance float64       `json:"dailyBalance"`
	}

	// RangeReport aggregates a trailing window of whole calendar days
	// ending today.
	RangeReport struct {
		Period     string     `json:"period"`
		StartDate  string     `json:"startDate"`
		EndDate    string     `json:"endDate"`
		TotalIn    float64    `json:"totalIn"`
		TotalOut   float64    `json:"totalOut"`
		NetBalance float64    `json:"netBalance"`
		AvgBalance float64    `json:"avgBalance"`
		DayGroups  []DayGroup `json:"dayGroups"`
	}
)

// BuildRangeReport selects all records inside the inclusive window of
// exactly days full calendar days ending on now's date, then groups them
// by local calendar day, most recent day first. days must be >= 1.
func BuildRangeReport(records []FluidRecord, days int, now time.Time) RangeReport {
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location()).UnixMilli()
	start := end - int64(days)*dayMillis + 1

	var selected []FluidRecord
	for _, r := range records {
		if r.Timestamp >= start && r.Timestamp <= end {
			selected = append(selected, r)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Timestamp > selected[j].Timestamp
	})

	var totalIn, totalOut float64
	for _, r := range selected {
		switch r.Type {
		case FlowIn:
			totalIn += r.Amount
		case FlowOut:
			totalOut += r.Amount
		}
	}
	net := totalIn - totalOut
	var avg float64
	if days > 0 {
		avg = roundTo(net/float64(days), 0)
	}

	grouped := make(map[string][]FluidRecord)
	for _, r := range selected {
		key := r.Time().Format("2006-01-02")
		grouped[key] = append(grouped[key], r)
	}
	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	// YYYY-MM-DD sorts lexicographically; descending puts the most
	// recent day first.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	groups := make([]DayGroup, 0, len(keys))
	for _, k := range keys {
		recs := grouped[k]
		var dayIn, dayOut float64
		for _, r := range recs {
			switch r.Type {
			case FlowIn:
				dayIn += r.Amount
			case FlowOut:
				dayOut += r.Amount
			}
		}
		groups = append(groups, DayGroup{
			Date:         k,
			Records:      recs,
			DailyIn:      dayIn,
			DailyOut:     dayOut,
			DailyBalance: dayIn - dayOut,
		})
	}

	return RangeReport{
		Period:     fmt.Sprintf("%d Days", days),
		StartDate:  time.UnixMilli(start).Format("2006/01/02"),
		EndDate:    time.UnixMilli(end).Format("2006/01/02"),
		TotalIn:    totalIn,
		TotalOut:   totalOut,
		NetBalance: net,
		AvgBalance: avg,
		DayGroups:  groups,
	}
}

// DayRecords returns the records falling on the same local calendar day as
// ref, sorted most recent first.
func DayRecords(records []FluidRecord, ref int64) []FluidRecord {
	var out []FluidRecord
	for _, r := range records {
		if SameDay(r.Timestamp, ref) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
