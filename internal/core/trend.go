package core

import "time"

// TrendPoint is one day of the weekly trend, rounded to whole milliliters.
type TrendPoint struct {
	Date      string  `json:"date"`      // MM-DD
	Timestamp int64   `json:"timestamp"` // local day start, ms
	Balance   float64 `json:"balance"`
	TotalIn   float64 `json:"totalIn"`
	TotalOut  float64 `json:"totalOut"`
}

// WeeklyTrend always emits exactly 7 points, oldest first, one per local
// calendar day ending on now's date. Days without records are zero-filled,
// unlike range-report groups which are simply absent.
func WeeklyTrend(records []FluidRecord, now time.Time) []TrendPoint {
	const days = 7
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UnixMilli()

	points := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStart := todayStart - int64(i)*dayMillis
		dayEnd := dayStart + dayMillis

		var totalIn, totalOut float64
		for _, r := range records {
			if r.Timestamp < dayStart || r.Timestamp >= dayEnd {
				continue
			}
			switch r.Type {
			case FlowIn:
				totalIn += r.Amount
			case FlowOut:
				totalOut += r.Amount
			}
		}

		points = append(points, TrendPoint{
			Date:      time.UnixMilli(dayStart).Format("01-02"),
			Timestamp: dayStart,
			Balance:   roundTo(totalIn-totalOut, 0),
			TotalIn:   roundTo(totalIn, 0),
			TotalOut:  roundTo(totalOut, 0),
		})
	}
	return points
}
