// Package report shapes a range report into the document model consumed by
// the PDF exporter. Shaping is independent of fonts or rendering so it can
// be tested without any network or PDF dependency.
package report

import (
	"fmt"
	"strconv"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/core"
)

type (
	// Document is the exporter input contract: a range summary plus one
	// detail section per day.
	Document struct {
		Period     string
		StartDate  string
		EndDate    string
		TotalIn    float64
		TotalOut   float64
		NetBalance float64
		AvgBalance float64
		Days       []DaySection
	}

	// DaySection carries a day header summary and its detail rows, each row
	// being the string tuple [time, type, item, amount, note].
	DaySection struct {
		Date    string
		Summary string
		Rows    [][]string
	}
)

// CategoryResolver maps a category id to display metadata; unresolved ids
// are expected to degrade to a placeholder, never to fail.
type CategoryResolver func(id string) core.Category

// BuildDocument flattens a range report into the document model.
func BuildDocument(r core.RangeReport, resolve CategoryResolver) Document {
	doc := Document{
		Period:     r.Period,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		TotalIn:    r.TotalIn,
		TotalOut:   r.TotalOut,
		NetBalance: r.NetBalance,
		AvgBalance: r.AvgBalance,
	}

	for _, g := range r.DayGroups {
		section := DaySection{
			Date: g.Date,
			Summary: fmt.Sprintf("In: %s | Out: %s | Balance: %s mL",
				formatAmount(g.DailyIn), formatAmount(g.DailyOut), formatAmount(g.DailyBalance)),
		}
		for _, rec := range g.Records {
			cat := resolve(rec.CategoryID)
			section.Rows = append(section.Rows, []string{
				rec.Time().Format("15:04"),
				string(rec.Type),
				cat.Icon + " " + cat.Label,
				formatAmount(rec.Amount),
				rec.Note,
			})
		}
		doc.Days = append(doc.Days, section)
	}
	return doc
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
