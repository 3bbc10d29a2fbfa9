// Package core holds the domain model and the pure aggregation logic:
// balance computation, range reports, the weekly trend and limit status.
// Nothing in this package touches storage or the clock directly; callers
// pass records and reference times in.
package core

import "github.com/shopspring/decimal"

// Aggregate partitions records by flow type and sums amounts per partition.
// It is pure and ordering-free; an empty input yields an all-zero report.
// Amounts are summed as given — validation happens at the entry boundary,
// not here.
func Aggregate(records []FluidRecord) BalanceReport {
	var totalIn, totalOut float64
	for _, r := range records {
		switch r.Type {
		case FlowIn:
			totalIn += r.Amount
		case FlowOut:
			totalOut += r.Amount
		}
	}
	return BalanceReport{
		TotalIn:  totalIn,
		TotalOut: totalOut,
		Balance:  roundTo(totalIn-totalOut, 2),
		Unit:     Unit,
	}
}

// roundTo rounds half away from zero at the given number of decimals.
// Raw totals are additive; rounding is applied only at report level.
func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
