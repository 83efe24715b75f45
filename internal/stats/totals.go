package stats

import (
	"github.com/shopspring/decimal"

	"github.com/Rapou7/YonkiStats/internal/core"
)

// PeriodTotals carries spend sums for the three standard trailing
// windows. Each is an independent filter over the full entry list; the
// values are consistent with the final point of a same-window series.
type PeriodTotals struct {
	Days7  decimal.Decimal
	Days30 decimal.Decimal
	Days90 decimal.Decimal
}

// TrailingTotal sums spend over the days-day window ending today, day
// boundaries inclusive of today and of today-(days-1).
func TrailingTotal(entries []core.Entry, today core.Day, days int) decimal.Decimal {
	start := today.Add(-(days - 1))
	total := decimal.Zero
	for _, e := range entries {
		day, ok := e.Day()
		if !ok {
			continue
		}
		if day.Before(start) || day.After(today) {
			continue
		}
		total = total.Add(e.AmountSpent)
	}
	return total
}

// TotalsFor computes the 7/30/90-day trailing totals.
func TotalsFor(entries []core.Entry, today core.Day) PeriodTotals {
	return PeriodTotals{
		Days7:  TrailingTotal(entries, today, 7),
		Days30: TrailingTotal(entries, today, 30),
		Days90: TrailingTotal(entries, today, 90),
	}
}

// Summary is the dashboard's lifetime overview.
type Summary struct {
	TotalSpent decimal.Decimal
	// TotalGrams counts grams across Weed entries only; for other
	// categories the field is not meaningful.
	TotalGrams      decimal.Decimal
	AvgMonthlySpend decimal.Decimal
	// MonthsTracked is the inclusive month count since the oldest
	// entry, floored at 1.
	MonthsTracked int
}

// Summarize computes lifetime totals and the monthly spend average
// anchored on the oldest entry's calendar month.
func Summarize(entries []core.Entry, today core.Day) Summary {
	s := Summary{
		TotalSpent:    decimal.Zero,
		TotalGrams:    decimal.Zero,
		MonthsTracked: 1,
	}

	var first core.Day
	haveFirst := false
	for _, e := range entries {
		s.TotalSpent = s.TotalSpent.Add(e.AmountSpent)
		if e.Category == core.Weed {
			s.TotalGrams = s.TotalGrams.Add(e.Grams)
		}
		if day, ok := e.Day(); ok {
			if !haveFirst || day.Before(first) {
				first = day
				haveFirst = true
			}
		}
	}
	if haveFirst {
		s.MonthsTracked = today.MonthsSince(first)
	}
	s.AvgMonthlySpend = s.TotalSpent.Div(decimal.NewFromInt(int64(s.MonthsTracked)))
	return s
}
