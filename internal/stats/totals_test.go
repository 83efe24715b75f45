package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rapou7/YonkiStats/internal/core"
)

func TestTrailingTotalWindows(t *testing.T) {
	today := core.NewDay(2024, time.March, 31)
	entries := []core.Entry{
		entry("2024-03-31", 1, core.Food),  // today
		entry("2024-03-25", 2, core.Food),  // inside 7d
		entry("2024-03-24", 4, core.Food),  // outside 7d, inside 30d
		entry("2024-03-02", 8, core.Food),  // inside 30d (boundary)
		entry("2024-03-01", 16, core.Food), // outside 30d, inside 90d
		entry("2024-01-02", 32, core.Food), // inside 90d (boundary)
		entry("2024-01-01", 64, core.Food), // outside 90d
		entry("2024-04-15", 128, core.Food), // future-dated, outside every window
	}

	totals := TotalsFor(entries, today)
	if !totals.Days7.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("7d = %s, want 3", totals.Days7)
	}
	if !totals.Days30.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("30d = %s, want 15", totals.Days30)
	}
	if !totals.Days90.Equal(decimal.NewFromInt(63)) {
		t.Fatalf("90d = %s, want 63", totals.Days90)
	}
}

func TestSummarizeMonthlyAverage(t *testing.T) {
	// One entry in month 1, one in month 3, "now" in month 3:
	// three inclusive months tracked.
	entries := []core.Entry{
		entry("2024-01-15", 30, core.Alcohol),
		entry("2024-03-10", 60, core.Food),
	}
	today := core.NewDay(2024, time.March, 20)

	s := Summarize(entries, today)
	if s.MonthsTracked != 3 {
		t.Fatalf("months = %d, want 3", s.MonthsTracked)
	}
	if !s.TotalSpent.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("total = %s, want 90", s.TotalSpent)
	}
	if !s.AvgMonthlySpend.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("avg = %s, want 30", s.AvgMonthlySpend)
	}
}

func TestSummarizeSingleMonthFloorsDivisor(t *testing.T) {
	entries := []core.Entry{entry("2024-03-05", 50, core.Food)}
	s := Summarize(entries, core.NewDay(2024, time.March, 20))
	if s.MonthsTracked != 1 {
		t.Fatalf("months = %d, want 1", s.MonthsTracked)
	}
	if !s.AvgMonthlySpend.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("avg = %s, want 50", s.AvgMonthlySpend)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, core.NewDay(2024, time.March, 20))
	if !s.TotalSpent.IsZero() || !s.TotalGrams.IsZero() || !s.AvgMonthlySpend.IsZero() {
		t.Fatalf("expected zero summary, got %+v", s)
	}
	if s.MonthsTracked != 1 {
		t.Fatalf("months = %d, want 1", s.MonthsTracked)
	}
}

func TestSummarizeGramsCountWeedOnly(t *testing.T) {
	weed := entry("2024-03-01", 10, core.Weed)
	weed.Grams = decimal.NewFromFloat(3.5)
	food := entry("2024-03-02", 5, core.Food)
	food.Grams = decimal.NewFromInt(250) // grams on non-Weed entries are ignored

	s := Summarize([]core.Entry{weed, food}, core.NewDay(2024, time.March, 20))
	if !s.TotalGrams.Equal(decimal.NewFromFloat(3.5)) {
		t.Fatalf("grams = %s, want 3.5", s.TotalGrams)
	}
}
