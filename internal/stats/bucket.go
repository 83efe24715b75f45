// Package stats is the aggregation core: pure functions that turn an
// unordered collection of dated entries into calendar-day buckets,
// heatmap cells, running-total series and period totals. Nothing here
// performs I/O or reads the clock; callers pass the window end
// explicitly, which keeps every function deterministic and re-entrant.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/Rapou7/YonkiStats/internal/core"
)

// DayBucket is one calendar day's aggregated view of entries.
type DayBucket struct {
	Day     core.Day
	Total   decimal.Decimal
	Entries []core.Entry
	// Categories holds the distinct categories seen that day, in
	// first-occurrence order. The order is stable for a given input
	// and is what renderers use for multi-category blending.
	Categories []core.Category
}

// Bucket maps entries onto one bucket per calendar day from
// windowEnd-(numDays-1) through windowEnd inclusive, in chronological
// order. Days without entries yield empty buckets, so the result always
// holds exactly numDays elements. Entries outside the window, and
// entries whose date cannot be resolved to a calendar day, are silently
// excluded. The second return value is the maximum bucket total across
// the window, used by consumers for intensity normalization.
func Bucket(entries []core.Entry, windowEnd core.Day, numDays int) ([]DayBucket, decimal.Decimal) {
	if numDays < 1 {
		return nil, decimal.Zero
	}

	type group struct {
		total      decimal.Decimal
		entries    []core.Entry
		categories []core.Category
		seen       map[core.Category]struct{}
	}

	groups := make(map[core.Day]*group)
	for _, e := range entries {
		day, ok := e.Day()
		if !ok {
			continue
		}
		g := groups[day]
		if g == nil {
			g = &group{total: decimal.Zero, seen: make(map[core.Category]struct{})}
			groups[day] = g
		}
		g.total = g.total.Add(e.AmountSpent)
		g.entries = append(g.entries, e)
		if _, dup := g.seen[e.Category]; !dup {
			g.seen[e.Category] = struct{}{}
			g.categories = append(g.categories, e.Category)
		}
	}

	buckets := make([]DayBucket, 0, numDays)
	maxTotal := decimal.Zero
	for i := numDays - 1; i >= 0; i-- {
		day := windowEnd.Add(-i)
		b := DayBucket{Day: day, Total: decimal.Zero}
		if g, ok := groups[day]; ok {
			b.Total = g.total
			b.Entries = g.entries
			b.Categories = g.categories
		}
		if b.Total.GreaterThan(maxTotal) {
			maxTotal = b.Total
		}
		buckets = append(buckets, b)
	}
	return buckets, maxTotal
}
