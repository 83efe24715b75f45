package stats

import (
	"github.com/shopspring/decimal"

	"github.com/Rapou7/YonkiStats/internal/core"
)

// DefaultHeatmapDays is the standard trailing window the dashboard
// heatmap renders, thirteen full weeks ending today.
const DefaultHeatmapDays = 91

// HeatmapCell is one day cell of the calendar heatmap grid.
type HeatmapCell struct {
	Day     core.Day
	Total   decimal.Decimal
	Entries []core.Entry
	// Intensity is the day's spend normalized to [0,1] against the
	// window maximum. 0 when the window has no spend at all.
	Intensity float64
	// Opacity is the render opacity for non-empty days,
	// 0.3 + 0.7*intensity, so a zero-intensity day with entries is
	// still visible. Empty days carry 0 and render neutral.
	Opacity    float64
	Categories []core.Category
	// Colors pairs each category with its display color, same order
	// as Categories.
	Colors []string
	// Row is the day-of-week (0=Sunday), Col the week column, laid
	// out so each column is one calendar week.
	Row int
	Col int
}

// Heatmap is the full grid for a trailing window.
type Heatmap struct {
	Cells []HeatmapCell
	// Weeks is the number of week columns spanned by the window.
	Weeks int
	// MaxCategories is the largest distinct-category count of any
	// single day; renderers size blend cycles from it.
	MaxCategories int
}

// BuildHeatmap aggregates entries into the calendar heatmap for the
// numDays-day window ending on end. A numDays below 1 falls back to
// DefaultHeatmapDays.
func BuildHeatmap(entries []core.Entry, end core.Day, numDays int) Heatmap {
	if numDays < 1 {
		numDays = DefaultHeatmapDays
	}

	buckets, maxTotal := Bucket(entries, end, numDays)
	startWeekday := int(end.Add(-(numDays - 1)).Weekday())

	hm := Heatmap{
		Cells: make([]HeatmapCell, 0, len(buckets)),
		Weeks: (numDays + startWeekday + 6) / 7,
	}
	for i, b := range buckets {
		cell := HeatmapCell{
			Day:        b.Day,
			Total:      b.Total,
			Entries:    b.Entries,
			Categories: b.Categories,
			Row:        (i + startWeekday) % 7,
			Col:        (i + startWeekday) / 7,
		}
		if maxTotal.IsPositive() {
			cell.Intensity = b.Total.Div(maxTotal).InexactFloat64()
		}
		if len(b.Categories) > 0 {
			cell.Opacity = 0.3 + 0.7*cell.Intensity
			cell.Colors = make([]string, len(b.Categories))
			for j, c := range b.Categories {
				cell.Colors[j] = c.Color()
			}
		}
		if len(b.Categories) > hm.MaxCategories {
			hm.MaxCategories = len(b.Categories)
		}
		hm.Cells = append(hm.Cells, cell)
	}
	return hm
}
