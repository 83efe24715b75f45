package stats

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Rapou7/YonkiStats/internal/core"
	"github.com/Rapou7/YonkiStats/internal/i18n"
)

// Period is a fixed-length rolling window ending at "now".
type Period string

const (
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
)

var ErrInvalidPeriod = errors.New("invalid period")

// ParsePeriod validates a period string from an untrusted source.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case Period7d, Period30d, Period90d:
		return Period(s), nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Days returns the window length in days.
func (p Period) Days() int {
	switch p {
	case Period30d:
		return 30
	case Period90d:
		return 90
	default:
		return 7
	}
}

// SeriesPoint is one day of the cumulative spend series.
type SeriesPoint struct {
	Day   core.Day
	Value decimal.Decimal
	// Label is the sparse axis label, empty for unlabeled points.
	Label string
}

// Series computes the cumulative running total of spend for the rolling
// window ending today, one point per calendar day. Values are
// non-decreasing since amounts are non-negative. Labels are placed
// sparsely: every point for 7d (short weekday), every 3rd point for 30d
// (day of month), every 15th for 90d (day plus short month).
//
// When no entry falls inside the window the series degenerates to a
// single zero-value point dated today; charting layers treat an empty
// series as a failure, so it is never produced.
func Series(entries []core.Entry, today core.Day, p Period, loc i18n.Locale) []SeriesPoint {
	buckets, maxTotal := Bucket(entries, today, p.Days())
	if maxTotal.IsZero() && !anyEntries(buckets) {
		return []SeriesPoint{{
			Day:   today,
			Value: decimal.Zero,
			Label: loc.DayMonthShort(today),
		}}
	}

	points := make([]SeriesPoint, 0, len(buckets))
	running := decimal.Zero
	for i, b := range buckets {
		running = running.Add(b.Total)
		pt := SeriesPoint{Day: b.Day, Value: running}
		switch p {
		case Period7d:
			pt.Label = loc.WeekdayShort(b.Day)
		case Period30d:
			if i%3 == 0 {
				pt.Label = loc.DayOfMonth(b.Day)
			}
		case Period90d:
			if i%15 == 0 {
				pt.Label = loc.DayMonthShort(b.Day)
			}
		}
		points = append(points, pt)
	}
	return points
}

func anyEntries(buckets []DayBucket) bool {
	for _, b := range buckets {
		if len(b.Entries) > 0 {
			return true
		}
	}
	return false
}
