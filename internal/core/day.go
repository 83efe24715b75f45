package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DayFormat is the ISO-8601 date-only format used for bucket keys and
// persisted day values.
const DayFormat = "2006-01-02"

// Day is a calendar date with no time-of-day component. All bucketing
// and windowing in the aggregation core operates on Days.
type Day struct {
	y int
	m time.Month
	d int
}

// NewDay returns a normalized Day for the given year, month and day.
func NewDay(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// DayOf truncates a time to its calendar day.
func DayOf(t time.Time) Day { return NewDay(t.Date()) }

// time returns the canonical representation of the day, midnight UTC.
func (d Day) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year.
func (d Day) Year() int { return d.y }

// Month returns the month.
func (d Day) Month() time.Month { return d.m }

// DayOfMonth returns the day of the month.
func (d Day) DayOfMonth() int { return d.d }

// Weekday returns the day of the week, 0=Sunday per time.Weekday.
func (d Day) Weekday() time.Weekday { return d.time().Weekday() }

// Add returns the day shifted by i calendar days.
func (d Day) Add(i int) Day { return NewDay(d.y, d.m, d.d+i) }

// Before reports whether d is before x.
func (d Day) Before(x Day) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Day) After(x Day) bool { return d.time().After(x.time()) }

// Sub returns the number of calendar days from x to d.
func (d Day) Sub(x Day) int { return int(d.time().Sub(x.time()) / (24 * time.Hour)) }

// MonthsSince returns the inclusive month count from x to d, so a
// single month yields 1. Never returns less than 1.
func (d Day) MonthsSince(x Day) int {
	months := (d.y-x.y)*12 + int(d.m) - int(x.m) + 1
	if months < 1 {
		return 1
	}
	return months
}

// String formats the day in its standard ISO form.
func (d Day) String() string { return d.time().Format(DayFormat) }

// ParseDay parses a date-only string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q want format %q: %w", s, DayFormat, err)
	}
	return DayOf(t), nil
}

// ParseEntryDay extracts the calendar day from an entry date string,
// which may be a full ISO-8601 date-time or a bare date. ok is false
// when no day can be derived.
func ParseEntryDay(s string) (Day, bool) {
	datePart, _, _ := strings.Cut(s, "T")
	d, err := ParseDay(datePart)
	if err != nil {
		return Day{}, false
	}
	return d, true
}

// MarshalJSON encodes the day as its ISO string.
func (d Day) MarshalJSON() ([]byte, error) {
	s := d.String()
	return json.Marshal(&s)
}

// UnmarshalJSON decodes a day from an ISO string.
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Day)(nil)
var _ json.Unmarshaler = (*Day)(nil)
