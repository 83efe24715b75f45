// Package i18n supplies the locale-sensitive date labels used on chart
// axes. The aggregation core itself is locale-independent; only the
// rendered label text varies between the supported languages.
package i18n

import (
	"strconv"
	"time"

	"github.com/Rapou7/YonkiStats/internal/core"
)

// Locale selects a label formatting convention.
type Locale string

const (
	English Locale = "en"
	Spanish Locale = "es"
)

// DefaultLocale is used when a stored or requested language is unknown.
const DefaultLocale = English

var weekdaysShort = map[Locale][7]string{
	English: {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	Spanish: {"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
}

var monthsShort = map[Locale][12]string{
	English: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	Spanish: {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
}

// Parse maps a stored language code onto a supported locale, falling
// back to the default for anything unrecognized.
func Parse(s string) Locale {
	switch Locale(s) {
	case English, Spanish:
		return Locale(s)
	default:
		return DefaultLocale
	}
}

// Valid reports whether the locale is one of the supported languages.
func (l Locale) Valid() bool {
	return l == English || l == Spanish
}

// WeekdayShort returns the abbreviated weekday name, e.g. "Mon" / "lun".
func (l Locale) WeekdayShort(d core.Day) string {
	return l.table(weekdaysShort)[d.Weekday()]
}

// DayOfMonth returns the numeric day of month, e.g. "5".
func (l Locale) DayOfMonth(d core.Day) string {
	return strconv.Itoa(d.DayOfMonth())
}

// DayMonthShort returns day plus abbreviated month following the
// locale's ordering convention, e.g. "Jan 5" / "5 ene".
func (l Locale) DayMonthShort(d core.Day) string {
	month := l.month(d.Month())
	day := strconv.Itoa(d.DayOfMonth())
	if l == Spanish {
		return day + " " + month
	}
	return month + " " + day
}

func (l Locale) month(m time.Month) string {
	months, ok := monthsShort[l]
	if !ok {
		months = monthsShort[DefaultLocale]
	}
	return months[m-1]
}

func (l Locale) table(m map[Locale][7]string) [7]string {
	if t, ok := m[l]; ok {
		return t
	}
	return m[DefaultLocale]
}
