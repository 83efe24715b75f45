package i18n

import (
	"testing"
	"time"

	"github.com/Rapou7/YonkiStats/internal/core"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Locale
	}{
		{"en", English},
		{"es", Spanish},
		{"", English},
		{"fr", English},
	}
	for _, tc := range cases {
		if got := Parse(tc.in); got != tc.want {
			t.Fatalf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLabels(t *testing.T) {
	// 2024-01-01 was a Monday.
	d := core.NewDay(2024, time.January, 1)

	if got := English.WeekdayShort(d); got != "Mon" {
		t.Fatalf("en weekday = %q", got)
	}
	if got := Spanish.WeekdayShort(d); got != "lun" {
		t.Fatalf("es weekday = %q", got)
	}
	if got := English.DayOfMonth(d); got != "1" {
		t.Fatalf("day of month = %q", got)
	}
	if got := English.DayMonthShort(d); got != "Jan 1" {
		t.Fatalf("en day+month = %q", got)
	}
	if got := Spanish.DayMonthShort(d); got != "1 ene" {
		t.Fatalf("es day+month = %q", got)
	}
}
