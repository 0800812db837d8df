package xpath

import (
	"testing"
	"time"
)

func TestRenderDatePatternBasics(t *testing.T) {
	lf := activeLocale()
	tm := time.Date(2023, time.March, 5, 9, 7, 3, 0, time.UTC)

	cases := []struct {
		pattern, want string
	}{
		{"%Y-%m-%d", "2023-03-05"},
		{"%y", "23"},
		{"%n/%e", "3/5"},
		{"%H:%M:%S", "09:07:03"},
		{"%h:%M", "9:07"},
		{"%%", "%"},
		{"%B %Y", "March 2023"},
	}
	for _, c := range cases {
		if got := renderDatePattern(lf, tm, c.pattern); got != c.want {
			t.Errorf("renderDatePattern(%q) = %q, want %q", c.pattern, got, c.want)
		}
	}
}

func TestRenderDatePatternUnknownSpecifierPassesThrough(t *testing.T) {
	lf := activeLocale()
	tm := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := renderDatePattern(lf, tm, "%q"); got != "%q" {
		t.Errorf("unknown specifier %%q should pass through unchanged, got %q", got)
	}
}

func TestWeekdayAndMonthNamesEnglish(t *testing.T) {
	lf := activeLocale()
	sunday := time.Date(2023, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := lf.weekdayName(sunday); got != "Sunday" {
		t.Errorf("weekdayName = %q, want Sunday", got)
	}
	if got := lf.monthName(sunday); got != "March" {
		t.Errorf("monthName = %q, want March", got)
	}
	if got := lf.weekdayNameShort(sunday); got != "Sun" {
		t.Errorf("weekdayNameShort = %q, want Sun", got)
	}
}
