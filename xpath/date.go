package xpath

import (
	"math"
	"regexp"
	"strings"
	"time"
)

const msPerDay = 24 * 60 * 60 * 1000

var epoch = time.Unix(0, 0).UTC()

// daysSinceEpoch is the canonical numeric form of a date (spec.md §3):
// days since the Unix epoch, as a float so fractional days (e.g. from a
// date-time with a time-of-day component) are preserved.
func daysSinceEpoch(t time.Time) float64 {
	return float64(t.Sub(epoch).Milliseconds()) / msPerDay
}

func epochPlusDays(days float64) time.Time {
	return epoch.Add(time.Duration(days * msPerDay * float64(time.Millisecond)))
}

// dateStringPattern is the "crude pattern" of spec.md §4.B: a four-digit
// year, a two-digit month and a two-digit day separated by '-' or '/',
// anywhere in the string.
var dateStringPattern = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}`)

var isNumericPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// IsDateString reports whether s should be transparently promoted to a
// date for comparison purposes, per spec.md §4.B: s is not purely
// numeric, parses as a valid instant, and matches the yyyy-mm-dd-ish
// pattern.
func IsDateString(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || isNumericPattern.MatchString(s) {
		return false
	}
	if !dateStringPattern.MatchString(s) {
		return false
	}
	_, ok := ParseDate(s)
	return ok
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
}

var bareDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
}

// ParseDate parses s into an instant. Bare yyyy-mm-dd (or yyyy/mm/dd)
// input is anchored to local midnight, per spec.md §4.B, so that
// comparisons against today() do not drift across a DST transition.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range bareDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Today returns local midnight of the current day.
func Today() time.Time {
	now := time.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// Now returns the current instant.
func Now() time.Time { return time.Now() }

// formatDateISO renders a date value as its string-value, per spec.md
// §4.B: an ISO-8601 date if t falls exactly on midnight in t's own
// location, otherwise
// a full RFC3339 timestamp.
func formatDateISO(t time.Time) string {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	if t.Equal(midnight) {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// decimalDateTime implements decimal-date-time(d): days (to millisecond
// resolution) since the epoch, rounded to 3 decimal places.
func decimalDateTime(t time.Time) float64 {
	return roundTo(daysSinceEpoch(t), 3)
}

// decimalTime implements decimal-time("HH:MM:SS(.sss)?(+|-)HH:MM"): the
// fraction of a local day represented by the time-of-day portion of s,
// rounded to 3 decimal places; NaN if s is malformed or out of range.
func decimalTime(s string) float64 {
	s = strings.TrimSpace(s)
	layouts := []string{"15:04:05.999Z07:00", "15:04:05Z07:00", "15:04:05.999-07:00", "15:04:05-07:00"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
			frac := float64(secs)/86400 + float64(t.Nanosecond())/1e9/86400
			return roundTo(frac, 3)
		}
	}
	return nan()
}

func roundTo(v float64, decimals int) float64 {
	mult := pow10(decimals)
	return roundHalfAwayFromZero(v*mult) / mult
}

func pow10(n int) float64 {
	p := 1.0
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

func nan() float64 { return math.NaN() }
