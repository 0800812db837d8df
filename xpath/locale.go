package xpath

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// localeFormatter renders month and weekday names for format-date and
// format-date-time (spec.md §4.F). It holds the active language.Tag and a
// message.Printer built for it; the printer is not used for rendering, and
// names come out in English whatever the tag.
type localeFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

var (
	localeMu  sync.RWMutex
	localeTag = language.English
)

// SetLocale sets the process-wide locale used by format-date and
// format-date-time; there is no per-call override. spec.md §4.F
// describes locale as coming from "a process-wide hook"; this is that
// hook, made explicit instead of implicit global state.
func SetLocale(tag language.Tag) {
	localeMu.Lock()
	defer localeMu.Unlock()
	localeTag = tag
}

// activeLocale snapshots the current process-wide locale into a
// localeFormatter for one evaluation's evalCtx.
func activeLocale() *localeFormatter {
	localeMu.RLock()
	tag := localeTag
	localeMu.RUnlock()
	return &localeFormatter{tag: tag, printer: message.NewPrinter(tag)}
}

var monthNamesEnglish = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var weekdayNamesEnglish = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// monthName returns the full English month name of t. English locales use
// the table above; any other locale uses time.Month's String, which is
// also English, so the name does not vary with the locale.
func (lf *localeFormatter) monthName(t time.Time) string {
	if lf == nil || lf.tag == language.English {
		return monthNamesEnglish[int(t.Month())-1]
	}
	return t.Month().String()
}

func (lf *localeFormatter) monthNameShort(t time.Time) string {
	name := lf.monthName(t)
	if len(name) <= 3 {
		return name
	}
	return name[:3]
}

func (lf *localeFormatter) weekdayName(t time.Time) string {
	if lf == nil || lf.tag == language.English {
		return weekdayNamesEnglish[int(t.Weekday())]
	}
	return t.Weekday().String()
}

func (lf *localeFormatter) weekdayNameShort(t time.Time) string {
	name := lf.weekdayName(t)
	if len(name) <= 3 {
		return name
	}
	return name[:3]
}

// languageTagString returns the BCP 47 tag string for lf's locale. It is
// used by matchesLanguage; lang() reads xml:lang and does not call it.
func (lf *localeFormatter) languageTagString() string {
	if lf == nil {
		return language.English.String()
	}
	return lf.tag.String()
}

// matchesLanguage reports whether lf's locale matches the (case-folded,
// prefix-aware per XML's xml:lang semantics) requested tag string.
func (lf *localeFormatter) matchesLanguage(requested string) bool {
	got := strings.ToLower(lf.languageTagString())
	want := strings.ToLower(strings.TrimSpace(requested))
	if want == "" {
		return false
	}
	return got == want || strings.HasPrefix(got, want+"-")
}

// renderDatePattern implements format-date()/format-date-time()'s ODK
// pattern language, a strftime-derived subset: %Y four-digit year, %y
// two-digit year, %m zero-padded month, %n unpadded month, %b/%B month
// name, %d zero-padded day, %e unpadded day, %H zero-padded 24h hour, %h
// unpadded 24h hour, %M minute, %S second, %3 millisecond, %a weekday
// name, %% a literal percent.
func renderDatePattern(lf *localeFormatter, t time.Time, pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case 'Y':
			b.WriteString(t.Format("2006"))
		case 'y':
			b.WriteString(t.Format("06"))
		case 'm':
			b.WriteString(t.Format("01"))
		case 'n':
			b.WriteString(strings.TrimPrefix(t.Format("01"), "0"))
		case 'b', 'B':
			b.WriteString(lf.monthName(t))
		case 'd':
			b.WriteString(t.Format("02"))
		case 'e':
			b.WriteString(strings.TrimPrefix(t.Format("02"), "0"))
		case 'H':
			b.WriteString(t.Format("15"))
		case 'h':
			b.WriteString(strings.TrimPrefix(t.Format("15"), "0"))
		case 'M':
			b.WriteString(t.Format("04"))
		case 'S':
			b.WriteString(t.Format("05"))
		case '3':
			b.WriteString(t.Format(".000")[1:])
		case 'a':
			b.WriteString(lf.weekdayName(t))
		case '%':
			b.WriteRune('%')
		default:
			b.WriteRune('%')
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}
