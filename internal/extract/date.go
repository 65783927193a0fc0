package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Confidence says whether a date came from the text or from the clock
type Confidence string

const (
	DateParsed    Confidence = "parsed"
	DateDefaulted Confidence = "defaulted"
)

// DateResult is the outcome of date normalization. It always carries a
// usable date; Confidence tells callers whether to trust it.
type DateResult struct {
	Time       time.Time
	Confidence Confidence
}

// Defaulted reports whether the date fell back to the current time
func (d DateResult) Defaulted() bool {
	return d.Confidence == DateDefaulted
}

var (
	datePhraseRE  = regexp.MustCompile(`(?i)^(?:date|on)[\s:]*`)
	yearFirstRE   = regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})$`)
	numericDateRE = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2}|\d{4})$`)
)

// NormalizeDate turns a date-like substring into a calendar date. Numeric
// dates are month-first unless the first field can only be a day. Anything
// that does not parse yields the current time with DateDefaulted.
func (e *Extractor) NormalizeDate(raw string) DateResult {
	s := strings.TrimSpace(raw)
	s = datePhraseRE.ReplaceAllString(s, "")

	if t, ok := parseNumericDate(s); ok {
		return DateResult{Time: t, Confidence: DateParsed}
	}
	return DateResult{Time: e.timeSource.Now(), Confidence: DateDefaulted}
}

func parseNumericDate(s string) (time.Time, bool) {
	if m := yearFirstRE.FindStringSubmatch(s); m != nil {
		return calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	m := numericDateRE.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	first, second, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if len(m[3]) == 2 {
		// two-digit years pivot at 50
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	month, day := first, second
	if first > 12 {
		month, day = second, first
	}
	return calendarDate(year, month, day)
}

// calendarDate rejects dates that time.Date would silently roll over
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
