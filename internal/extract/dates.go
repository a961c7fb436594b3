// Package extract implements the local extraction strategies: the segmenter,
// the rule-based parser, the ticket/poster heuristic and the
// sanitizer/deduplicator.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/planline-ai/event-pipeline/internal/model"
)

// monthPrefix maps a month-name prefix to a month number. Order matters:
// "март" must be tried before "ма" (May) so March does not resolve to May.
type monthPrefix struct {
	prefix string
	month  time.Month
}

var ruMonths = []monthPrefix{
	{"январ", time.January},
	{"феврал", time.February},
	{"март", time.March},
	{"апрел", time.April},
	{"ма", time.May},
	{"июн", time.June},
	{"июл", time.July},
	{"август", time.August},
	{"сентябр", time.September},
	{"октябр", time.October},
	{"ноябр", time.November},
	{"декабр", time.December},
}

var enMonths = []monthPrefix{
	{"jan", time.January},
	{"feb", time.February},
	{"mar", time.March},
	{"apr", time.April},
	{"may", time.May},
	{"jun", time.June},
	{"jul", time.July},
	{"aug", time.August},
	{"sept", time.September},
	{"sep", time.September},
	{"oct", time.October},
	{"nov", time.November},
	{"dec", time.December},
}

// weekday index is Monday-based: Monday == 0.
var weekdays = []struct {
	word string
	idx  int
}{
	{"понедельник", 0},
	{"вторник", 1},
	{"сред", 2},
	{"четверг", 3},
	{"пятниц", 4},
	{"суббот", 5},
	{"воскрес", 6},
	{"monday", 0},
	{"tuesday", 1},
	{"wednesday", 2},
	{"thursday", 3},
	{"friday", 4},
	{"saturday", 5},
	{"sunday", 6},
}

var (
	// Leading (^|\D) stands in for \b: RE2 word boundaries are ASCII-only
	// and unreliable next to Cyrillic.
	ruMonthDateRe = regexp.MustCompile(`(?:^|\D)(\d{1,2})\s+([а-яё]+)(?:\s+(\d{4}))?`)
	enMonthDayRe  = regexp.MustCompile(`\b([a-z]{3,9})\s+(\d{1,2})(?:,?\s*(\d{4}))?\b`)
	enDayMonthRe  = regexp.MustCompile(`\b(\d{1,2})\s+([a-z]{3,9})(?:,?\s*(\d{4}))?\b`)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})(?:[./](\d{2,4}))?\b`)
)

func monthFromWord(word string, table []monthPrefix) (time.Month, bool) {
	for _, mp := range table {
		if strings.HasPrefix(word, mp.prefix) {
			return mp.month, true
		}
	}
	return 0, false
}

// validDate reports whether the components form a real calendar date
// (time.Date silently normalizes overflow, so check round-trip).
func validDate(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// rollForward applies the no-explicit-year policy: a date already in the past
// relative to base moves to the next year (the New-Year-boundary case).
func rollForward(d, base time.Time, hadYear bool) (time.Time, bool) {
	if !hadYear && d.Before(base) {
		return validDate(d.Year()+1, d.Month(), d.Day())
	}
	return d, true
}

// pyWeekday converts Go's Sunday-first weekday to Monday-first.
func pyWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// dateFromChunk extracts a calendar date from one chunk, trying relative-day
// keywords, weekday names, month-word dates and numeric dates in that order.
// Returns the zero time when nothing matches.
func dateFromChunk(chunk string, base time.Time) (time.Time, bool) {
	low := strings.ToLower(chunk)

	// Relative days, most specific first so "завтра" does not match inside
	// "послезавтра".
	switch {
	case strings.Contains(low, "послезавтра") || strings.Contains(low, "day after tomorrow"):
		return base.AddDate(0, 0, 2), true
	case strings.Contains(low, "завтра") || strings.Contains(low, "tomorrow"):
		return base.AddDate(0, 0, 1), true
	case strings.Contains(low, "сегодня") || strings.Contains(low, "today"):
		return base, true
	}

	for _, wd := range weekdays {
		if !strings.Contains(low, wd.word) {
			continue
		}
		delta := (wd.idx - pyWeekday(base)) % 7
		if delta < 0 {
			delta += 7
		}
		if delta == 0 {
			delta = 7
		}
		return base.AddDate(0, 0, delta), true
	}

	if m := ruMonthDateRe.FindStringSubmatch(low); m != nil {
		if month, ok := monthFromWord(m[2], ruMonths); ok {
			if d, ok := monthWordDate(m[1], m[3], month, base); ok {
				return d, true
			}
		}
	}

	for _, try := range []struct {
		m       []string
		monIdx  int
		dayIdx  int
		yearIdx int
	}{
		{enMonthDayRe.FindStringSubmatch(low), 1, 2, 3},
		{enDayMonthRe.FindStringSubmatch(low), 2, 1, 3},
	} {
		if try.m == nil {
			continue
		}
		month, ok := monthFromWord(try.m[try.monIdx], enMonths)
		if !ok {
			continue
		}
		if d, ok := monthWordDate(try.m[try.dayIdx], try.m[try.yearIdx], month, base); ok {
			return d, true
		}
	}

	m := numericDateRe.FindStringSubmatch(chunk)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	monthNum, _ := strconv.Atoi(m[2])
	yearRaw := m[3]
	year := base.Year()
	if yearRaw != "" {
		y, _ := strconv.Atoi(yearRaw)
		if len(yearRaw) == 2 {
			y += 2000
		}
		year = y
	}
	d, ok := validDate(year, time.Month(monthNum), day)
	if !ok {
		return time.Time{}, false
	}
	return rollForward(d, base, yearRaw != "")
}

func monthWordDate(dayRaw, yearRaw string, month time.Month, base time.Time) (time.Time, bool) {
	day, err := strconv.Atoi(dayRaw)
	if err != nil {
		return time.Time{}, false
	}
	year := base.Year()
	if yearRaw != "" {
		year, _ = strconv.Atoi(yearRaw)
	}
	d, ok := validDate(year, month, day)
	if !ok {
		return time.Time{}, false
	}
	return rollForward(d, base, yearRaw != "")
}

// BaseDate resolves "today" in the user's timezone, falling back to
// Europe/Moscow and then UTC when the zone name is unknown.
func BaseDate(now time.Time, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc, err = time.LoadLocation("Europe/Moscow")
		if err != nil {
			loc = time.UTC
		}
	}
	return model.DateOf(now.In(loc))
}
