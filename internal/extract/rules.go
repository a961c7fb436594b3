package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/planline-ai/event-pipeline/internal/model"
)

var (
	timeRangeRe  = regexp.MustCompile(`([01]?\d|2[0-3])[:.]([0-5]\d)\s*[-–—]\s*([01]?\d|2[0-3])[:.]([0-5]\d)`)
	timeFromToRe = regexp.MustCompile(`(?:с|from)\s*([01]?\d|2[0-3])[:.]([0-5]\d)\s*(?:до|to|till|until)\s*([01]?\d|2[0-3])[:.]([0-5]\d)`)
	// Single times accept only the colon form so a numeric date like 23.02
	// is never mistaken for 23:02.
	timeSingleRe   = regexp.MustCompile(`(?:(?:^|\s)(?:в|at)\s*)?([01]?\d|2[0-3]):([0-5]\d)\b`)
	timeBareHourRe = regexp.MustCompile(`(?:^|\s)(?:в|at)\s*([01]?\d|2[0-3])\b`)
)

func tod(hRaw, mRaw string) model.TimeOfDay {
	h, _ := strconv.Atoi(hRaw)
	m, _ := strconv.Atoi(mRaw)
	return model.TimeOfDay{Hour: h, Minute: m}
}

// timesFromChunk extracts a start time and an optional stop time: an explicit
// range first, then "from X to Y", then a single HH:MM, then a bare "at H".
func timesFromChunk(chunk string) (*model.TimeOfDay, *model.TimeOfDay) {
	low := strings.ToLower(chunk)

	if m := timeRangeRe.FindStringSubmatch(low); m != nil {
		start, stop := tod(m[1], m[2]), tod(m[3], m[4])
		return &start, &stop
	}
	if m := timeFromToRe.FindStringSubmatch(low); m != nil {
		start, stop := tod(m[1], m[2]), tod(m[3], m[4])
		return &start, &stop
	}
	if m := timeSingleRe.FindStringSubmatch(low); m != nil {
		start := tod(m[1], m[2])
		return &start, nil
	}
	if m := timeBareHourRe.FindStringSubmatch(low); m != nil {
		start := tod(m[1], "0")
		return &start, nil
	}
	return nil, nil
}

var (
	annualMarkers = []string{
		"ежегод", "каждый год", "раз в год", "годовщин", "annual", "yearly", "every year", "once a year",
	}
	monthlyMarkers = []string{
		"ежемесяч", "каждый месяц", "раз в месяц", "monthly", "every month", "once a month",
	}
	weeklyMarkers = []string{
		"еженед", "каждую неделю", "каждой неделе", "раз в неделю", "weekly", "every week", "once a week",
	}
	dailyMarkers = []string{
		"ежеднев", "каждый день", "каждыйдень", "раз в день", "daily", "every day", "once a day",
	}

	weekdayWordsRu = []string{"понедельник", "вторник", "сред", "четверг", "пятниц", "суббот", "воскресень"}
	weekdayWordsEn = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// recurrenceFromChunk checks recurrence keyword sets, most specific first,
// plus the "every <weekday>" composite which implies weekly.
func recurrenceFromChunk(chunk string) model.Recurrence {
	low := strings.ToLower(chunk)

	switch {
	case containsAny(low, annualMarkers):
		return model.RecurrenceAnnual
	case containsAny(low, monthlyMarkers):
		return model.RecurrenceMonthly
	case containsAny(low, weeklyMarkers):
		return model.RecurrenceWeekly
	case containsAny(low, dailyMarkers):
		return model.RecurrenceDaily
	}

	if (strings.Contains(low, "каждый") && containsAny(low, weekdayWordsRu)) ||
		(strings.Contains(low, "every") && containsAny(low, weekdayWordsEn)) {
		return model.RecurrenceWeekly
	}
	return model.RecurrenceNever
}

var descriptionMarkers = []string{"по поводу", "насчёт", "насчет", "на тему", "regarding ", "about ", "on the topic of"}

var (
	actionVerbRe = regexp.MustCompile(`(?i)(^|[\s.,!?:;—–-])(создай|создать|добавь|добавить|запланируй|поставь|create|add|schedule|set)($|[\s.,!?:;—–-])`)
	recurWordRe  = regexp.MustCompile(`(?i)(^|[\s.,!?:;—–-])(ежегодн[а-яё]*|ежемесячн[а-яё]*|еженедельн[а-яё]*|ежедневн[а-яё]*|каждый\s+год|каждый\s+месяц|каждую\s+неделю|каждый\s+день|annual|yearly|monthly|weekly|daily|every\s+year|every\s+month|every\s+week|every\s+day)($|[\s.,!?:;—–-])`)
	relDayRe     = regexp.MustCompile(`(?i)(^|[\s.,!?:;—–-])(послезавтра|сегодня|завтра|day after tomorrow|today|tomorrow|next)($|[\s.,!?:;—–-])`)
	descTimeRe   = regexp.MustCompile(`(?:(?:^|\s)(?:в|at)\s*)?([01]?\d|2[0-3])[:.]([0-5]\d)\b`)
	descDateRe   = regexp.MustCompile(`\b\d{1,2}[./]\d{1,2}(?:[./]\d{2,4})?\b`)
	fillerRe     = regexp.MustCompile(`(?i)\b(on|in)\b`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

func stripAll(re *regexp.Regexp, s string) string {
	// Replacements keep the boundary separator so adjacent words never fuse;
	// run twice because boundary groups of back-to-back matches overlap.
	s = re.ReplaceAllString(s, "$1$3")
	return re.ReplaceAllString(s, "$1$3")
}

// descriptionFromChunk derives the event description: text after an
// explanatory marker when present, otherwise the chunk with action verbs,
// recurrence phrases, relative-day words and the matched time/date substrings
// removed. An empty result becomes the generic placeholder.
func descriptionFromChunk(chunk string) string {
	text := strings.TrimSpace(spaceRe.ReplaceAllString(chunk, " "))
	low := strings.ToLower(text)

	for _, marker := range descriptionMarkers {
		if pos := strings.Index(low, marker); pos >= 0 {
			value := strings.Trim(text[pos+len(marker):], " .,!?:;-")
			if value != "" {
				return value
			}
		}
	}

	text = stripAll(actionVerbRe, text)
	text = stripAll(recurWordRe, text)
	text = stripAll(relDayRe, text)
	text = descTimeRe.ReplaceAllString(text, "")
	text = descDateRe.ReplaceAllString(text, "")
	text = fillerRe.ReplaceAllString(text, "")
	text = strings.Trim(spaceRe.ReplaceAllString(text, " "), " .,!?:;-")

	if text == "" {
		return model.DefaultDescription
	}
	return text
}

// Options control rule extraction.
type Options struct {
	// Strict suppresses the date-defaults-to-tomorrow rule: chunks with a
	// time but no explicit date are dropped instead. Used when re-deriving
	// candidates during disambiguation.
	Strict bool
}

// Rules runs the rule-based extractor over the whole text: segments it,
// extracts the four facets per chunk, and keeps chunks with a usable start
// time. Base is the user's current date.
func Rules(text string, base time.Time, opts Options) []model.ParsedEvent {
	var parsed []model.ParsedEvent

	for _, chunk := range Segment(text) {
		start, stop := timesFromChunk(chunk)
		if start == nil {
			continue
		}

		date, hasDate := dateFromChunk(chunk, base)
		if !hasDate {
			if opts.Strict {
				continue
			}
			date = base.AddDate(0, 0, 1)
		}

		parsed = append(parsed, model.ParsedEvent{
			Date:        date,
			StartTime:   *start,
			StopTime:    stop,
			Description: descriptionFromChunk(chunk),
			Recurrence:  recurrenceFromChunk(chunk),
		})
	}
	return parsed
}
