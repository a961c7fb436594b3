package extract

import (
	"regexp"
	"strings"

	"github.com/planline-ai/event-pipeline/internal/model"
)

var (
	digitsOnlyRe   = regexp.MustCompile(`^\d+$`)
	titleTimeRe    = regexp.MustCompile(`\b\d{1,2}[:.]\d{2}\b`)
	titleDateRe    = regexp.MustCompile(`\b\d{1,2}[./]\d{1,2}(?:[./]\d{2,4})?\b`)
	titleStopWords = []string{
		"январ", "феврал", "март", "апрел", "мая", "июн", "июл", "август",
		"сентябр", "октябр", "ноябр", "декабр",
		"today", "tomorrow", "вход", "билет", "место", "ряд", "дата", "время",
		"адрес", "дворец культуры",
	}
)

const (
	minTitleLen = 8
	maxTitleLen = 160
)

// BestTitle derives a fallback event title from raw source text: the longest
// sentence-like line that carries no date/time substrings and no stop words.
// Returns "" when no line qualifies.
func BestTitle(text string) string {
	var candidates []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.Trim(spaceRe.ReplaceAllString(ln, " "), " -—|\t")
		if ln == "" {
			continue
		}
		low := strings.ToLower(ln)
		if titleTimeRe.MatchString(low) || titleDateRe.MatchString(low) {
			continue
		}
		if containsAny(low, titleStopWords) {
			continue
		}
		if len([]rune(ln)) < minTitleLen {
			continue
		}
		candidates = append(candidates, ln)
	}
	if len(candidates) == 0 {
		return ""
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) > len(best) {
			best = c
		}
	}
	if r := []rune(best); len(r) > maxTitleLen {
		best = string(r[:maxTitleLen])
	}
	return best
}

func isPlaceholder(desc string) bool {
	switch strings.ToLower(strings.TrimSpace(desc)) {
	case "событие", "event":
		return true
	}
	return false
}

// Sanitize filters garbage candidates and collapses duplicates. Candidates
// with an empty or purely numeric description are dropped; a bare placeholder
// description is replaced by a better title derived from sourceText when one
// exists. Deduplication is last-write-wins by (date, start, description) key,
// materialized in first-occurrence order; running it on its own output is a
// no-op.
func Sanitize(events []model.ParsedEvent, sourceText string) []model.ParsedEvent {
	fallbackTitle := BestTitle(sourceText)

	byKey := make(map[string]int)
	var out []model.ParsedEvent
	for _, ev := range events {
		desc := strings.TrimSpace(ev.Description)
		if desc == "" || digitsOnlyRe.MatchString(desc) {
			continue
		}
		if isPlaceholder(desc) && fallbackTitle != "" {
			ev.Description = fallbackTitle
		}

		key := ev.Key()
		if i, seen := byKey[key]; seen {
			out[i] = ev
			continue
		}
		byKey[key] = len(out)
		out = append(out, ev)
	}
	return out
}
