package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/planline-ai/event-pipeline/internal/model"
)

var ticketMarkers = []string{"билет", "партер", "ряд", "место", "клуб", "ticket", "seat", "row"}

var (
	ticketDateTimeRe = regexp.MustCompile(`(?:^|\D)(\d{1,2})\s+(январ[яь]|феврал[яь]|марта?|апрел[яь]|мая|июн[яь]|июл[яь]|августа?|сентябр[яь]|октябр[яь]|ноябр[яь]|декабр[яь])\s+([01]?\d|2[0-3])[:.]([0-5]\d)`)
	ticketVenueRe    = regexp.MustCompile(`(?i)(клуб[^;\n]+)`)
	ticketAddressRe  = regexp.MustCompile(`(?i)(москва[^\n]+)`)
)

// ticketNearPastWindow is how far in the past a ticket date may be before it
// is rolled to next year: tickets printed for a recent date must not jump a
// year ahead.
const ticketNearPastWindow = 30 * 24 * time.Hour

// Ticket is the poster/ticket heuristic. It runs only when the text carries
// ticket vocabulary and requires a "<day> <RU month> <HH:MM>" pattern; it
// never partially matches. At most one candidate is produced, with venue and
// address folded into the description.
func Ticket(text string, base time.Time) []model.ParsedEvent {
	low := strings.ToLower(text)
	if !containsAny(low, ticketMarkers) {
		return nil
	}

	m := ticketDateTimeRe.FindStringSubmatch(low)
	if m == nil {
		return nil
	}

	day, _ := strconv.Atoi(m[1])
	month, ok := monthFromWord(m[2], ruMonths)
	if !ok {
		return nil
	}
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])

	date, ok := validDate(base.Year(), month, day)
	if !ok {
		return nil
	}
	if date.Before(base.Add(-ticketNearPastWindow)) {
		date, ok = validDate(base.Year()+1, month, day)
		if !ok {
			return nil
		}
	}

	desc := "Мероприятие по билету"
	if mv := ticketVenueRe.FindStringSubmatch(text); mv != nil {
		desc = strings.TrimSpace(mv[1])
	}
	if ma := ticketAddressRe.FindStringSubmatch(text); ma != nil {
		desc = desc + " | " + strings.TrimSpace(ma[1])
	}

	return []model.ParsedEvent{{
		Date:        date,
		StartTime:   model.TimeOfDay{Hour: hour, Minute: minute},
		Description: desc,
		Recurrence:  model.RecurrenceNever,
	}}
}
