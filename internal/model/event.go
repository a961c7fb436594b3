// Package model defines data structures for the event extraction pipeline.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Recurrence is how often an event repeats.
type Recurrence string

const (
	RecurrenceNever   Recurrence = "never"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceAnnual  Recurrence = "annual"
)

// ParseRecurrence maps an extractor-supplied recurrence word (EN or RU) to a
// Recurrence, defaulting to never for anything unrecognized.
func ParseRecurrence(raw string) Recurrence {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "daily", "ежедневно":
		return RecurrenceDaily
	case "weekly", "еженедельно":
		return RecurrenceWeekly
	case "monthly", "ежемесячно":
		return RecurrenceMonthly
	case "annual", "yearly", "ежегодно":
		return RecurrenceAnnual
	default:
		return RecurrenceNever
	}
}

// TimeOfDay is a wall-clock time without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay parses "HH:MM" (or "H:MM").
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// DateOf truncates a time to its calendar date in UTC. Dates in the pipeline
// are zone-free; the user timezone only decides what "today" means.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParsedEvent is a candidate event produced by an extraction strategy,
// before user confirmation. StartTime is always set on a value considered
// parsed; candidates without one are discarded upstream.
type ParsedEvent struct {
	Date        time.Time
	StartTime   TimeOfDay
	StopTime    *TimeOfDay
	Description string
	Recurrence  Recurrence
}

// DefaultDescription is the placeholder used when extraction yields no
// meaningful title.
const DefaultDescription = "Событие"

// Key returns the canonical deduplication key: ISO date, HH:MM start and the
// lower-cased trimmed description.
func (e ParsedEvent) Key() string {
	return e.Date.Format("2006-01-02") + "|" + e.StartTime.String() + "|" +
		strings.ToLower(strings.TrimSpace(e.Description))
}

// EventPayload is the wire/serialized form of a ParsedEvent, used both for
// the delegated-extractor contract and for pending-confirmation storage.
type EventPayload struct {
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Description string  `json:"description"`
	Address     string  `json:"address,omitempty"`
	Recurrent   string  `json:"recurrent"`
}

// Serialize converts candidates to their payload form.
func Serialize(events []ParsedEvent) []EventPayload {
	out := make([]EventPayload, 0, len(events))
	for _, ev := range events {
		p := EventPayload{
			Date:        ev.Date.Format("2006-01-02"),
			StartTime:   ev.StartTime.String(),
			Description: ev.Description,
			Recurrent:   string(ev.Recurrence),
		}
		if ev.StopTime != nil {
			s := ev.StopTime.String()
			p.EndTime = &s
		}
		out = append(out, p)
	}
	return out
}

// Deserialize converts payload rows back into candidates, skipping rows with
// an unparseable date or start time. An address field, when present, is
// folded into the description.
func Deserialize(rows []EventPayload) []ParsedEvent {
	out := make([]ParsedEvent, 0, len(rows))
	for _, row := range rows {
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row.Date), time.UTC)
		if err != nil {
			continue
		}
		st, err := ParseTimeOfDay(row.StartTime)
		if err != nil {
			continue
		}
		ev := ParsedEvent{
			Date:        d,
			StartTime:   st,
			Description: strings.TrimSpace(row.Description),
			Recurrence:  ParseRecurrence(row.Recurrent),
		}
		if ev.Description == "" {
			ev.Description = DefaultDescription
		}
		if addr := strings.TrimSpace(row.Address); addr != "" {
			ev.Description = ev.Description + " | Адрес: " + addr
		}
		if row.EndTime != nil {
			if et, err := ParseTimeOfDay(*row.EndTime); err == nil {
				ev.StopTime = &et
			}
		}
		out = append(out, ev)
	}
	return out
}

// StoredEvent is a persisted, confirmed event.
type StoredEvent struct {
	ID          int64      `json:"id"`
	UID         string     `json:"uid"`
	ChatID      string     `json:"chat_id"`
	Date        time.Time  `json:"date"`
	StartTime   TimeOfDay  `json:"start_time"`
	StopTime    *TimeOfDay `json:"stop_time,omitempty"`
	Description string     `json:"description"`
	Recurrence  Recurrence `json:"recurrence"`
	CreatedAt   time.Time  `json:"created_at"`
}

// StartAt resolves the event's first occurrence in the given location.
func (e StoredEvent) StartAt(loc *time.Location) time.Time {
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(),
		e.StartTime.Hour, e.StartTime.Minute, 0, 0, loc)
}
