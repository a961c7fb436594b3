// Package ics renders a chat's stored events as an iCalendar feed.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/planline-ai/event-pipeline/internal/model"
)

const defaultDuration = time.Hour

// Export renders events as a VCALENDAR document. Times are materialized in
// the chat's timezone; recurring events carry an RRULE.
func Export(events []model.StoredEvent, tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//planline//event-pipeline//EN")

	for _, ev := range events {
		start := ev.StartAt(loc)
		end := start.Add(defaultDuration)
		if ev.StopTime != nil {
			end = time.Date(ev.Date.Year(), ev.Date.Month(), ev.Date.Day(),
				ev.StopTime.Hour, ev.StopTime.Minute, 0, 0, loc)
			if !end.After(start) {
				end = start.Add(defaultDuration)
			}
		}

		uid := ev.UID
		if uid == "" {
			uid = fmt.Sprintf("event-%d@planline", ev.ID)
		}

		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(ev.CreatedAt)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(ev.Description)

		if rule, ok := recurrenceRule(ev.Recurrence, start); ok {
			ve.AddRrule(rule)
		}
	}

	return cal.Serialize(), nil
}

func recurrenceRule(rec model.Recurrence, start time.Time) (string, bool) {
	var freq rrule.Frequency
	switch rec {
	case model.RecurrenceDaily:
		freq = rrule.DAILY
	case model.RecurrenceWeekly:
		freq = rrule.WEEKLY
	case model.RecurrenceMonthly:
		freq = rrule.MONTHLY
	case model.RecurrenceAnnual:
		freq = rrule.YEARLY
	default:
		return "", false
	}
	r, err := rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: start})
	if err != nil {
		return "", false
	}
	return r.String(), true
}
