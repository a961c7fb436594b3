// Package reminder scans stored events once a minute and publishes a
// notification one hour before each occurrence and again at its start.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/planline-ai/event-pipeline/internal/i18n"
	"github.com/planline-ai/event-pipeline/internal/model"
	"github.com/planline-ai/event-pipeline/internal/nats"
	"github.com/planline-ai/event-pipeline/internal/store"
	"github.com/planline-ai/event-pipeline/pkg/logger"
	"github.com/planline-ai/event-pipeline/pkg/metrics"
)

// Notifier dispatches one reminder. *nats.Publisher satisfies it.
type Notifier interface {
	PublishReminder(ctx context.Context, msg nats.ReminderMessage) error
}

const (
	leadTime        = time.Hour
	defaultPageSize = 400
	scanTimeout     = 30 * time.Second
)

// reminderLeads are the offsets before an occurrence at which a reminder
// fires: at start and one hour ahead.
var reminderLeads = [...]time.Duration{0, leadTime}

// Scheduler runs the minute-aligned reminder scan.
type Scheduler struct {
	gateway  store.Gateway
	notifier Notifier
	log      *logger.Logger
	cron     *cron.Cron
	pageSize int

	now func() time.Time
}

// New creates a scheduler over the gateway and notifier.
func New(gateway store.Gateway, notifier Notifier, log *logger.Logger) *Scheduler {
	return &Scheduler{
		gateway:  gateway,
		notifier: notifier,
		log:      log,
		cron:     cron.New(),
		pageSize: defaultPageSize,
		now:      time.Now,
	}
}

// Start schedules the per-minute scan and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", s.tick); err != nil {
		return fmt.Errorf("schedule reminder scan: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron runner; the returned context is done once any running
// scan finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()
	s.Scan(ctx)
}

// Scan pages through all stored events and dispatches reminders for every
// occurrence starting exactly now or exactly leadTime from now. Returns the
// dispatch count.
func (s *Scheduler) Scan(ctx context.Context) int {
	now := s.now()
	sent := 0

	tzCache := make(map[string]*time.Location)
	localeCache := make(map[string]string)

	for offset := 0; ; offset += s.pageSize {
		events, err := s.gateway.ListAllEvents(ctx, s.pageSize, offset)
		if err != nil {
			s.log.Error("reminder scan failed", zap.Error(err))
			return sent
		}
		if len(events) == 0 {
			return sent
		}

		for _, ev := range events {
			loc, ok := tzCache[ev.ChatID]
			if !ok {
				loc = location(s.gateway.UserTimezone(ctx, ev.ChatID))
				tzCache[ev.ChatID] = loc
			}
			lead, due := dueLead(ev, now, loc)
			if !due {
				continue
			}

			locale, ok := localeCache[ev.ChatID]
			if !ok {
				locale = s.gateway.UserLocale(ctx, ev.ChatID)
				localeCache[ev.ChatID] = locale
			}

			msg := nats.ReminderMessage{
				ChatID:  ev.ChatID,
				EventID: ev.ID,
				Text:    reminderText(locale, ev, lead),
				StartAt: now.Add(lead).Truncate(time.Minute),
				Event:   ev,
			}
			if err := s.notifier.PublishReminder(ctx, msg); err != nil {
				s.log.Warn("reminder publish failed",
					zap.Int64("event_id", ev.ID),
					zap.Error(err))
				continue
			}
			metrics.RemindersSent.Inc()
			sent++
		}

		if len(events) < s.pageSize {
			return sent
		}
	}
}

func location(tz string) *time.Location {
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	return time.UTC
}

// dueLead returns the first reminder lead whose target minute an occurrence
// of ev hits, if any.
func dueLead(ev model.StoredEvent, now time.Time, loc *time.Location) (time.Duration, bool) {
	for _, lead := range reminderLeads {
		if dueAt(ev, now, loc, lead) {
			return lead, true
		}
	}
	return 0, false
}

// dueAt reports whether an occurrence of ev starts exactly lead from now,
// at minute precision, in the chat's timezone.
func dueAt(ev model.StoredEvent, now time.Time, loc *time.Location, lead time.Duration) bool {
	target := now.In(loc).Add(lead).Truncate(time.Minute)
	start := ev.StartAt(loc)

	if ev.Recurrence == model.RecurrenceNever || ev.Recurrence == "" {
		return start.Truncate(time.Minute).Equal(target)
	}

	freq, ok := frequency(ev.Recurrence)
	if !ok {
		return false
	}
	r, err := rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: start})
	if err != nil {
		return false
	}
	occ := r.After(target.Add(-time.Second), true)
	return !occ.IsZero() && occ.Truncate(time.Minute).Equal(target)
}

func frequency(rec model.Recurrence) (rrule.Frequency, bool) {
	switch rec {
	case model.RecurrenceDaily:
		return rrule.DAILY, true
	case model.RecurrenceWeekly:
		return rrule.WEEKLY, true
	case model.RecurrenceMonthly:
		return rrule.MONTHLY, true
	case model.RecurrenceAnnual:
		return rrule.YEARLY, true
	default:
		return 0, false
	}
}

// reminderText renders the notification; the "in 1 hour" line is only
// present for the ahead-of-time reminder.
func reminderText(locale string, ev model.StoredEvent, lead time.Duration) string {
	if lead == 0 {
		return fmt.Sprintf("%s\n%s\n%s: %s",
			i18n.T(locale, i18n.KeyReminderHeader),
			ev.Description,
			i18n.T(locale, i18n.KeyPreviewTime),
			ev.StartTime.String())
	}
	return fmt.Sprintf("%s\n%s %s\n%s: %s",
		i18n.T(locale, i18n.KeyReminderHeader),
		i18n.T(locale, i18n.KeyReminderInHour),
		ev.Description,
		i18n.T(locale, i18n.KeyPreviewTime),
		ev.StartTime.String())
}
