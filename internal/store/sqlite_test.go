package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/planline-ai/event-pipeline/internal/model"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveEventRoundTrip(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	stop := model.TimeOfDay{Hour: 21}
	later := model.StoredEvent{
		ChatID:      "chat1",
		Date:        time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:   model.TimeOfDay{Hour: 10},
		Description: "Планёрка",
		Recurrence:  model.RecurrenceWeekly,
	}
	earlier := model.StoredEvent{
		UID:         "uid-1",
		ChatID:      "chat1",
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   model.TimeOfDay{Hour: 19},
		StopTime:    &stop,
		Description: "Концерт",
		Recurrence:  model.RecurrenceNever,
	}

	id1, err := s.SaveEvent(ctx, later)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	id2, err := s.SaveEvent(ctx, earlier)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id1 <= 0 || id2 <= id1 {
		t.Fatalf("ids = %d, %d, want increasing positive identifiers", id1, id2)
	}

	events, err := s.ListEvents(ctx, "chat1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Description != "Концерт" || events[1].Description != "Планёрка" {
		t.Errorf("events not ordered by date: %q, %q", events[0].Description, events[1].Description)
	}

	got := events[0]
	if got.UID != "uid-1" {
		t.Errorf("uid = %q, want uid-1", got.UID)
	}
	if !got.Date.Equal(earlier.Date) {
		t.Errorf("date = %v, want %v", got.Date, earlier.Date)
	}
	if got.StartTime != earlier.StartTime {
		t.Errorf("start = %v, want %v", got.StartTime, earlier.StartTime)
	}
	if got.StopTime == nil || *got.StopTime != stop {
		t.Errorf("stop = %v, want %v", got.StopTime, stop)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
	if events[1].UID == "" {
		t.Error("uid not generated for an event without one")
	}
	if events[1].Recurrence != model.RecurrenceWeekly {
		t.Errorf("recurrence = %v, want weekly", events[1].Recurrence)
	}
	if events[1].StopTime != nil {
		t.Errorf("stop = %v, want nil", events[1].StopTime)
	}

	other, err := s.ListEvents(ctx, "chat2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("got %d events for another chat, want 0", len(other))
	}
}

func TestListAllEventsPaging(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ev := model.StoredEvent{
			ChatID:      "chat1",
			Date:        time.Date(2025, 3, 15+i, 0, 0, 0, 0, time.UTC),
			StartTime:   model.TimeOfDay{Hour: 9},
			Description: "событие",
		}
		if _, err := s.SaveEvent(ctx, ev); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	page, err := s.ListAllEvents(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("first page has %d events, want 2", len(page))
	}
	page, err = s.ListAllEvents(ctx, 2, 2)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("second page has %d events, want 1", len(page))
	}
	page, err = s.ListAllEvents(ctx, 2, 4)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("page past the end has %d events, want 0", len(page))
	}
}

func TestUpsertUserKeepsExistingOnEmpty(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	if err := s.UpsertUser(ctx, "chat1", "Europe/Berlin", "en"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := s.UserTimezone(ctx, "chat1"); got != "Europe/Berlin" {
		t.Errorf("timezone = %q, want Europe/Berlin", got)
	}
	if got := s.UserLocale(ctx, "chat1"); got != "en" {
		t.Errorf("locale = %q, want en", got)
	}

	// empty fields leave the stored values untouched
	if err := s.UpsertUser(ctx, "chat1", "", "ru"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := s.UserTimezone(ctx, "chat1"); got != "Europe/Berlin" {
		t.Errorf("timezone = %q, want the previous value kept", got)
	}
	if got := s.UserLocale(ctx, "chat1"); got != "ru" {
		t.Errorf("locale = %q, want ru", got)
	}

	if err := s.UpsertUser(ctx, "chat1", "Asia/Tbilisi", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if got := s.UserTimezone(ctx, "chat1"); got != "Asia/Tbilisi" {
		t.Errorf("timezone = %q, want Asia/Tbilisi", got)
	}
	if got := s.UserLocale(ctx, "chat1"); got != "ru" {
		t.Errorf("locale = %q, want the previous value kept", got)
	}
}

func TestUserDefaultsWhenUnknown(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	if got := s.UserTimezone(ctx, "nobody"); got != DefaultTimezone {
		t.Errorf("timezone = %q, want the default", got)
	}
	if got := s.UserLocale(ctx, "nobody"); got != DefaultLocale {
		t.Errorf("locale = %q, want the default", got)
	}
}
