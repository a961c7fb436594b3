package extract

import (
	"strings"
	"testing"

	"github.com/planline-ai/event-pipeline/internal/model"
)

const ticketText = "Билет Партер Ряд 5 Место 12\n15 марта 19:00\nКлуб 16 Тонн\nМосква, Пресненский Вал 6"

func TestTicketExtractsSingleEvent(t *testing.T) {
	events := Ticket(ticketText, testBase)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if !ev.Date.Equal(date(2025, 3, 15)) {
		t.Errorf("date = %v, want 2025-03-15", ev.Date)
	}
	if ev.StartTime != (model.TimeOfDay{Hour: 19}) {
		t.Errorf("start = %v, want 19:00", ev.StartTime)
	}
	if !strings.Contains(ev.Description, "Клуб 16 Тонн") {
		t.Errorf("description %q lost the venue", ev.Description)
	}
	if !strings.Contains(ev.Description, "Москва") {
		t.Errorf("description %q lost the address", ev.Description)
	}
	if ev.Recurrence != model.RecurrenceNever {
		t.Errorf("recurrence = %v, want never", ev.Recurrence)
	}
}

func TestTicketDefaultDescription(t *testing.T) {
	events := Ticket("билет на концерт 20 апреля 20:00", testBase)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Description != "Мероприятие по билету" {
		t.Errorf("description = %q", events[0].Description)
	}
}

func TestTicketNearPastStaysThisYear(t *testing.T) {
	// 20 Feb is 18 days before the 10 Mar base: inside the grace window
	events := Ticket("билет 20 февраля 20:00", testBase)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if !events[0].Date.Equal(date(2025, 2, 20)) {
		t.Errorf("date = %v, want 2025-02-20", events[0].Date)
	}
}

func TestTicketFarPastRollsToNextYear(t *testing.T) {
	events := Ticket("билет 1 января 18:00", testBase)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if !events[0].Date.Equal(date(2026, 1, 1)) {
		t.Errorf("date = %v, want 2026-01-01", events[0].Date)
	}
}

func TestTicketAllOrNothing(t *testing.T) {
	// no ticket vocabulary
	if events := Ticket("концерт 15 марта 19:00", testBase); len(events) != 0 {
		t.Errorf("without markers: got %d events, want 0", len(events))
	}
	// vocabulary without the date/time pattern
	if events := Ticket("билет в партер, ряд 5", testBase); len(events) != 0 {
		t.Errorf("without date/time: got %d events, want 0", len(events))
	}
}
