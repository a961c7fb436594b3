package extract

import (
	"strings"
	"testing"

	"github.com/planline-ai/event-pipeline/internal/model"
)

func TestTimesFromChunk(t *testing.T) {
	tests := []struct {
		chunk string
		start *model.TimeOfDay
		stop  *model.TimeOfDay
	}{
		{"встреча 18:00-19:30", &model.TimeOfDay{Hour: 18}, &model.TimeOfDay{Hour: 19, Minute: 30}},
		{"встреча с 10:00 до 12:00", &model.TimeOfDay{Hour: 10}, &model.TimeOfDay{Hour: 12}},
		{"meeting from 9:00 to 10:30", &model.TimeOfDay{Hour: 9}, &model.TimeOfDay{Hour: 10, Minute: 30}},
		{"встреча в 15:00", &model.TimeOfDay{Hour: 15}, nil},
		{"созвон в 19", &model.TimeOfDay{Hour: 19}, nil},
		{"call at 7", &model.TimeOfDay{Hour: 7}, nil},
		// a numeric date must never read as a time
		{"встреча 23.02", nil, nil},
		{"обычный текст", nil, nil},
	}
	for _, tt := range tests {
		start, stop := timesFromChunk(tt.chunk)
		if (start == nil) != (tt.start == nil) || (start != nil && *start != *tt.start) {
			t.Errorf("timesFromChunk(%q) start = %v, want %v", tt.chunk, start, tt.start)
		}
		if (stop == nil) != (tt.stop == nil) || (stop != nil && *stop != *tt.stop) {
			t.Errorf("timesFromChunk(%q) stop = %v, want %v", tt.chunk, stop, tt.stop)
		}
	}
}

func TestRecurrenceFromChunk(t *testing.T) {
	tests := []struct {
		chunk string
		want  model.Recurrence
	}{
		{"ежегодно 1 января", model.RecurrenceAnnual},
		{"каждый год в июне", model.RecurrenceAnnual},
		{"ежемесячно платёж", model.RecurrenceMonthly},
		{"еженедельная планёрка", model.RecurrenceWeekly},
		{"каждый понедельник зал", model.RecurrenceWeekly},
		{"every friday standup", model.RecurrenceWeekly},
		{"ежедневно зарядка", model.RecurrenceDaily},
		{"every day run", model.RecurrenceDaily},
		{"встреча завтра", model.RecurrenceNever},
	}
	for _, tt := range tests {
		if got := recurrenceFromChunk(tt.chunk); got != tt.want {
			t.Errorf("recurrenceFromChunk(%q) = %v, want %v", tt.chunk, got, tt.want)
		}
	}
}

func TestDescriptionFromChunkMarkers(t *testing.T) {
	tests := []struct {
		chunk string
		want  string
	}{
		{"созвон насчёт проекта", "проекта"},
		{"встреча по поводу отчёта", "отчёта"},
		{"call regarding the launch", "the launch"},
	}
	for _, tt := range tests {
		if got := descriptionFromChunk(tt.chunk); got != tt.want {
			t.Errorf("descriptionFromChunk(%q) = %q, want %q", tt.chunk, got, tt.want)
		}
	}
}

func TestDescriptionFromChunkStripsNoise(t *testing.T) {
	got := descriptionFromChunk("добавь встречу завтра в 15:00 с коллегой")
	if strings.Contains(got, "завтра") || strings.Contains(got, "15:00") || strings.Contains(got, "добавь") {
		t.Errorf("description %q still carries noise", got)
	}
	if !strings.Contains(got, "коллегой") {
		t.Errorf("description %q lost the payload", got)
	}
}

func TestDescriptionFromChunkPlaceholder(t *testing.T) {
	if got := descriptionFromChunk("завтра в 15:00"); got != model.DefaultDescription {
		t.Errorf("descriptionFromChunk = %q, want placeholder", got)
	}
}

func TestRulesMeetingTomorrow(t *testing.T) {
	events := Rules("встреча завтра в 15:00 с коллегой", testBase, Options{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if !ev.Date.Equal(date(2025, 3, 11)) {
		t.Errorf("date = %v, want tomorrow", ev.Date)
	}
	if ev.StartTime != (model.TimeOfDay{Hour: 15}) {
		t.Errorf("start = %v, want 15:00", ev.StartTime)
	}
	if ev.Recurrence != model.RecurrenceNever {
		t.Errorf("recurrence = %v, want never", ev.Recurrence)
	}
	if !strings.Contains(ev.Description, "коллегой") {
		t.Errorf("description %q lost the payload", ev.Description)
	}
	if strings.Contains(ev.Description, "завтра") || strings.Contains(ev.Description, "15:00") {
		t.Errorf("description %q still carries date/time text", ev.Description)
	}
}

func TestRulesAnnualEvent(t *testing.T) {
	events := Rules("ежегодно 1 января в 10:00 поздравление", testBase, Options{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Recurrence != model.RecurrenceAnnual {
		t.Errorf("recurrence = %v, want annual", events[0].Recurrence)
	}
	if events[0].StartTime != (model.TimeOfDay{Hour: 10}) {
		t.Errorf("start = %v, want 10:00", events[0].StartTime)
	}
}

func TestRulesMultipleSegments(t *testing.T) {
	events := Rules("завтра в 10:00 планёрка; в пятницу в 18:00 кино", testBase, Options{})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if !events[0].Date.Equal(date(2025, 3, 11)) {
		t.Errorf("first date = %v, want tomorrow", events[0].Date)
	}
	if events[0].Description != "планёрка" {
		t.Errorf("first description = %q, want планёрка", events[0].Description)
	}
	if !events[1].Date.Equal(date(2025, 3, 14)) {
		t.Errorf("second date = %v, want Friday", events[1].Date)
	}
	if !strings.Contains(events[1].Description, "кино") {
		t.Errorf("second description = %q, want кино", events[1].Description)
	}
}

func TestRulesRequiresStartTime(t *testing.T) {
	if events := Rules("встреча завтра с коллегой", testBase, Options{}); len(events) != 0 {
		t.Fatalf("got %d events, want 0 without a time", len(events))
	}
}

func TestRulesStrictDropsDatelessChunks(t *testing.T) {
	if events := Rules("встреча в 15:00", testBase, Options{Strict: true}); len(events) != 0 {
		t.Fatalf("strict: got %d events, want 0", len(events))
	}
	events := Rules("встреча в 15:00", testBase, Options{})
	if len(events) != 1 {
		t.Fatalf("lenient: got %d events, want 1", len(events))
	}
	if !events[0].Date.Equal(date(2025, 3, 11)) {
		t.Errorf("lenient date = %v, want tomorrow default", events[0].Date)
	}
}
