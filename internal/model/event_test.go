package model

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"15:00", TimeOfDay{Hour: 15}, false},
		{"9:05", TimeOfDay{Hour: 9, Minute: 5}, false},
		{" 23:59 ", TimeOfDay{Hour: 23, Minute: 59}, false},
		{"24:00", TimeOfDay{}, true},
		{"12:60", TimeOfDay{}, true},
		{"1200", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got := (TimeOfDay{Hour: 9, Minute: 5}).String(); got != "09:05" {
		t.Errorf("String = %q, want 09:05", got)
	}
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		in   string
		want Recurrence
	}{
		{"never", RecurrenceNever},
		{"daily", RecurrenceDaily},
		{"ЕЖЕНЕДЕЛЬНО", RecurrenceWeekly},
		{"monthly", RecurrenceMonthly},
		{"yearly", RecurrenceAnnual},
		{"annual", RecurrenceAnnual},
		{"ежегодно", RecurrenceAnnual},
		{"что-то", RecurrenceNever},
		{"", RecurrenceNever},
	}
	for _, tt := range tests {
		if got := ParseRecurrence(tt.in); got != tt.want {
			t.Errorf("ParseRecurrence(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyNormalizesDescription(t *testing.T) {
	d := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	a := ParsedEvent{Date: d, StartTime: TimeOfDay{Hour: 19}, Description: "Концерт "}
	b := ParsedEvent{Date: d, StartTime: TimeOfDay{Hour: 19}, Description: "  концерт"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	stop := TimeOfDay{Hour: 20, Minute: 30}
	in := []ParsedEvent{{
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   TimeOfDay{Hour: 19},
		StopTime:    &stop,
		Description: "Концерт",
		Recurrence:  RecurrenceAnnual,
	}}

	out := Deserialize(Serialize(in))
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}
	if !out[0].Date.Equal(in[0].Date) || out[0].StartTime != in[0].StartTime {
		t.Errorf("round trip changed date/time: %+v", out[0])
	}
	if out[0].StopTime == nil || *out[0].StopTime != stop {
		t.Errorf("round trip lost stop time: %+v", out[0])
	}
	if out[0].Description != "Концерт" || out[0].Recurrence != RecurrenceAnnual {
		t.Errorf("round trip changed payload: %+v", out[0])
	}
}

func TestDeserializeSkipsBadRows(t *testing.T) {
	rows := []EventPayload{
		{Date: "не дата", StartTime: "19:00", Description: "x"},
		{Date: "2025-03-15", StartTime: "25:00", Description: "y"},
		{Date: "2025-03-15", StartTime: "19:00", Description: "ок", Recurrent: "never"},
	}
	out := Deserialize(rows)
	if len(out) != 1 || out[0].Description != "ок" {
		t.Fatalf("Deserialize = %+v, want only the valid row", out)
	}
}

func TestDeserializeFoldsAddress(t *testing.T) {
	rows := []EventPayload{{
		Date:        "2025-03-15",
		StartTime:   "19:00",
		Description: "Концерт",
		Address:     "Москва, Пресненский Вал 6",
	}}
	out := Deserialize(rows)
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}
	want := "Концерт | Адрес: Москва, Пресненский Вал 6"
	if out[0].Description != want {
		t.Errorf("description = %q, want %q", out[0].Description, want)
	}
}

func TestDeserializeDefaultsEmptyDescription(t *testing.T) {
	out := Deserialize([]EventPayload{{Date: "2025-03-15", StartTime: "10:00"}})
	if len(out) != 1 || out[0].Description != DefaultDescription {
		t.Fatalf("Deserialize = %+v, want placeholder description", out)
	}
}

func TestStoredEventStartAt(t *testing.T) {
	ev := StoredEvent{
		Date:      time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime: TimeOfDay{Hour: 19, Minute: 30},
	}
	got := ev.StartAt(time.UTC)
	want := time.Date(2025, 3, 15, 19, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartAt = %v, want %v", got, want)
	}
}
