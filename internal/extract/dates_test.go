package extract

import (
	"testing"
	"time"
)

// testBase is Monday, 10 March 2025.
var testBase = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateFromChunkRelativeDays(t *testing.T) {
	tests := []struct {
		chunk string
		want  time.Time
	}{
		{"встреча сегодня вечером", testBase},
		{"встреча завтра в 15:00", date(2025, 3, 11)},
		{"поездка послезавтра", date(2025, 3, 12)},
		{"call me tomorrow", date(2025, 3, 11)},
		{"lunch today", testBase},
		{"trip the day after tomorrow", date(2025, 3, 12)},
	}
	for _, tt := range tests {
		got, ok := dateFromChunk(tt.chunk, testBase)
		if !ok {
			t.Errorf("dateFromChunk(%q): no date", tt.chunk)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("dateFromChunk(%q) = %v, want %v", tt.chunk, got, tt.want)
		}
	}
}

func TestDateFromChunkWeekday(t *testing.T) {
	tests := []struct {
		chunk string
		want  time.Time
	}{
		// base is Monday: the same weekday means next week, never today
		{"встреча в понедельник", date(2025, 3, 17)},
		{"встреча во вторник", date(2025, 3, 11)},
		{"кино в среду", date(2025, 3, 12)},
		{"ужин в пятницу", date(2025, 3, 14)},
		{"on friday evening", date(2025, 3, 14)},
		{"next monday", date(2025, 3, 17)},
	}
	for _, tt := range tests {
		got, ok := dateFromChunk(tt.chunk, testBase)
		if !ok {
			t.Errorf("dateFromChunk(%q): no date", tt.chunk)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("dateFromChunk(%q) = %v, want %v", tt.chunk, got, tt.want)
		}
	}
}

func TestDateFromChunkMonthWord(t *testing.T) {
	tests := []struct {
		chunk string
		want  time.Time
	}{
		{"15 марта в 18:00", date(2025, 3, 15)},
		// past date without a year rolls to next year
		{"5 марта концерт", date(2026, 3, 5)},
		{"1 января праздник", date(2026, 1, 1)},
		// "март" must not resolve to May
		{"8 марта", date(2026, 3, 8)},
		{"1 мая шашлыки", date(2025, 5, 1)},
		{"20 декабря 2025", date(2025, 12, 20)},
		{"march 15 meeting", date(2025, 3, 15)},
		{"15 march meeting", date(2025, 3, 15)},
		{"june 1, 2026 conference", date(2026, 6, 1)},
		{"1 june 2026 conference", date(2026, 6, 1)},
	}
	for _, tt := range tests {
		got, ok := dateFromChunk(tt.chunk, testBase)
		if !ok {
			t.Errorf("dateFromChunk(%q): no date", tt.chunk)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("dateFromChunk(%q) = %v, want %v", tt.chunk, got, tt.want)
		}
	}
}

func TestDateFromChunkNumeric(t *testing.T) {
	tests := []struct {
		chunk string
		want  time.Time
	}{
		{"встреча 15.04", date(2025, 4, 15)},
		{"встреча 15/04", date(2025, 4, 15)},
		// past date without a year rolls forward
		{"встреча 23.02", date(2026, 2, 23)},
		// explicit year never rolls, even in the past
		{"встреча 10.03.24", date(2024, 3, 10)},
		{"встреча 10.03.2024", date(2024, 3, 10)},
	}
	for _, tt := range tests {
		got, ok := dateFromChunk(tt.chunk, testBase)
		if !ok {
			t.Errorf("dateFromChunk(%q): no date", tt.chunk)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("dateFromChunk(%q) = %v, want %v", tt.chunk, got, tt.want)
		}
	}
}

func TestDateFromChunkRejectsImpossibleDates(t *testing.T) {
	for _, chunk := range []string{"встреча 31.02", "31 февраля", "встреча 00.13", "обычный текст"} {
		if _, ok := dateFromChunk(chunk, testBase); ok {
			t.Errorf("dateFromChunk(%q): expected no date", chunk)
		}
	}
}

func TestPyWeekday(t *testing.T) {
	if got := pyWeekday(testBase); got != 0 {
		t.Errorf("pyWeekday(Monday) = %d, want 0", got)
	}
	if got := pyWeekday(date(2025, 3, 16)); got != 6 {
		t.Errorf("pyWeekday(Sunday) = %d, want 6", got)
	}
}

func TestBaseDateFallsBackOnUnknownZone(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	got := BaseDate(now, "Not/AZone")
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("BaseDate = %v, want midnight", got)
	}
}
