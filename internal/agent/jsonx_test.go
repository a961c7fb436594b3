package agent

import (
	"testing"
)

func TestExtractEventArrayPlain(t *testing.T) {
	raw := `[{"date":"2025-03-15","start_time":"19:00","end_time":null,"description":"Концерт","recurrent":"never"}]`
	rows := extractEventArray(raw)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Date != "2025-03-15" || rows[0].StartTime != "19:00" {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestExtractEventArrayFenced(t *testing.T) {
	raw := "```json\n[{\"date\":\"2025-03-15\",\"start_time\":\"19:00\",\"description\":\"Концерт\",\"recurrent\":\"never\"}]\n```"
	rows := extractEventArray(raw)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

func TestExtractEventArrayWithProse(t *testing.T) {
	raw := `Вот события, которые я нашёл:
[{"date":"2025-03-15","start_time":"19:00","description":"Концерт","recurrent":"never"}]
Надеюсь, это поможет.`
	rows := extractEventArray(raw)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

func TestExtractEventArraySkipsNonObjects(t *testing.T) {
	raw := `[{"date":"2025-03-15","start_time":"19:00","description":"a","recurrent":"never"}, "мусор", 42]`
	rows := extractEventArray(raw)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

func TestExtractEventArrayGarbage(t *testing.T) {
	for _, raw := range []string{"", "ничего не нашёл", "[не json]", "{\"status\":\"ok\"}"} {
		if rows := extractEventArray(raw); len(rows) != 0 {
			t.Errorf("extractEventArray(%q) = %v, want empty", raw, rows)
		}
	}
}

func TestExtractSmartPayloadEvents(t *testing.T) {
	raw := `{"status":"ok","events":[{"date":"2025-03-15","start_time":"19:00","description":"Концерт","recurrent":"never"}]}`
	rows, question, ok := extractSmartPayload(raw)
	if !ok {
		t.Fatal("expected a parsed payload")
	}
	if question != "" {
		t.Errorf("question = %q, want empty", question)
	}
	if len(rows) != 1 || rows[0].Description != "Концерт" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestExtractSmartPayloadClarify(t *testing.T) {
	raw := "Мне нужно уточнить.\n```\n{\"status\":\"clarify\",\"question\":\"Во сколько встреча?\"}\n```"
	rows, question, ok := extractSmartPayload(raw)
	if !ok {
		t.Fatal("expected a parsed payload")
	}
	if len(rows) != 0 {
		t.Errorf("rows = %+v, want none", rows)
	}
	if question != "Во сколько встреча?" {
		t.Errorf("question = %q", question)
	}
}

func TestExtractSmartPayloadProseWrapped(t *testing.T) {
	raw := `Ответ: {"status":"ok","events":[{"date":"2025-03-15","start_time":"19:00","description":"x","recurrent":"never"}]} — готово`
	rows, _, ok := extractSmartPayload(raw)
	if !ok || len(rows) != 1 {
		t.Fatalf("rows = %+v, ok = %v", rows, ok)
	}
}

func TestExtractSmartPayloadGarbage(t *testing.T) {
	for _, raw := range []string{"", "просто текст", "[1,2,3]"} {
		if _, _, ok := extractSmartPayload(raw); ok {
			t.Errorf("extractSmartPayload(%q): expected ok=false", raw)
		}
	}
}
