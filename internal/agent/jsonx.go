package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/planline-ai/event-pipeline/internal/model"
)

// The external agent answers in free text: the JSON document may be wrapped
// in a fenced code block or surrounded by explanatory prose. Parsing is
// best-effort region extraction followed by strict decoding, never a plain
// parse of the whole output.

var fenceRe = regexp.MustCompile("(?is)^```(?:json)?\\s*|\\s*```$")

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, "```") {
		text = strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
	}
	return text
}

// region cuts the outermost open..close span, mirroring a greedy
// `\[.*\]` / `\{.*\}` match: first opener to last closer.
func region(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, close)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// decodeRows decodes a JSON array of event objects, skipping entries that are
// not objects.
func decodeRows(data []byte) []model.EventPayload {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	rows := make([]model.EventPayload, 0, len(raw))
	for _, item := range raw {
		var row model.EventPayload
		if err := json.Unmarshal(item, &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// extractEventArray locates and decodes the first well-formed JSON array of
// event rows in free-text output.
func extractEventArray(raw string) []model.EventPayload {
	if raw == "" {
		return nil
	}
	text := stripFences(raw)

	if rows := decodeRows([]byte(text)); rows != nil {
		return rows
	}
	if span, ok := region(text, '[', ']'); ok {
		return decodeRows([]byte(span))
	}
	return nil
}

// smartPayload is the clarify-capable response object.
type smartPayload struct {
	Status   string            `json:"status"`
	Events   []json.RawMessage `json:"events"`
	Question string            `json:"question"`
}

// extractSmartPayload locates and decodes the clarify-capable response
// object. It returns the mapped events, a clarification question (when
// status is "clarify"), and whether a well-formed object was found at all.
func extractSmartPayload(raw string) ([]model.EventPayload, string, bool) {
	if raw == "" {
		return nil, "", false
	}
	text := stripFences(raw)

	var payload smartPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		span, ok := region(text, '{', '}')
		if !ok {
			return nil, "", false
		}
		if err := json.Unmarshal([]byte(span), &payload); err != nil {
			return nil, "", false
		}
	}

	if strings.EqualFold(strings.TrimSpace(payload.Status), "clarify") {
		return nil, strings.TrimSpace(payload.Question), true
	}

	rows := make([]model.EventPayload, 0, len(payload.Events))
	for _, item := range payload.Events {
		var row model.EventPayload
		if err := json.Unmarshal(item, &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, "", true
}
