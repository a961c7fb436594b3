package pipeline

import (
	"fmt"
	"strings"

	"github.com/planline-ai/event-pipeline/internal/i18n"
	"github.com/planline-ai/event-pipeline/internal/model"
)

var venueMarkers = []string{"| Адрес:", "| Address:"}

// splitVenue separates an address folded into a description back out into
// its own preview line.
func splitVenue(desc string) (string, string) {
	for _, m := range venueMarkers {
		if i := strings.Index(desc, m); i >= 0 {
			return strings.TrimSpace(desc[:i]), strings.TrimSpace(desc[i+len(m):])
		}
	}
	return desc, ""
}

// previewLines renders one human-readable block per candidate for the
// confirmation prompt.
func previewLines(locale string, events []model.ParsedEvent) []string {
	lines := make([]string, 0, len(events))
	for i, ev := range events {
		var b strings.Builder
		fmt.Fprintf(&b, "%s #%d\n", i18n.T(locale, i18n.KeyPreviewEvent), i+1)
		fmt.Fprintf(&b, "%s: %s\n", i18n.T(locale, i18n.KeyPreviewDate), ev.Date.Format("02.01.2006"))

		t := ev.StartTime.String()
		if ev.StopTime != nil {
			t += "–" + ev.StopTime.String()
		}
		fmt.Fprintf(&b, "%s: %s\n", i18n.T(locale, i18n.KeyPreviewTime), t)

		desc, place := splitVenue(ev.Description)
		fmt.Fprintf(&b, "%s: %s", i18n.T(locale, i18n.KeyPreviewDesc), desc)
		if place != "" {
			fmt.Fprintf(&b, "\n%s: %s", i18n.T(locale, i18n.KeyPreviewPlace), place)
		}
		lines = append(lines, b.String())
	}
	return lines
}
