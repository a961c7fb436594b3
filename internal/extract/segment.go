package extract

import (
	"regexp"
	"strings"
)

var (
	primarySplitRe = regexp.MustCompile(`[\n;]+`)
	conjunctionRe  = regexp.MustCompile(`(?i)\s(?:и|and)\s`)
	// A conjunction splits only when what follows looks like a new date/time
	// clause; RE2 has no lookahead, so the cue is checked separately. Whole
	// word cues need an explicit trailing boundary: "on" must not fire
	// inside "online", "завтра" inside "завтрак".
	dateCueRe = regexp.MustCompile(`(?i)^(?:(?:на|on|next)\s|(?:завтра|сегодня|tomorrow|today)(?:[\s,.:!?]|$)|следующ|\d{1,2}[./]|\d{1,2}\s+[a-zа-яё])`)
)

// Segment splits raw text into independent event-candidate chunks: first on
// newlines and semicolons, then each piece on an "и"/"and" conjunction when
// it is followed by a recognizable date/time cue. Original order is
// preserved.
func Segment(text string) []string {
	var chunks []string
	for _, primary := range primarySplitRe.Split(text, -1) {
		primary = strings.TrimSpace(primary)
		if primary == "" {
			continue
		}
		chunks = append(chunks, splitOnConjunction(primary)...)
	}
	return chunks
}

func splitOnConjunction(chunk string) []string {
	var parts []string
	rest := chunk
	for {
		loc := findSplittableConjunction(rest)
		if loc == nil {
			break
		}
		head := strings.TrimSpace(rest[:loc[0]])
		if head != "" {
			parts = append(parts, head)
		}
		rest = rest[loc[1]:]
	}
	if tail := strings.TrimSpace(rest); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

func findSplittableConjunction(s string) []int {
	offset := 0
	for {
		loc := conjunctionRe.FindStringIndex(s[offset:])
		if loc == nil {
			return nil
		}
		start, end := offset+loc[0], offset+loc[1]
		if dateCueRe.MatchString(s[end:]) {
			return []int{start, end}
		}
		offset = end
	}
}
