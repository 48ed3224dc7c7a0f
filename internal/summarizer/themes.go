package summarizer

import (
	"regexp"
	"strings"
)

// listMarker matches the numbering or bullet in front of a list item:
// "1.", "2)", "3、", "(4)", "-", "*", "•". ASCII markers must be followed by whitespace,
// so "1.5 million" keeps its number.
var listMarker = regexp.MustCompile(`^\s*(?:\(?\d+\s*(?:[.):](?:\s+|$)|[、：]\s*)|[-*•·](?:\s+|$))`)

// ParseThemeLabel returns the topic of a list item without its marker. A label with no
// marker is returned whole, trimmed.
func ParseThemeLabel(label string) string {
	trimmed := strings.TrimSpace(label)
	if loc := listMarker.FindStringIndex(trimmed); loc != nil {
		if topic := strings.TrimSpace(trimmed[loc[1]:]); topic != "" {
			return topic
		}
	}
	return trimmed
}

// SplitThemeLabels splits a raw model list into its non-blank lines.
func SplitThemeLabels(raw string) []string {
	var labels []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			labels = append(labels, line)
		}
	}
	return labels
}
