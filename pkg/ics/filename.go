package ics

import (
	"regexp"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\w\s-]`)

// SafeFilename derives a download filename stem from an event title: non-word
// characters are stripped, the result is truncated to 30 characters, and
// spaces become underscores. A title that sanitizes to nothing yields "event".
func SafeFilename(title string) string {
	cleaned := nonWordPattern.ReplaceAllString(title, "")

	runes := []rune(cleaned)
	if len(runes) > 30 {
		cleaned = string(runes[:30])
	}

	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), " ", "_")
	if cleaned == "" {
		return "event"
	}
	return cleaned
}
