package extraction

import (
	"encoding/json"
	"strings"
	"time"
)

// descriptionLimit caps how much of an unparseable model reply is preserved
// in the Description field for manual correction.
const descriptionLimit = 500

// EventFields is the canonical event record recovered from a flyer. All six
// fields are always present; anything the model could not read is an empty
// string, never a missing key.
type EventFields struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// NonEmptyCount returns how many of the six fields carry a value.
func (f EventFields) NonEmptyCount() int {
	count := 0
	for _, v := range []string{f.Title, f.Date, f.Time, f.EndTime, f.Location, f.Description} {
		if v != "" {
			count++
		}
	}
	return count
}

// ExtractedEvent is the persisted extraction result.
type ExtractedEvent struct {
	ID        string
	Event     EventFields
	CreatedAt time.Time
}

// Normalize turns a raw vision-model reply into an EventFields record. The
// model is asked for bare JSON but regularly wraps it in prose or markdown, so
// the first brace-delimited substring (greedy, first '{' through last '}') is
// tried before the full text. A reply with no decodable JSON at all still
// yields a usable record: every field empty except Description, which keeps
// the first 500 characters of the reply. Normalize never fails.
func Normalize(raw string) EventFields {
	payload := raw
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			payload = raw[start : end+1]
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return EventFields{Description: truncateRunes(raw, descriptionLimit)}
		}
	}

	return EventFields{
		Title:       stringField(decoded, "title"),
		Date:        stringField(decoded, "date"),
		Time:        stringField(decoded, "time"),
		EndTime:     stringField(decoded, "end_time"),
		Location:    stringField(decoded, "location"),
		Description: stringField(decoded, "description"),
	}
}

// stringField reads a key defensively: absent keys and non-string values both
// come back as an empty string. Extra keys in the object are ignored.
func stringField(decoded map[string]any, key string) string {
	if value, ok := decoded[key].(string); ok {
		return value
	}
	return ""
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
