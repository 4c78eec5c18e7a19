package ics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eventsnap/eventsnap/internal/utils"
	"github.com/google/uuid"
)

// ErrInvalidEventData marks failures caused by the submitted event data.
// Handlers map it to a 400 response.
var ErrInvalidEventData = errors.New("invalid event data")

// dateLayouts are tried in order; the first match wins. Matches the forms the
// vision model and users actually produce. Non-padded month/day reference
// values accept both "03/05/2025" and "3/5/2025".
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"2/1/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"1-2-2006",
}

// timeLayouts are tried in order against the uppercased input.
var timeLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"15:04:05",
}

const (
	icsDateTimeLayout = "20060102T150405"
	icsStampLayout    = "20060102T150405Z"
)

// Request carries the free-text event fields an ICS document is built from.
// Field names line up with the extraction record, so an extracted event can be
// posted back unchanged.
type Request struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Builder renders single-event ICS documents from free-text event fields.
// It is stateless apart from the clock; concurrent Build calls are independent.
type Builder struct {
	clock utils.Clock
}

func NewBuilder(clock utils.Clock) *Builder {
	return &Builder{clock: clock}
}

// Build produces the literal text of a single-event VCALENDAR document.
//
// Free-text parsing never fails: an unrecognized date becomes today, an
// unrecognized or empty start time becomes noon, and a missing or
// unrecognized end time becomes start plus one hour. A parsed end time is
// combined with the start date. All event instants are naive local wall-clock
// values; only DTSTAMP is UTC.
func (b *Builder) Build(req Request) (string, error) {
	// SUMMARY and LOCATION are single content lines; an embedded line break
	// cannot be represented there (only DESCRIPTION escapes newlines).
	if strings.ContainsAny(req.Title, "\r\n") || strings.ContainsAny(req.Location, "\r\n") {
		return "", fmt.Errorf("%w: title and location must not contain line breaks", ErrInvalidEventData)
	}

	day, ok := parseDate(strings.TrimSpace(req.Date))
	if !ok {
		day = b.clock.Now()
	}

	startHour, startMinute := 12, 0
	if clock, ok := parseClockTime(req.Time); ok {
		startHour, startMinute = clock.Hour(), clock.Minute()
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, startMinute, 0, 0, time.Local)

	end := start.Add(time.Hour)
	if clock, ok := parseClockTime(req.EndTime); ok {
		end = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//EventSnap//Calendar//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + uuid.NewString(),
		"DTSTAMP:" + b.clock.Now().UTC().Format(icsStampLayout),
		"DTSTART:" + start.Format(icsDateTimeLayout),
		"DTEND:" + end.Format(icsDateTimeLayout),
		"SUMMARY:" + escapeText(req.Title),
		"LOCATION:" + escapeText(req.Location),
		"DESCRIPTION:" + escapeDescription(req.Description),
		"END:VEVENT",
		"END:VCALENDAR",
	}

	return strings.Join(lines, "\n"), nil
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseClockTime tries the time layouts against the uppercased input so that
// "7:30 pm" matches the AM/PM layouts. Only hour and minute of the result are
// meaningful.
func parseClockTime(raw string) (time.Time, bool) {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var textEscaper = strings.NewReplacer(",", `\,`, ";", `\;`)
var descriptionEscaper = strings.NewReplacer(",", `\,`, ";", `\;`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeDescription(s string) string {
	return descriptionEscaper.Replace(s)
}
