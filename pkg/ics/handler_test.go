package ics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eventsnap/eventsnap/internal/event_bus"
	"github.com/eventsnap/eventsnap/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler(bus *event_bus.EventBus) *Handler {
	return NewHandler(NewBuilder(&utils.MockClock{FixedNow: testNow}), bus)
}

func TestGenerateICSHandler(t *testing.T) {
	t.Run("returns a calendar file download", func(t *testing.T) {
		handler := testHandler(event_bus.NewEventBus())
		body := `{"title":"Test Event","date":"2024-12-15","time":"09:00","end_time":"17:00","location":"Convention Center","description":"A test event"}`

		rec := httptest.NewRecorder()
		handler.GenerateICS(rec, httptest.NewRequest("POST", "/api/generate-ics", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/calendar", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="Test_Event.ics"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
		assert.Contains(t, rec.Body.String(), "END:VCALENDAR")
		assert.Contains(t, rec.Body.String(), "DTSTART:20241215T090000")
	})

	t.Run("empty title falls back to the default filename", func(t *testing.T) {
		handler := testHandler(event_bus.NewEventBus())
		body := `{"title":"","date":"2024-12-15","time":"09:00"}`

		rec := httptest.NewRecorder()
		handler.GenerateICS(rec, httptest.NewRequest("POST", "/api/generate-ics", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="event.ics"`, rec.Header().Get("Content-Disposition"))
	})

	t.Run("rejects an undecodable body", func(t *testing.T) {
		handler := testHandler(event_bus.NewEventBus())

		rec := httptest.NewRecorder()
		handler.GenerateICS(rec, httptest.NewRequest("POST", "/api/generate-ics", strings.NewReader("not json")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid request body format")
	})

	t.Run("rejects invalid event data with a descriptive message", func(t *testing.T) {
		handler := testHandler(event_bus.NewEventBus())
		body := `{"title":"Gala\nCrashers","date":"2024-12-15"}`

		rec := httptest.NewRecorder()
		handler.GenerateICS(rec, httptest.NewRequest("POST", "/api/generate-ics", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Error generating calendar file")
	})

	t.Run("publishes calendar.exported notification", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		var published []event_bus.CalendarExportedData
		bus.Subscribe(event_bus.CalendarExported, func(e event_bus.Event) error {
			if data, ok := e.Data.(event_bus.CalendarExportedData); ok {
				published = append(published, data)
			}
			return nil
		})
		handler := testHandler(bus)
		body := `{"title":"Test Event","date":"2024-12-15"}`

		rec := httptest.NewRecorder()
		handler.GenerateICS(rec, httptest.NewRequest("POST", "/api/generate-ics", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, published, 1)
		assert.Equal(t, "Test Event", published[0].Summary)
		assert.Equal(t, "Test_Event.ics", published[0].Filename)
	})
}
