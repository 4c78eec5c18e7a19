package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eventsnap/eventsnap/internal/event_bus"
	"github.com/eventsnap/eventsnap/internal/utils"
	"github.com/eventsnap/eventsnap/pkg/extraction"
	"github.com/eventsnap/eventsnap/pkg/ics"
	"github.com/eventsnap/eventsnap/pkg/vision"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDependencies() *Dependencies {
	bus := event_bus.NewEventBus()
	service := extraction.NewService(&vision.StubClient{}, &extraction.StubRepository{}, bus)
	return &Dependencies{
		Bus:               bus,
		ExtractionService: service,
		ExtractionHandler: extraction.NewHandler(service),
		ICSHandler:        ics.NewHandler(ics.NewBuilder(&utils.SystemClock{}), bus),
	}
}

func TestRegisterRoutes(t *testing.T) {
	r := mux.NewRouter()
	RegisterRoutes(r, testDependencies())

	t.Run("health endpoint reports the API is running", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "EventSnap API is running", body["message"])
	})

	t.Run("generate-ics is routed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("POST", "/api/generate-ics", nil))

		assert.NotEqual(t, http.StatusNotFound, rec.Code)
	})
}
