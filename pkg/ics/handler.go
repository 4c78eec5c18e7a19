package ics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eventsnap/eventsnap/internal/event_bus"
	"github.com/eventsnap/eventsnap/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	builder *Builder
	bus     *event_bus.EventBus
}

func NewHandler(builder *Builder, bus *event_bus.EventBus) *Handler {
	return &Handler{builder: builder, bus: bus}
}

// GenerateICS godoc
// @Summary Generate a calendar file
// @Description Build a single-event ICS document from event fields and return it as a download
// @Tags Calendar
// @Accept json
// @Produce text/calendar
// @Param event body Request true "Event fields"
// @Success 200 {string} string "ICS document"
// @Failure 400 {object} rest.ErrorResponse "Invalid event data"
// @Router /api/generate-ics [post]
func (h *Handler) GenerateICS(w http.ResponseWriter, r *http.Request) {
	log.Trace("Generating ICS document")

	var request Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}
	log.Debugf("ICS request: %+v", request)

	document, err := h.builder.Build(request)
	if err != nil {
		if errors.Is(err, ErrInvalidEventData) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Error generating calendar file",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := SafeFilename(request.Title) + ".ics"

	if err := h.bus.Publish(event_bus.NewEvent(r.Context(), event_bus.CalendarExported, event_bus.CalendarExportedData{
		Summary:  request.Title,
		Filename: filename,
	})); err != nil {
		log.Errorf("Failed to publish %s event: %v", event_bus.CalendarExported, err)
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(document)); err != nil {
		log.Errorf("Failed to write ICS response: %v", err)
	}
}
