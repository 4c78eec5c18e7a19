package extraction

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eventsnap/eventsnap/internal/rest"
	"github.com/eventsnap/eventsnap/pkg/vision"
	log "github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

type EventFieldsDTO struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type ExtractedEventDTO struct {
	ID        string         `json:"id"`
	Event     EventFieldsDTO `json:"event"`
	CreatedAt string         `json:"created_at"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ExtractEvent godoc
// @Summary Extract event details from a flyer image
// @Description Upload a flyer/poster image and get back a structured event record (max 3MB)
// @Tags Extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Flyer image"
// @Success 200 {object} ExtractedEventDTO
// @Failure 400 {object} rest.ErrorResponse "Image too large or not an image"
// @Failure 500 {string} string "Vision model unavailable"
// @Router /api/extract-event [post]
func (h *Handler) ExtractEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Extracting event from uploaded flyer")

	// Enforce a hard limit of 3MB on the request body
	r.Body = http.MaxBytesReader(w, r.Body, 3<<20)
	err := r.ParseMultipartForm(3 << 20)
	if err != nil {
		log.Debugf("File is too large or form is invalid: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Image is too large or request is not multipart",
			Details: "Maximum size is 3MB. Please try again with a smaller image.",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Missing 'file' field in form data",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		log.Debugf("Rejected upload with content type %q", contentType)
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "File must be an image",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}
	log.Debugf("Uploaded file: %s (%d bytes, %s)", header.Filename, header.Size, contentType)

	image, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	extracted, err := h.service.ExtractFromImage(r.Context(), image, contentType)
	if err != nil {
		if errors.Is(err, vision.ErrNotConfigured) {
			http.Error(w, "API key not configured", http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(extractedEventToDTO(extracted)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetRecentEvents godoc
// @Summary List recent extractions
// @Description Retrieve the most recently extracted event records, newest first
// @Tags Extraction
// @Produce json
// @Param limit query int false "Maximum number of records (default 20)"
// @Success 200 {array} ExtractedEventDTO
// @Router /api/events [get]
func (h *Handler) GetRecentEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Listing recent extracted events")

	limit := defaultHistoryLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Invalid 'limit' query parameter",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
				return
			}
			return
		}
		limit = parsed
	}

	events, err := h.service.GetRecentEvents(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	eventsDTO := make([]ExtractedEventDTO, 0, len(events))
	for _, event := range events {
		eventsDTO = append(eventsDTO, extractedEventToDTO(event))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(eventsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func extractedEventToDTO(event ExtractedEvent) ExtractedEventDTO {
	return ExtractedEventDTO{
		ID: event.ID,
		Event: EventFieldsDTO{
			Title:       event.Event.Title,
			Date:        event.Event.Date,
			Time:        event.Event.Time,
			EndTime:     event.Event.EndTime,
			Location:    event.Event.Location,
			Description: event.Event.Description,
		},
		CreatedAt: event.CreatedAt.Format(time.RFC3339),
	}
}
