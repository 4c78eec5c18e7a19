package app

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Health probe
	r.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]string{"message": "EventSnap API is running"})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}).Methods("GET")

	// Extraction
	r.HandleFunc("/api/extract-event", deps.ExtractionHandler.ExtractEvent).Methods("POST")
	r.HandleFunc("/api/events", deps.ExtractionHandler.GetRecentEvents).Methods("GET")

	// Calendar export
	r.HandleFunc("/api/generate-ics", deps.ICSHandler.GenerateICS).Methods("POST")
}
