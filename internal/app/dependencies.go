package app

import (
	"github.com/eventsnap/eventsnap/internal/config"
	"github.com/eventsnap/eventsnap/internal/event_bus"
	"github.com/eventsnap/eventsnap/internal/utils"
	"github.com/eventsnap/eventsnap/pkg/extraction"
	"github.com/eventsnap/eventsnap/pkg/ics"
	"github.com/eventsnap/eventsnap/pkg/vision"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all clients, services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	VisionClient vision.Client

	ExtractionRepo    extraction.Repository
	ExtractionService extraction.Service
	ExtractionHandler *extraction.Handler

	ICSBuilder *ics.Builder
	ICSHandler *ics.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.VisionClient = vision.NewClient(cfg.LLM)

	deps.ExtractionRepo = extraction.NewRepository(db)
	deps.ExtractionService = extraction.NewService(deps.VisionClient, deps.ExtractionRepo, deps.Bus)
	deps.ExtractionHandler = extraction.NewHandler(deps.ExtractionService)

	deps.ICSBuilder = ics.NewBuilder(deps.Clock)
	deps.ICSHandler = ics.NewHandler(deps.ICSBuilder, deps.Bus)

	registerObservers(deps.Bus)

	return deps
}

// registerObservers attaches the audit-log subscribers for domain notifications.
func registerObservers(bus *event_bus.EventBus) {
	bus.Subscribe(event_bus.FlyerExtracted, func(e event_bus.Event) error {
		if data, ok := e.Data.(event_bus.FlyerExtractedData); ok {
			log.Infof("Extracted event %s (%d fields found): %q", data.RecordID, data.FieldsFound, data.Title)
		}
		return nil
	})
	bus.Subscribe(event_bus.CalendarExported, func(e event_bus.Event) error {
		if data, ok := e.Data.(event_bus.CalendarExportedData); ok {
			log.Infof("Exported calendar file %s for %q", data.Filename, data.Summary)
		}
		return nil
	})
}
