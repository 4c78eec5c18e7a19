package extraction

import (
	"context"
	"fmt"

	"github.com/eventsnap/eventsnap/internal/event_bus"
	"github.com/eventsnap/eventsnap/internal/utils"
	"github.com/eventsnap/eventsnap/pkg/vision"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// ExtractFromImage runs a flyer image through the vision model, normalizes
	// the reply into an EventFields record and stores the result.
	ExtractFromImage(ctx context.Context, image []byte, contentType string) (ExtractedEvent, error)
	GetRecentEvents(ctx context.Context, limit int) ([]ExtractedEvent, error)
}

type ServiceImpl struct {
	vision vision.Client
	repo   Repository
	bus    *event_bus.EventBus
	clock  utils.Clock
}

func NewService(visionClient vision.Client, repo Repository, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{vision: visionClient, repo: repo, bus: bus, clock: &utils.SystemClock{}}
}

func (s *ServiceImpl) ExtractFromImage(ctx context.Context, image []byte, contentType string) (ExtractedEvent, error) {
	reply, err := s.vision.ExtractEvent(ctx, image, contentType)
	if err != nil {
		return ExtractedEvent{}, fmt.Errorf("vision model call failed: %w", err)
	}
	log.Infof("Vision model reply: %s", reply)

	fields := Normalize(reply)

	record := ExtractedEvent{
		ID:        uuid.NewString(),
		Event:     fields,
		CreatedAt: s.clock.Now().UTC(),
	}

	stored, err := s.repo.Store(ctx, record)
	if err != nil {
		return ExtractedEvent{}, err
	}

	if err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.FlyerExtracted, event_bus.FlyerExtractedData{
		RecordID:    stored.ID,
		Title:       stored.Event.Title,
		FieldsFound: stored.Event.NonEmptyCount(),
	})); err != nil {
		log.Errorf("Failed to publish %s event: %v", event_bus.FlyerExtracted, err)
	}

	return stored, nil
}

func (s *ServiceImpl) GetRecentEvents(ctx context.Context, limit int) ([]ExtractedEvent, error) {
	return s.repo.FindRecent(ctx, limit)
}
