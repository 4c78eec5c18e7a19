package extraction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/eventsnap/eventsnap/internal/event_bus"
	"github.com/eventsnap/eventsnap/internal/utils"
	"github.com/eventsnap/eventsnap/pkg/vision"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractFromImage(t *testing.T) {
	ctx := context.Background()
	image := []byte{0xFF, 0xD8, 0xFF} // JPEG magic bytes are enough for the stub

	t.Run("stores normalized record with fresh ID and UTC timestamp", func(t *testing.T) {
		client := &vision.StubClient{Reply: `{"title":"Gala","date":"2025-01-02"}`}
		repo := &StubRepository{}
		now := time.Date(2025, time.March, 10, 10, 30, 0, 0, time.UTC)
		service := &ServiceImpl{vision: client, repo: repo, bus: event_bus.NewEventBus(), clock: &utils.MockClock{FixedNow: now}}

		result, err := service.ExtractFromImage(ctx, image, "image/jpeg")

		assert.NoError(t, err)
		assert.NoError(t, uuid.Validate(result.ID))
		assert.Equal(t, "Gala", result.Event.Title)
		assert.Equal(t, "2025-01-02", result.Event.Date)
		assert.Equal(t, now, result.CreatedAt)
		assert.Equal(t, image, client.LastImage)
		assert.Equal(t, "image/jpeg", client.LastContentType)

		stored, err := repo.FindRecent(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, stored, 1)
		assert.Equal(t, result, stored[0])
	})

	t.Run("unparseable model reply still produces a stored record", func(t *testing.T) {
		client := &vision.StubClient{Reply: "Sorry, I could not read the image."}
		repo := &StubRepository{}
		service := NewService(client, repo, event_bus.NewEventBus())

		result, err := service.ExtractFromImage(ctx, image, "image/png")

		assert.NoError(t, err)
		assert.Empty(t, result.Event.Title)
		assert.Equal(t, "Sorry, I could not read the image.", result.Event.Description)
	})

	t.Run("vision failure is propagated", func(t *testing.T) {
		client := &vision.StubClient{Err: vision.ErrNotConfigured}
		repo := &StubRepository{}
		service := NewService(client, repo, event_bus.NewEventBus())

		_, err := service.ExtractFromImage(ctx, image, "image/jpeg")

		assert.ErrorIs(t, err, vision.ErrNotConfigured)
		stored, _ := repo.FindRecent(ctx, 10)
		assert.Empty(t, stored)
	})

	t.Run("repository failure is propagated", func(t *testing.T) {
		client := &vision.StubClient{Reply: `{"title":"Gala"}`}
		repo := &StubRepository{StoreErr: fmt.Errorf("connection refused")}
		service := NewService(client, repo, event_bus.NewEventBus())

		_, err := service.ExtractFromImage(ctx, image, "image/jpeg")

		assert.Error(t, err)
	})

	t.Run("publishes flyer.extracted notification", func(t *testing.T) {
		client := &vision.StubClient{Reply: `{"title":"Gala","date":"2025-01-02"}`}
		bus := event_bus.NewEventBus()
		var published []event_bus.FlyerExtractedData
		bus.Subscribe(event_bus.FlyerExtracted, func(e event_bus.Event) error {
			if data, ok := e.Data.(event_bus.FlyerExtractedData); ok {
				published = append(published, data)
			}
			return nil
		})
		service := NewService(client, &StubRepository{}, bus)

		result, err := service.ExtractFromImage(ctx, image, "image/jpeg")

		assert.NoError(t, err)
		assert.Len(t, published, 1)
		assert.Equal(t, result.ID, published[0].RecordID)
		assert.Equal(t, "Gala", published[0].Title)
		assert.Equal(t, 2, published[0].FieldsFound)
	})
}

func TestGetRecentEvents(t *testing.T) {
	ctx := context.Background()
	repo := &StubRepository{}
	service := NewService(&vision.StubClient{Reply: "{}"}, repo, event_bus.NewEventBus())

	for i := 0; i < 3; i++ {
		_, err := repo.Store(ctx, ExtractedEvent{ID: fmt.Sprintf("id-%d", i)})
		assert.NoError(t, err)
	}

	events, err := service.GetRecentEvents(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "id-2", events[0].ID)
	assert.Equal(t, "id-1", events[1].ID)
}
