package extraction

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, event ExtractedEvent) (ExtractedEvent, error)
	FindRecent(ctx context.Context, limit int) ([]ExtractedEvent, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// Store persists an extraction result.
func (r *RepositoryImpl) Store(ctx context.Context, event ExtractedEvent) (ExtractedEvent, error) {
	query := `INSERT INTO extracted_event (id, title, event_date, event_time, end_time, location, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Event.Title,
		event.Event.Date,
		event.Event.Time,
		event.Event.EndTime,
		event.Event.Location,
		event.Event.Description,
		event.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store extracted event: %w", err)
		log.Error(err)
		return ExtractedEvent{}, err
	}

	return event, nil
}

// FindRecent returns the most recently extracted events, newest first.
func (r *RepositoryImpl) FindRecent(ctx context.Context, limit int) ([]ExtractedEvent, error) {
	query := `SELECT id, title, event_date, event_time, end_time, location, description, created_at
		FROM extracted_event
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		err := fmt.Errorf("could not query extracted events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]ExtractedEvent, 0)
	for rows.Next() {
		var event ExtractedEvent
		err := rows.Scan(
			&event.ID,
			&event.Event.Title,
			&event.Event.Date,
			&event.Event.Time,
			&event.Event.EndTime,
			&event.Event.Location,
			&event.Event.Description,
			&event.CreatedAt,
		)
		if err != nil {
			err := fmt.Errorf("could not scan extracted event: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
