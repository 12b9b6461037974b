package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore appends events to the domain_events table.
type PGStore struct {
	Pool *pgxpool.Pool
}

// InsertEvent implements EventStore.
func (s *PGStore) InsertEvent(ctx context.Context, event Event) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO domain_events (id, topic, aggregate_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.Topic, event.AggregateID, []byte(event.Payload), event.OccurredAt)
	return err
}
