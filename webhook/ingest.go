package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
)

// Ingest stores an incoming provider event. Deduplication rides on the
// unique external_id: a duplicate returns the already-stored event with
// created=false and no error.
func Ingest(ctx context.Context, q db.Querier, externalID string, eventType string, payload []byte) (db.Event, bool, error) {
	event, err := q.InsertEvent(ctx, db.InsertEventParams{
		ID:         db.NewID(),
		ExternalID: externalID,
		EventType:  eventType,
		Payload:    payload,
	})
	if err == nil {
		return event, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return db.Event{}, false, fmt.Errorf("insert event %s: %w", externalID, err)
	}

	// ON CONFLICT DO NOTHING returned no row, so the event already exists.
	existing, err := q.GetEventByExternalID(ctx, externalID)
	if err != nil {
		return db.Event{}, false, fmt.Errorf("fetch duplicate event %s: %w", externalID, err)
	}
	config.Logger(ctx).Info("Duplicate event ignored",
		"external_id", externalID,
		"event_type", eventType,
	)
	return existing, false, nil
}

// SweepProcessedEvents purges fully processed events older than the
// retention window. Unprocessed events are never purged.
func SweepProcessedEvents(ctx context.Context, q db.Querier, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := q.DeleteProcessedEventsBefore(ctx, db.Timestamptz(cutoff))
	if err != nil {
		return 0, fmt.Errorf("sweep processed events: %w", err)
	}
	if deleted > 0 {
		config.Logger(ctx).Info("Swept processed events", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
