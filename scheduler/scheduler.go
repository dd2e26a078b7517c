package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweater-ventures/tally/db"
)

// Schedule stores a scheduled event for the poller to pick up at executeAt.
// The payload is marshalled to JSON; nil stores an empty object.
func Schedule(ctx context.Context, q db.Querier, eventType string, executeAt time.Time, payload any) (db.ScheduledEvent, error) {
	body := []byte("{}")
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return db.ScheduledEvent{}, fmt.Errorf("marshal scheduled payload: %w", err)
		}
	}
	event, err := q.InsertScheduledEvent(ctx, db.InsertScheduledEventParams{
		ID:        db.NewID(),
		EventType: eventType,
		ExecuteAt: db.Timestamptz(executeAt),
		Payload:   body,
	})
	if err != nil {
		return db.ScheduledEvent{}, fmt.Errorf("insert scheduled event: %w", err)
	}
	return event, nil
}
