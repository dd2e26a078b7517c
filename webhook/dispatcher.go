package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sweater-ventures/tally/bus"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
)

// Dispatcher runs the registered handlers for an event. Two modes: Dispatch
// runs every handler with no completion bookkeeping (scheduled events),
// DispatchTracked records per-handler completion rows so a retried event
// re-runs only the handlers that have not succeeded yet.
type Dispatcher struct {
	Q        db.Querier
	ExecTx   func(ctx context.Context, fn func(db.Querier) error) error
	Registry *Registry
	Bus      *bus.Bus
}

func NewDispatcher(q db.Querier, execTx func(ctx context.Context, fn func(db.Querier) error) error, registry *Registry, b *bus.Bus) *Dispatcher {
	return &Dispatcher{Q: q, ExecTx: execTx, Registry: registry, Bus: b}
}

func (d *Dispatcher) runHandler(ctx context.Context, h Handler, payload json.RawMessage) error {
	if h.RunsInTransaction && d.ExecTx != nil {
		return d.ExecTx(ctx, func(q db.Querier) error {
			return h.Fn(ctx, q, payload)
		})
	}
	return h.Fn(ctx, d.Q, payload)
}

// Dispatch runs all handlers for the event type in registration order with
// no completion tracking. The first error aborts the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, eventType string, payload json.RawMessage) error {
	handlers := d.Registry.HandlersFor(eventType)
	if len(handlers) == 0 {
		config.Logger(ctx).Warn("No handlers registered for event type", "event_type", eventType)
		return nil
	}
	for _, h := range handlers {
		if err := d.runHandler(ctx, h, payload); err != nil {
			return fmt.Errorf("handler %s: %w", h.Name, err)
		}
	}
	return nil
}

// DispatchTracked runs the handlers for a stored event, skipping handlers
// whose completion row is already marked. A handler is marked completed only
// after it returns nil; the first error stops the pass so later handlers are
// not attempted out of order.
func (d *Dispatcher) DispatchTracked(ctx context.Context, event db.Event) error {
	logger := config.Logger(ctx)
	handlers := d.Registry.HandlersFor(event.EventType)
	if len(handlers) == 0 {
		logger.Warn("No handlers registered for event type",
			"event_type", event.EventType,
			"event_id", db.UuidToString(event.ID),
		)
		return nil
	}

	for _, h := range handlers {
		completion, err := d.Q.UpsertHandlerCompletion(ctx, db.UpsertHandlerCompletionParams{
			EventID:     event.ID,
			HandlerName: h.Name,
		})
		if err != nil {
			return fmt.Errorf("completion row for %s: %w", h.Name, err)
		}
		if completion.Completed {
			d.publish(bus.MessageHandlerSkipped, event, h.Name)
			continue
		}

		if err := d.runHandler(ctx, h, event.Payload); err != nil {
			return fmt.Errorf("handler %s: %w", h.Name, err)
		}

		if err := d.Q.MarkHandlerCompleted(ctx, completion.ID); err != nil {
			return fmt.Errorf("mark %s completed: %w", h.Name, err)
		}
		logger.Debug("Handler completed",
			"handler", h.Name,
			"event_id", db.UuidToString(event.ID),
			"event_type", event.EventType,
		)
		d.publish(bus.MessageHandlerCompleted, event, h.Name)
	}
	return nil
}

func (d *Dispatcher) publish(msgType bus.MessageType, event db.Event, handlerName string) {
	if d.Bus == nil {
		return
	}
	d.Bus.Publish(bus.Message{
		Type:        msgType,
		EventID:     db.UuidToString(event.ID),
		EventType:   event.EventType,
		HandlerName: handlerName,
	})
}
