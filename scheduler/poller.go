package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/webhook"
)

const maxStoredErrorLen = 1000

// Poller claims due scheduled events and runs their handlers. Claiming uses
// FOR UPDATE SKIP LOCKED inside a transaction, so concurrent pollers never
// process the same row twice. Handlers run untracked: a scheduled event is
// a single unit of work, retried whole via its attempts counter.
type Poller struct {
	ExecTx      func(ctx context.Context, fn func(db.Querier) error) error
	Dispatcher  *webhook.Dispatcher
	MaxAttempts int32
	BatchSize   int32
	Interval    time.Duration

	stop chan struct{}
	done chan struct{}
}

func NewPoller(execTx func(ctx context.Context, fn func(db.Querier) error) error, dispatcher *webhook.Dispatcher, maxAttempts, batchSize int32, interval time.Duration) *Poller {
	return &Poller{
		ExecTx:      execTx,
		Dispatcher:  dispatcher,
		MaxAttempts: maxAttempts,
		BatchSize:   batchSize,
		Interval:    interval,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the polling loop. One run fires immediately.
func (p *Poller) Start() {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()

		for {
			if _, err := p.RunOnce(context.Background()); err != nil {
				slog.Error("Scheduled event poll failed", "error", err)
			}
			select {
			case <-ticker.C:
			case <-p.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-progress run to finish.
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
}

// RunOnce claims and processes one batch of due events. Returns how many
// rows were claimed.
func (p *Poller) RunOnce(ctx context.Context) (int, error) {
	var claimed int
	err := p.ExecTx(ctx, func(q db.Querier) error {
		events, err := q.ClaimDueScheduledEvents(ctx, db.ClaimDueScheduledEventsParams{
			MaxAttempts: p.MaxAttempts,
			BatchSize:   p.BatchSize,
		})
		if err != nil {
			return err
		}
		claimed = len(events)
		for _, event := range events {
			p.processOne(ctx, q, event)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if claimed > 0 {
		slog.Info("Processed scheduled events", "claimed", claimed)
	}
	return claimed, nil
}

// processOne runs the handlers for a claimed row and records the outcome on
// the same transaction that holds the row lock.
func (p *Poller) processOne(ctx context.Context, q db.Querier, event db.ScheduledEvent) {
	logger := slog.Default().With(
		"scheduled_event_id", db.UuidToString(event.ID),
		"event_type", event.EventType,
		"attempt", event.Attempts+1,
	)

	err := p.Dispatcher.Dispatch(ctx, event.EventType, event.Payload)
	if err == nil {
		if err := q.MarkScheduledEventProcessed(ctx, event.ID); err != nil {
			logger.Error("Failed to mark scheduled event processed", "error", err)
		}
		logger.Debug("Scheduled event processed")
		return
	}

	logger.Warn("Scheduled event handler failed", "error", err)
	if err := q.RecordScheduledEventFailure(ctx, db.RecordScheduledEventFailureParams{
		ID:        event.ID,
		LastError: truncateError(err.Error()),
	}); err != nil {
		logger.Error("Failed to record scheduled event failure", "error", err)
	}
	if event.Attempts+1 >= p.MaxAttempts {
		logger.Error("Scheduled event abandoned after max attempts", "max_attempts", p.MaxAttempts)
	}
}

func truncateError(msg string) string {
	if len(msg) > maxStoredErrorLen {
		return msg[:maxStoredErrorLen]
	}
	return msg
}
