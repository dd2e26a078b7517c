package webhook

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/tally/bus"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
)

// DefaultRetryDelays is the backoff schedule between processing attempts:
// 1m, 5m, 15m, 1h, 2h.
var DefaultRetryDelays = []time.Duration{
	60 * time.Second,
	300 * time.Second,
	900 * time.Second,
	3600 * time.Second,
	7200 * time.Second,
}

// processJob is one attempt at fully processing a stored event.
type processJob struct {
	eventID pgtype.UUID
	attempt int // 0-indexed attempt number (0 = first attempt)
}

// Runner drives stored events through the dispatcher with a fixed-size
// worker pool. Failed events are re-enqueued on the retry schedule via
// timers, so a retry never ties up a worker.
type Runner struct {
	dispatcher  *Dispatcher
	bus         *bus.Bus
	maxAttempts int
	retryDelays []time.Duration

	queue          chan processJob
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
	inflightWg     sync.WaitGroup
	workerWg       sync.WaitGroup
	stopOnce       sync.Once
}

// RunnerOptions tunes the Runner. Zero values fall back to defaults; tests
// shrink RetryDelays to milliseconds.
type RunnerOptions struct {
	MaxAttempts int
	RetryDelays []time.Duration
	QueueSize   int
}

func NewRunner(dispatcher *Dispatcher, b *bus.Bus, opts RunnerOptions) *Runner {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = len(DefaultRetryDelays)
	}
	if len(opts.RetryDelays) == 0 {
		opts.RetryDelays = DefaultRetryDelays
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	return &Runner{
		dispatcher:     dispatcher,
		bus:            b,
		maxAttempts:    opts.MaxAttempts,
		retryDelays:    opts.RetryDelays,
		queue:          make(chan processJob, opts.QueueSize),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}
}

// Start launches the worker pool.
func (r *Runner) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}
	r.workerWg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer r.workerWg.Done()
			for job := range r.queue {
				r.process(job)
			}
		}()
	}
}

// Enqueue schedules a first processing attempt for the event.
func (r *Runner) Enqueue(eventID pgtype.UUID) {
	r.inflightWg.Add(1)
	r.queue <- processJob{eventID: eventID}
}

// Stop abandons pending retry timers, waits for in-flight work, and drains
// the queue. No Enqueue calls may happen after Stop.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.shutdownCancel()
		r.inflightWg.Wait()
		close(r.queue)
		r.workerWg.Wait()
		slog.Info("Event runner drained")
	})
}

// Resume re-enqueues all unprocessed events. Call after Start; this is the
// crash-recovery path, since retry timers are in-memory only.
func (r *Runner) Resume(ctx context.Context) error {
	events, err := r.dispatcher.Q.ListUnprocessedEvents(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		slog.Debug("No events to resume on startup")
		return nil
	}
	slog.Info("Resuming unprocessed events on startup", "count", len(events))

	// Feed in a goroutine to avoid blocking startup if the queue buffer is
	// smaller than the backlog.
	go func() {
		for _, event := range events {
			if r.shutdownCtx.Err() != nil {
				return
			}
			r.Enqueue(event.ID)
		}
	}()
	return nil
}

func (r *Runner) process(job processJob) {
	defer r.inflightWg.Done()

	ctx := context.Background()
	logger := slog.Default().With("event_id", db.UuidToString(job.eventID), "attempt", job.attempt+1)
	ctx = context.WithValue(ctx, config.LoggerContextKey, logger)

	event, err := r.dispatcher.Q.GetEventByID(ctx, job.eventID)
	if err != nil {
		logger.Error("Failed to load event for processing", "error", err)
		r.retryOrAbandon(logger, job, db.Event{ID: job.eventID}, err)
		return
	}
	if event.FullyProcessed {
		logger.Debug("Event already fully processed, skipping")
		return
	}
	logger = logger.With("event_type", event.EventType)
	ctx = context.WithValue(ctx, config.LoggerContextKey, logger)

	err = r.dispatcher.DispatchTracked(ctx, event)
	if err == nil {
		r.finish(ctx, logger, event)
		return
	}

	switch Classify(err) {
	case OutcomeSkip:
		// Expected condition: the event is handled even though a handler
		// declined it.
		logger.Info("Handler skipped event",
			"key", ErrorKey(err),
			"reason", err.Error(),
			"context", ErrorContext(err),
		)
		r.finish(ctx, logger, event)
	case OutcomeRetry:
		logger.Warn("Event processing failed, will retry",
			"key", ErrorKey(err),
			"error", err,
			"context", ErrorContext(err),
		)
		r.retryOrAbandon(logger, job, event, err)
	default:
		// Unclassified errors are bugs until proven otherwise, but retrying
		// is still safer than dropping the event.
		logger.Error("Unclassified handler error",
			"key", ErrorKey(err),
			"error", err,
		)
		r.retryOrAbandon(logger, job, event, err)
	}
}

func (r *Runner) finish(ctx context.Context, logger *slog.Logger, event db.Event) {
	if err := r.dispatcher.Q.MarkEventProcessed(ctx, event.ID); err != nil {
		logger.Error("Failed to mark event processed", "error", err)
		return
	}
	logger.Info("Event fully processed")
	if r.bus != nil {
		r.bus.Publish(bus.Message{
			Type:      bus.MessageEventProcessed,
			EventID:   db.UuidToString(event.ID),
			EventType: event.EventType,
		})
	}
}

func (r *Runner) retryOrAbandon(logger *slog.Logger, job processJob, event db.Event, cause error) {
	nextAttempt := job.attempt + 1
	if nextAttempt >= r.maxAttempts {
		logger.Error("Event abandoned after max attempts",
			"max_attempts", r.maxAttempts,
			"error", cause,
		)
		if r.bus != nil {
			r.bus.Publish(bus.Message{
				Type:      bus.MessageEventAbandoned,
				EventID:   db.UuidToString(job.eventID),
				EventType: event.EventType,
				Attempt:   nextAttempt,
			})
		}
		return
	}

	delay := r.delayFor(job.attempt)
	logger.Info("Scheduling retry",
		"next_attempt", nextAttempt+1,
		"delay_seconds", delay.Seconds(),
	)
	if r.bus != nil {
		r.bus.Publish(bus.Message{
			Type:      bus.MessageRetryScheduled,
			EventID:   db.UuidToString(job.eventID),
			EventType: event.EventType,
			Attempt:   nextAttempt + 1,
		})
	}

	// Non-blocking retry: increment inflight before scheduling timer
	r.inflightWg.Add(1)
	time.AfterFunc(delay, func() {
		if r.shutdownCtx.Err() != nil {
			r.inflightWg.Done() // abandon retry on shutdown
			return
		}
		r.queue <- processJob{eventID: job.eventID, attempt: nextAttempt}
	})
}

func (r *Runner) delayFor(attempt int) time.Duration {
	if attempt < len(r.retryDelays) {
		return r.retryDelays[attempt]
	}
	return r.retryDelays[len(r.retryDelays)-1]
}
