package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/subscriptions"
	"github.com/sweater-ventures/tally/webhook"
)

const sweepInterval = 24 * time.Hour

// startDailySweeps runs the event retention sweep and the subscription
// lifecycle sweep once at startup and then daily.
func (a *Application) startDailySweeps() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			a.runSweeps()
			select {
			case <-ticker.C:
			case <-stop:
				return
			}
		}
	}()

	a.stopSweeps = func() {
		close(stop)
		<-done
	}
}

func (a *Application) runSweeps() {
	ctx := context.Background()

	retention := time.Duration(a.Config.EventRetentionDays) * 24 * time.Hour
	if _, err := webhook.SweepProcessedEvents(ctx, a.DB, retention); err != nil {
		slog.Error("Event retention sweep failed", "error", err)
	}

	err := a.ExecTx(ctx, func(q db.Querier) error {
		return subscriptions.RunLifecycleSweep(ctx, q, time.Now().UTC())
	})
	if err != nil {
		slog.Error("Subscription lifecycle sweep failed", "error", err)
	}
}
