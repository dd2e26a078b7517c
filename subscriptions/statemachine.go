package subscriptions

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
)

// Subscription statuses as reported by the payment provider.
const (
	StatusIncomplete        = "incomplete"
	StatusIncompleteExpired = "incomplete_expired"
	StatusTrialing          = "trialing"
	StatusActive            = "active"
	StatusPastDue           = "past_due"
	StatusPaused            = "paused"
	StatusUnpaid            = "unpaid"
	StatusCanceled          = "canceled"
)

// expectedTransitions lists where each status normally goes next. The
// provider is the source of truth, so an unexpected transition is applied
// anyway and logged as an anomaly.
var expectedTransitions = map[string][]string{
	StatusIncomplete:        {StatusIncompleteExpired, StatusActive, StatusTrialing, StatusCanceled},
	StatusTrialing:          {StatusActive, StatusPastDue, StatusCanceled, StatusPaused, StatusUnpaid},
	StatusActive:            {StatusPastDue, StatusCanceled, StatusPaused, StatusUnpaid},
	StatusPastDue:           {StatusActive, StatusCanceled, StatusUnpaid, StatusPaused},
	StatusPaused:            {StatusActive, StatusCanceled},
	StatusUnpaid:            {StatusActive, StatusCanceled},
	StatusCanceled:          {},
	StatusIncompleteExpired: {},
}

// IsActiveStatus reports whether the status still grants access. past_due
// keeps access through the grace period.
func IsActiveStatus(status string) bool {
	switch status {
	case StatusActive, StatusTrialing, StatusPastDue:
		return true
	}
	return false
}

// IsTerminalStatus reports whether the status admits no further transitions.
func IsTerminalStatus(status string) bool {
	return status == StatusCanceled || status == StatusIncompleteExpired
}

// TransitionExpected reports whether from -> to is in the expected table.
// An unknown from status expects nothing.
func TransitionExpected(from, to string) bool {
	for _, next := range expectedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplyStatus sets the new status on the row, warning on unexpected
// transitions rather than rejecting them. A same-status update is a no-op.
// The caller persists the row.
func ApplyStatus(ctx context.Context, sub *db.Subscription, newStatus string) {
	if sub.Status == newStatus {
		return
	}
	if !TransitionExpected(sub.Status, newStatus) {
		config.Logger(ctx).Warn("Unexpected subscription status transition",
			"subscription_id", db.UuidToString(sub.ID),
			"external_subscription_id", sub.ExternalSubscriptionID,
			"from", sub.Status,
			"to", newStatus,
		)
	}
	sub.Status = newStatus
}

// Cancel transitions to canceled and stamps canceled_at.
func Cancel(ctx context.Context, sub *db.Subscription, at time.Time) {
	ApplyStatus(ctx, sub, StatusCanceled)
	sub.CanceledAt = db.Timestamptz(at)
}

// Pause transitions to paused and stamps paused_at.
func Pause(ctx context.Context, sub *db.Subscription, at time.Time) {
	ApplyStatus(ctx, sub, StatusPaused)
	sub.PausedAt = db.Timestamptz(at)
}

// Resume transitions back to active, stamps resumed_at, and clears
// paused_at. Period fields come from the provider payload via the caller.
func Resume(ctx context.Context, sub *db.Subscription, at time.Time) {
	ApplyStatus(ctx, sub, StatusActive)
	sub.ResumedAt = db.Timestamptz(at)
	sub.PausedAt = pgtype.Timestamptz{}
}

// UpdateParams builds the persistence params for a mutated row.
func UpdateParams(sub db.Subscription) db.UpdateSubscriptionParams {
	return db.UpdateSubscriptionParams{
		ID:                 sub.ID,
		PriceID:            sub.PriceID,
		Status:             sub.Status,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
		CanceledAt:         sub.CanceledAt,
		TrialStart:         sub.TrialStart,
		TrialEnd:           sub.TrialEnd,
		PausedAt:           sub.PausedAt,
		ResumedAt:          sub.ResumedAt,
	}
}
