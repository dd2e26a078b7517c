package subscriptions

import (
	"context"
	"time"

	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/scheduler"
)

// Scheduled event types produced by the lifecycle sweep.
const (
	EventTypeReminder = "subscription.reminder"
	EventTypeExpire   = "subscription.expire"
)

// GracePeriodDays is how long a past_due subscription keeps access before
// it is expired.
const GracePeriodDays = 7

// reminderDays are the renewal reminder offsets.
var reminderDays = []int{7, 3, 1}

// ReminderPayload is the payload of a subscription.reminder scheduled event.
type ReminderPayload struct {
	ExternalSubscriptionID string `json:"external_subscription_id"`
	DaysUntilRenewal       int    `json:"days_until_renewal"`
}

// ExpirePayload is the payload of a subscription.expire scheduled event.
type ExpirePayload struct {
	ExternalSubscriptionID string `json:"external_subscription_id"`
}

// RunLifecycleSweep produces scheduled events for subscriptions renewing in
// 7, 3, or 1 days and for past_due subscriptions beyond the grace period.
// Meant to run daily; each reminder window is one day wide so a subscription
// gets each reminder once.
func RunLifecycleSweep(ctx context.Context, q db.Querier, now time.Time) error {
	logger := config.Logger(ctx)

	var reminders int
	for _, days := range reminderDays {
		from := now.Add(time.Duration(days) * 24 * time.Hour)
		to := from.Add(24 * time.Hour)
		subs, err := q.ListSubscriptionsRenewingBetween(ctx, db.ListSubscriptionsRenewingBetweenParams{
			CurrentPeriodEnd:   db.Timestamptz(from),
			CurrentPeriodEnd_2: db.Timestamptz(to),
		})
		if err != nil {
			return err
		}
		for _, sub := range subs {
			_, err := scheduler.Schedule(ctx, q, EventTypeReminder, now, ReminderPayload{
				ExternalSubscriptionID: sub.ExternalSubscriptionID,
				DaysUntilRenewal:       days,
			})
			if err != nil {
				return err
			}
			reminders++
		}
	}

	graceCutoff := now.Add(-GracePeriodDays * 24 * time.Hour)
	expired, err := q.ListPastDueSubscriptionsBefore(ctx, db.Timestamptz(graceCutoff))
	if err != nil {
		return err
	}
	for _, sub := range expired {
		_, err := scheduler.Schedule(ctx, q, EventTypeExpire, now, ExpirePayload{
			ExternalSubscriptionID: sub.ExternalSubscriptionID,
		})
		if err != nil {
			return err
		}
	}

	if reminders > 0 || len(expired) > 0 {
		logger.Info("Lifecycle sweep complete", "reminders", reminders, "expirations", len(expired))
	}
	return nil
}
