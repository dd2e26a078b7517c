package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/subscriptions"
	"github.com/sweater-ventures/tally/webhook"
)

// sendRenewalReminder processes a subscription.reminder scheduled event.
// Scheduled payloads are plain JSON, not provider envelopes.
func (d *Deps) sendRenewalReminder(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	var p subscriptions.ReminderPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode reminder payload: %w", err)
	}

	sub, err := q.GetSubscriptionByExternalID(ctx, p.ExternalSubscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			config.Logger(ctx).Info("Reminder for vanished subscription, dropping",
				"external_subscription_id", p.ExternalSubscriptionID,
			)
			return nil
		}
		return fmt.Errorf("load subscription: %w", err)
	}
	if !subscriptions.IsActiveStatus(sub.Status) || sub.CancelAtPeriodEnd {
		return nil
	}

	customer, err := q.GetCustomerByID(ctx, sub.CustomerID)
	if err != nil {
		return fmt.Errorf("load customer: %w", err)
	}

	// Mail delivery lives outside this service; the reminder is recorded in
	// the log stream the notifier tails.
	config.Logger(ctx).Info("Renewal reminder due",
		"external_subscription_id", sub.ExternalSubscriptionID,
		"billing_email", customer.BillingEmail,
		"days_until_renewal", p.DaysUntilRenewal,
		"renews_at", sub.CurrentPeriodEnd.Time,
	)
	return nil
}

// expireSubscription cancels a past_due subscription whose grace period ran
// out and revokes its entitlements.
func (d *Deps) expireSubscription(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	var p subscriptions.ExpirePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode expire payload: %w", err)
	}

	sub, err := q.GetSubscriptionByExternalIDForUpdate(ctx, p.ExternalSubscriptionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub.Status != subscriptions.StatusPastDue {
		// Recovered or already terminal since the sweep scheduled this.
		return nil
	}

	subscriptions.Cancel(ctx, &sub, time.Now().UTC())
	if sub, err = q.UpdateSubscription(ctx, subscriptions.UpdateParams(sub)); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	config.Logger(ctx).Info("Subscription expired after grace period",
		"external_subscription_id", sub.ExternalSubscriptionID,
	)
	return d.Entitlements.RevokeForSubscription(ctx, q, sub, revokeReasonExpired)
}

// analyticsPing publishes a lightweight record of the event to Kafka. Runs
// without a transaction; the completion row keeps it from double-publishing
// when another handler on the same event fails and the event is retried.
func (d *Deps) analyticsPing(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	env, err := webhook.ParseEnvelope(payload)
	if err != nil {
		return err
	}
	if err := d.Analytics.Publish(ctx, env.ID, env.Type); err != nil {
		return webhook.Infra("analytics publish", err, map[string]any{
			"external_id": env.ID,
		})
	}
	return nil
}
