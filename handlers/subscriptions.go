package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/subscriptions"
	"github.com/sweater-ventures/tally/webhook"
)

// Revoke reasons recorded when a subscription stops granting access.
const (
	revokeReasonCanceled = "Subscription canceled"
	revokeReasonPaused   = "Subscription paused"
	revokeReasonInactive = "Subscription no longer active"
	revokeReasonExpired  = "Subscription expired after grace period"
)

// syncSubscription handles created and updated events with one upsert-based
// path. Created and updated can arrive out of order relative to each other,
// so both are treated as "make the local row match the provider".
func (d *Deps) syncSubscription(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.SubscriptionPayload](payload)
	if err != nil {
		return err
	}

	customer, err := q.GetCustomerByExternalID(ctx, obj.Customer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return webhook.Retry("customer not known yet", map[string]any{
				"external_customer_id":     obj.Customer,
				"external_subscription_id": obj.ID,
			})
		}
		return webhook.Infra("load customer", err, nil)
	}

	existing, err := q.GetSubscriptionByExternalIDForUpdate(ctx, obj.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return webhook.Infra("load subscription", err, nil)
	}

	var sub db.Subscription
	if errors.Is(err, pgx.ErrNoRows) {
		sub, err = q.UpsertSubscription(ctx, db.UpsertSubscriptionParams{
			ID:                     db.NewID(),
			CustomerID:             customer.ID,
			ExternalSubscriptionID: obj.ID,
			PriceID:                obj.PriceID(),
			Status:                 obj.Status,
			CurrentPeriodStart:     db.TimestamptzFromUnix(obj.CurrentPeriodStart),
			CurrentPeriodEnd:       db.TimestamptzFromUnix(obj.CurrentPeriodEnd),
			CancelAtPeriodEnd:      obj.CancelAtPeriodEnd,
			TrialStart:             db.TimestamptzFromUnix(obj.TrialStart),
			TrialEnd:               db.TimestamptzFromUnix(obj.TrialEnd),
		})
		if err != nil {
			return webhook.Infra("upsert subscription", err, nil)
		}
	} else {
		subscriptions.ApplyStatus(ctx, &existing, obj.Status)
		existing.PriceID = obj.PriceID()
		existing.CurrentPeriodStart = db.TimestamptzFromUnix(obj.CurrentPeriodStart)
		existing.CurrentPeriodEnd = db.TimestamptzFromUnix(obj.CurrentPeriodEnd)
		existing.CancelAtPeriodEnd = obj.CancelAtPeriodEnd
		existing.TrialStart = db.TimestamptzFromUnix(obj.TrialStart)
		existing.TrialEnd = db.TimestamptzFromUnix(obj.TrialEnd)
		if obj.CanceledAt != 0 {
			existing.CanceledAt = db.TimestamptzFromUnix(obj.CanceledAt)
		}
		sub, err = q.UpdateSubscription(ctx, subscriptions.UpdateParams(existing))
		if err != nil {
			return webhook.Infra("update subscription", err, nil)
		}
	}

	return d.reconcileEntitlements(ctx, q, sub)
}

// reconcileEntitlements syncs or revokes feature grants to match the
// subscription's current status and price.
func (d *Deps) reconcileEntitlements(ctx context.Context, q db.Querier, sub db.Subscription) error {
	if !subscriptions.IsActiveStatus(sub.Status) {
		return d.Entitlements.RevokeForSubscription(ctx, q, sub, revokeReasonInactive)
	}

	features := d.Features.FeaturesFor(sub.PriceID)
	if features == nil && sub.PriceID != "" {
		config.Logger(ctx).Warn("No feature mapping for price",
			"price_id", sub.PriceID,
			"external_subscription_id", sub.ExternalSubscriptionID,
		)
	}
	return d.Entitlements.SyncFromSubscription(ctx, q, sub, features)
}

// loadSubscriptionForUpdate is the shared lookup for the delete, pause, and
// resume handlers: an unknown subscription is an expected Skip, since the
// provider can emit terminal events for subscriptions we never stored.
func loadSubscriptionForUpdate(ctx context.Context, q db.Querier, externalID string) (db.Subscription, error) {
	sub, err := q.GetSubscriptionByExternalIDForUpdate(ctx, externalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Subscription{}, webhook.Skip("subscription not found", map[string]any{
				"external_subscription_id": externalID,
			})
		}
		return db.Subscription{}, webhook.Infra("load subscription", err, nil)
	}
	return sub, nil
}

func (d *Deps) cancelSubscription(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.SubscriptionPayload](payload)
	if err != nil {
		return err
	}
	sub, err := loadSubscriptionForUpdate(ctx, q, obj.ID)
	if err != nil {
		return err
	}

	canceledAt := time.Now().UTC()
	if obj.CanceledAt != 0 {
		canceledAt = time.Unix(obj.CanceledAt, 0).UTC()
	}
	subscriptions.Cancel(ctx, &sub, canceledAt)
	if sub, err = q.UpdateSubscription(ctx, subscriptions.UpdateParams(sub)); err != nil {
		return webhook.Infra("update subscription", err, nil)
	}
	return d.Entitlements.RevokeForSubscription(ctx, q, sub, revokeReasonCanceled)
}

func (d *Deps) pauseSubscription(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.SubscriptionPayload](payload)
	if err != nil {
		return err
	}
	sub, err := loadSubscriptionForUpdate(ctx, q, obj.ID)
	if err != nil {
		return err
	}

	subscriptions.Pause(ctx, &sub, time.Now().UTC())
	if sub, err = q.UpdateSubscription(ctx, subscriptions.UpdateParams(sub)); err != nil {
		return webhook.Infra("update subscription", err, nil)
	}
	return d.Entitlements.RevokeForSubscription(ctx, q, sub, revokeReasonPaused)
}

func (d *Deps) resumeSubscription(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.SubscriptionPayload](payload)
	if err != nil {
		return err
	}
	sub, err := loadSubscriptionForUpdate(ctx, q, obj.ID)
	if err != nil {
		return err
	}

	subscriptions.Resume(ctx, &sub, time.Now().UTC())
	if obj.CurrentPeriodStart != 0 {
		sub.CurrentPeriodStart = db.TimestamptzFromUnix(obj.CurrentPeriodStart)
	}
	if obj.CurrentPeriodEnd != 0 {
		sub.CurrentPeriodEnd = db.TimestamptzFromUnix(obj.CurrentPeriodEnd)
	}
	if sub, err = q.UpdateSubscription(ctx, subscriptions.UpdateParams(sub)); err != nil {
		return webhook.Infra("update subscription", err, nil)
	}
	return d.reconcileEntitlements(ctx, q, sub)
}
