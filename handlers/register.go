package handlers

import (
	"github.com/sweater-ventures/tally/analytics"
	"github.com/sweater-ventures/tally/entitlements"
	"github.com/sweater-ventures/tally/pricing"
	"github.com/sweater-ventures/tally/subscriptions"
	"github.com/sweater-ventures/tally/webhook"
)

// Deps carries the services the handlers close over.
type Deps struct {
	Features     *pricing.FeatureMap
	Entitlements *entitlements.Service
	Analytics    *analytics.Publisher
}

// RegisterAll wires every handler into the registry. Registration order is
// execution order per event type. Call before Freeze.
func RegisterAll(reg *webhook.Registry, deps *Deps) error {
	type registration struct {
		eventType string
		handler   webhook.Handler
	}

	regs := []registration{
		{"customer.subscription.created", webhook.Handler{Name: "sync_subscription", RunsInTransaction: true, Fn: deps.syncSubscription}},
		{"customer.subscription.updated", webhook.Handler{Name: "sync_subscription", RunsInTransaction: true, Fn: deps.syncSubscription}},
		{"customer.subscription.deleted", webhook.Handler{Name: "cancel_subscription", RunsInTransaction: true, Fn: deps.cancelSubscription}},
		{"customer.subscription.paused", webhook.Handler{Name: "pause_subscription", RunsInTransaction: true, Fn: deps.pauseSubscription}},
		{"customer.subscription.resumed", webhook.Handler{Name: "resume_subscription", RunsInTransaction: true, Fn: deps.resumeSubscription}},
		{"invoice.paid", webhook.Handler{Name: "record_invoice_purchases", RunsInTransaction: true, Fn: deps.recordInvoicePurchases}},
		{"checkout.session.completed", webhook.Handler{Name: "record_checkout_purchase", RunsInTransaction: true, Fn: deps.recordCheckoutPurchase}},
		{"charge.refunded", webhook.Handler{Name: "apply_charge_refund", RunsInTransaction: true, Fn: deps.applyChargeRefund}},
		{"charge.dispute.created", webhook.Handler{Name: "flag_disputed_purchase", RunsInTransaction: true, Fn: deps.flagDisputedPurchase}},
		{"payment_intent.payment_failed", webhook.Handler{Name: "log_failed_payment", RunsInTransaction: false, Fn: deps.logFailedPayment}},
		{"customer.updated", webhook.Handler{Name: "sync_customer_email", RunsInTransaction: true, Fn: deps.syncCustomerEmail}},

		// Scheduled event types produced by the lifecycle sweep.
		{subscriptions.EventTypeReminder, webhook.Handler{Name: "send_renewal_reminder", RunsInTransaction: false, Fn: deps.sendRenewalReminder}},
		{subscriptions.EventTypeExpire, webhook.Handler{Name: "expire_subscription", RunsInTransaction: true, Fn: deps.expireSubscription}},
	}

	if deps.Analytics != nil {
		ping := func(eventType string) registration {
			return registration{eventType, webhook.Handler{Name: "analytics_ping", RunsInTransaction: false, Fn: deps.analyticsPing}}
		}
		regs = append(regs,
			ping("customer.subscription.created"),
			ping("customer.subscription.updated"),
			ping("customer.subscription.deleted"),
			ping("invoice.paid"),
			ping("checkout.session.completed"),
		)
	}

	for _, r := range regs {
		if err := reg.Register(r.eventType, r.handler); err != nil {
			return err
		}
	}
	return nil
}
