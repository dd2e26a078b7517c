package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/purchases"
	"github.com/sweater-ventures/tally/webhook"
)

func (d *Deps) recordInvoicePurchases(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.InvoicePayload](payload)
	if err != nil {
		return err
	}

	customer, err := q.GetCustomerByExternalID(ctx, obj.Customer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return webhook.Retry("customer not known yet", map[string]any{
				"external_customer_id": obj.Customer,
				"invoice_id":           obj.ID,
			})
		}
		return webhook.Infra("load customer", err, nil)
	}

	purchaseType := purchases.TypeForBillingReason(obj.BillingReason)
	lines := make([]purchases.InvoiceLine, 0, len(obj.Lines.Data))
	for _, line := range obj.Lines.Data {
		if line.Amount <= 0 {
			continue
		}
		lines = append(lines, purchases.InvoiceLine{
			AmountCents: line.Amount,
			ProductName: line.Description,
			PriceID:     line.Price.ID,
		})
	}
	if len(lines) == 0 {
		return webhook.Skip("invoice has no chargeable lines", map[string]any{
			"invoice_id": obj.ID,
		})
	}

	recorded, err := purchases.RecordInvoicePaid(ctx, q, customer.ID, purchaseType, obj.ID, obj.Charge, obj.PaymentIntent, lines)
	if err != nil {
		return webhook.Infra("record invoice purchases", err, nil)
	}
	config.Logger(ctx).Info("Invoice purchases recorded",
		"invoice_id", obj.ID,
		"purchase_type", purchaseType,
		"lines", recorded,
	)
	return nil
}

func (d *Deps) recordCheckoutPurchase(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.CheckoutSessionPayload](payload)
	if err != nil {
		return err
	}

	if obj.Mode != "payment" {
		return webhook.Skip("not a one-time payment session", map[string]any{
			"session_id": obj.ID,
			"mode":       obj.Mode,
		})
	}
	if obj.PaymentStatus != "paid" {
		return webhook.Skip("session not paid", map[string]any{
			"session_id":     obj.ID,
			"payment_status": obj.PaymentStatus,
		})
	}
	if obj.Customer == "" {
		return webhook.Skip("session has no customer", map[string]any{
			"session_id": obj.ID,
		})
	}

	customer, err := q.GetCustomerByExternalID(ctx, obj.Customer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return webhook.Retry("customer not known yet", map[string]any{
				"external_customer_id": obj.Customer,
				"session_id":           obj.ID,
			})
		}
		return webhook.Infra("load customer", err, nil)
	}

	_, created, err := purchases.RecordCheckoutPurchase(ctx, q, customer.ID, obj.AmountTotal, "One-time purchase", obj.ID, obj.PaymentIntent)
	if err != nil {
		return webhook.Infra("record checkout purchase", err, nil)
	}
	if created {
		config.Logger(ctx).Info("Checkout purchase recorded",
			"session_id", obj.ID,
			"amount_cents", obj.AmountTotal,
		)
	}
	return nil
}

func (d *Deps) applyChargeRefund(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.ChargePayload](payload)
	if err != nil {
		return err
	}

	purchase, found, err := purchases.FindByChargeOrPaymentIntent(ctx, q, obj.ID, obj.PaymentIntent)
	if err != nil {
		return webhook.Infra("find purchase for charge", err, nil)
	}
	if !found {
		return webhook.Skip("no purchase for refunded charge", map[string]any{
			"charge_id": obj.ID,
		})
	}

	if _, err := purchases.ApplyRefund(ctx, q, purchase, obj.AmountRefunded); err != nil {
		return webhook.Infra("apply refund", err, nil)
	}
	return nil
}

func (d *Deps) flagDisputedPurchase(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.DisputePayload](payload)
	if err != nil {
		return err
	}

	purchase, found, err := purchases.FindByChargeOrPaymentIntent(ctx, q, obj.Charge, obj.PaymentIntent)
	if err != nil {
		return webhook.Infra("find purchase for dispute", err, nil)
	}
	if !found {
		return webhook.Skip("no purchase for disputed charge", map[string]any{
			"dispute_id": obj.ID,
			"charge_id":  obj.Charge,
		})
	}

	if err := purchases.MarkDisputed(ctx, q, purchase, obj.Reason); err != nil {
		return webhook.Infra("mark disputed", err, nil)
	}
	return nil
}

// logFailedPayment is observation-only: the provider drives the status
// change (past_due) through subscription.updated, this handler just leaves
// a trace for support.
func (d *Deps) logFailedPayment(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.PaymentIntentPayload](payload)
	if err != nil {
		return err
	}
	config.Logger(ctx).Warn("Payment failed",
		"payment_intent_id", obj.ID,
		"external_customer_id", obj.Customer,
		"amount_cents", obj.Amount,
		"error_code", obj.LastPaymentError.Code,
		"error_message", obj.LastPaymentError.Message,
	)
	return nil
}
