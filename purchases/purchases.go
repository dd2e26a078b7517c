package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
)

// Purchase types.
const (
	TypeSubscriptionNew     = "subscription_new"
	TypeSubscriptionRenewal = "subscription_renewal"
	TypeSubscriptionUpgrade = "subscription_upgrade"
	TypeOneTime             = "one_time"
)

// Purchase statuses.
const (
	StatusPaid              = "paid"
	StatusPartiallyRefunded = "partially_refunded"
	StatusRefunded          = "refunded"
	StatusDisputed          = "disputed"
)

// TypeForBillingReason maps a provider invoice billing reason to a purchase
// type.
func TypeForBillingReason(reason string) string {
	switch reason {
	case "subscription_create":
		return TypeSubscriptionNew
	case "subscription_cycle":
		return TypeSubscriptionRenewal
	case "subscription_update":
		return TypeSubscriptionUpgrade
	default:
		return TypeOneTime
	}
}

// InvoiceLine is one purchasable line from a paid invoice.
type InvoiceLine struct {
	AmountCents int64
	ProductName string
	PriceID     string
}

// RecordInvoicePaid upserts one purchase per invoice line. The unique
// (invoice, price) index makes re-delivery of the same invoice idempotent.
func RecordInvoicePaid(ctx context.Context, q db.Querier, customerID pgtype.UUID, purchaseType, invoiceID, chargeID, paymentIntentID string, lines []InvoiceLine) (int, error) {
	for _, line := range lines {
		_, err := q.UpsertInvoicePurchase(ctx, db.UpsertInvoicePurchaseParams{
			ID:                      db.NewID(),
			CustomerID:              customerID,
			PurchaseType:            purchaseType,
			AmountCents:             line.AmountCents,
			ProductName:             line.ProductName,
			PriceID:                 line.PriceID,
			ExternalInvoiceID:       invoiceID,
			ExternalChargeID:        chargeID,
			ExternalPaymentIntentID: paymentIntentID,
		})
		if err != nil {
			return 0, fmt.Errorf("record invoice line %s: %w", line.PriceID, err)
		}
	}
	return len(lines), nil
}

// RecordCheckoutPurchase stores a one-time checkout purchase, deduplicated
// on the checkout session ID. Returns created=false on a duplicate.
func RecordCheckoutPurchase(ctx context.Context, q db.Querier, customerID pgtype.UUID, amountCents int64, productName, sessionID, paymentIntentID string) (db.Purchase, bool, error) {
	purchase, err := q.InsertCheckoutPurchase(ctx, db.InsertCheckoutPurchaseParams{
		ID:                        db.NewID(),
		CustomerID:                customerID,
		AmountCents:               amountCents,
		ProductName:               productName,
		ExternalCheckoutSessionID: sessionID,
		ExternalPaymentIntentID:   paymentIntentID,
	})
	if err == nil {
		return purchase, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return db.Purchase{}, false, fmt.Errorf("record checkout purchase %s: %w", sessionID, err)
	}
	existing, err := q.GetPurchaseByCheckoutSessionID(ctx, sessionID)
	if err != nil {
		return db.Purchase{}, false, fmt.Errorf("fetch duplicate checkout purchase %s: %w", sessionID, err)
	}
	config.Logger(ctx).Info("Duplicate checkout session ignored", "session_id", sessionID)
	return existing, false, nil
}

// ApplyRefund brings the purchase's refunded amount up to the provider's
// cumulative figure. The increment is applied atomically in SQL and capped
// at the purchase amount, so re-delivered refund events cannot over-refund.
func ApplyRefund(ctx context.Context, q db.Querier, purchase db.Purchase, cumulativeRefundedCents int64) (db.Purchase, error) {
	delta := cumulativeRefundedCents - purchase.AmountRefundedCents
	if delta <= 0 {
		return purchase, nil
	}
	updated, err := q.ApplyPurchaseRefund(ctx, db.ApplyPurchaseRefundParams{
		ID:          purchase.ID,
		RefundCents: delta,
	})
	if err != nil {
		return db.Purchase{}, fmt.Errorf("apply refund to %s: %w", db.UuidToString(purchase.ID), err)
	}
	config.Logger(ctx).Info("Refund applied",
		"purchase_id", db.UuidToString(purchase.ID),
		"refund_cents", delta,
		"status", updated.Status,
	)
	return updated, nil
}

// FindByChargeOrPaymentIntent looks a purchase up by charge ID first, then
// payment intent ID. found=false when neither matches.
func FindByChargeOrPaymentIntent(ctx context.Context, q db.Querier, chargeID, paymentIntentID string) (db.Purchase, bool, error) {
	if chargeID != "" {
		purchase, err := q.GetPurchaseByChargeID(ctx, chargeID)
		if err == nil {
			return purchase, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return db.Purchase{}, false, err
		}
	}
	if paymentIntentID != "" {
		purchase, err := q.GetPurchaseByPaymentIntentID(ctx, paymentIntentID)
		if err == nil {
			return purchase, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return db.Purchase{}, false, err
		}
	}
	return db.Purchase{}, false, nil
}

// MarkDisputed flags the purchase as disputed.
func MarkDisputed(ctx context.Context, q db.Querier, purchase db.Purchase, reason string) error {
	if err := q.MarkPurchaseDisputed(ctx, db.MarkPurchaseDisputedParams{
		ID:            purchase.ID,
		DisputeReason: reason,
	}); err != nil {
		return fmt.Errorf("mark purchase disputed: %w", err)
	}
	config.Logger(ctx).Warn("Purchase disputed",
		"purchase_id", db.UuidToString(purchase.ID),
		"reason", reason,
	)
	return nil
}
