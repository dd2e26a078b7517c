package e2e

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sweater-ventures/tally/testutil"
)

func TestRefunds_InvoiceSplitAndCappedRefunds(t *testing.T) {
	truncateAll(t)
	tally := newTestApp(t)
	router := newTestRouter(t, tally)

	seedCustomer(t, tally.DB, "cus_ref_1")

	tally.Runner.Start(2)
	defer tally.Runner.Stop()

	// A paid invoice with two chargeable lines and one credit line becomes
	// two purchase rows; the credit is dropped.
	invoice := testutil.Envelope("evt_ref_inv", "invoice.paid", map[string]any{
		"id":             "in_ref_1",
		"customer":       "cus_ref_1",
		"billing_reason": "subscription_cycle",
		"charge":         "ch_ref_1",
		"lines": map[string]any{"data": []map[string]any{
			{"amount": 1000, "description": "Base Plan", "price": map[string]string{"id": "price_basic_monthly"}},
			{"amount": 1999, "description": "Seats", "price": map[string]string{"id": "price_seats"}},
			{"amount": -500, "description": "Credit", "price": map[string]string{"id": "price_credit"}},
		}},
	})
	if rec := postWebhook(t, router, invoice); rec.Code != http.StatusOK {
		t.Fatalf("invoice: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	waitForEventProcessed(t, tally.DB, "evt_ref_inv", 10*time.Second)

	purchases, err := tally.DB.ListPurchasesByInvoiceID(context.Background(), "in_ref_1")
	if err != nil {
		t.Fatalf("ListPurchasesByInvoiceID: %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("expected 2 purchases from the invoice, got %d", len(purchases))
	}
	var total int64
	for _, p := range purchases {
		total += p.AmountCents
		if p.PurchaseType != "subscription_renewal" {
			t.Errorf("expected subscription_renewal, got %q", p.PurchaseType)
		}
	}
	if total != 2999 {
		t.Fatalf("expected purchases to total 2999 cents, got %d", total)
	}

	// Redelivering the same invoice under a new event id must not create
	// more purchase rows: the (invoice, price) unique index absorbs it.
	redelivered := testutil.Envelope("evt_ref_inv_2", "invoice.paid", map[string]any{
		"id":             "in_ref_1",
		"customer":       "cus_ref_1",
		"billing_reason": "subscription_cycle",
		"charge":         "ch_ref_1",
		"lines": map[string]any{"data": []map[string]any{
			{"amount": 1000, "description": "Base Plan", "price": map[string]string{"id": "price_basic_monthly"}},
			{"amount": 1999, "description": "Seats", "price": map[string]string{"id": "price_seats"}},
		}},
	})
	if rec := postWebhook(t, router, redelivered); rec.Code != http.StatusOK {
		t.Fatalf("redelivered invoice: expected 200, got %d", rec.Code)
	}
	waitForEventProcessed(t, tally.DB, "evt_ref_inv_2", 10*time.Second)

	purchases, err = tally.DB.ListPurchasesByInvoiceID(context.Background(), "in_ref_1")
	if err != nil {
		t.Fatalf("ListPurchasesByInvoiceID: %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("expected still 2 purchases after redelivery, got %d", len(purchases))
	}

	// Refunds are matched by charge id, so use a single-line invoice with
	// its own charge for the refund arithmetic.
	solo := testutil.Envelope("evt_ref_solo", "invoice.paid", map[string]any{
		"id":             "in_ref_solo",
		"customer":       "cus_ref_1",
		"billing_reason": "manual",
		"charge":         "ch_ref_solo",
		"lines": map[string]any{"data": []map[string]any{
			{"amount": 1000, "description": "Add-on", "price": map[string]string{"id": "price_addon"}},
		}},
	})
	if rec := postWebhook(t, router, solo); rec.Code != http.StatusOK {
		t.Fatalf("solo invoice: expected 200, got %d", rec.Code)
	}
	waitForEventProcessed(t, tally.DB, "evt_ref_solo", 10*time.Second)

	// Partial refund against the charge: the provider reports a cumulative
	// figure, the pipeline applies only the delta to the matched purchase.
	refund1 := testutil.Envelope("evt_ref_part", "charge.refunded", map[string]any{
		"id":              "ch_ref_solo",
		"amount_refunded": 400,
	})
	if rec := postWebhook(t, router, refund1); rec.Code != http.StatusOK {
		t.Fatalf("refund: expected 200, got %d", rec.Code)
	}
	waitForEventProcessed(t, tally.DB, "evt_ref_part", 10*time.Second)

	refunded, err := tally.DB.GetPurchaseByChargeID(context.Background(), "ch_ref_solo")
	if err != nil {
		t.Fatalf("GetPurchaseByChargeID: %v", err)
	}
	if refunded.AmountRefundedCents != 400 {
		t.Fatalf("expected 400 cents refunded, got %d", refunded.AmountRefundedCents)
	}
	if refunded.Status != "partially_refunded" {
		t.Errorf("expected partially_refunded, got %q", refunded.Status)
	}

	// A later event reports the full cumulative amount; the refund is capped
	// at the purchase amount no matter what the event claims.
	refund2 := testutil.Envelope("evt_ref_full", "charge.refunded", map[string]any{
		"id":              "ch_ref_solo",
		"amount_refunded": 99999,
	})
	if rec := postWebhook(t, router, refund2); rec.Code != http.StatusOK {
		t.Fatalf("full refund: expected 200, got %d", rec.Code)
	}
	waitForEventProcessed(t, tally.DB, "evt_ref_full", 10*time.Second)

	refunded, err = tally.DB.GetPurchaseByChargeID(context.Background(), "ch_ref_solo")
	if err != nil {
		t.Fatalf("GetPurchaseByChargeID: %v", err)
	}
	if refunded.AmountRefundedCents != refunded.AmountCents {
		t.Fatalf("expected refund capped at %d cents, got %d", refunded.AmountCents, refunded.AmountRefundedCents)
	}
	if refunded.Status != "refunded" {
		t.Errorf("expected refunded status, got %q", refunded.Status)
	}
}
