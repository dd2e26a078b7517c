package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/testutil"
)

func TestIngestion_DuplicateDeliveriesStoreOneRow(t *testing.T) {
	truncateAll(t)
	tally := newTestApp(t)
	router := newTestRouter(t, tally)

	body := testutil.Envelope("evt_dup_1", "customer.subscription.updated", map[string]any{
		"id":       "sub_1",
		"customer": "cus_1",
		"status":   "active",
	})

	first := postWebhook(t, router, body)
	if first.Code != http.StatusOK {
		t.Fatalf("first delivery: expected 200, got %d: %s", first.Code, first.Body.String())
	}
	var firstResp map[string]any
	if err := json.NewDecoder(first.Body).Decode(&firstResp); err != nil {
		t.Fatalf("decode first response: %v", err)
	}
	if firstResp["duplicate"] != nil {
		t.Fatalf("first delivery flagged as duplicate: %v", firstResp)
	}

	second := postWebhook(t, router, body)
	if second.Code != http.StatusOK {
		t.Fatalf("redelivery: expected 200, got %d: %s", second.Code, second.Body.String())
	}
	var secondResp map[string]any
	if err := json.NewDecoder(second.Body).Decode(&secondResp); err != nil {
		t.Fatalf("decode second response: %v", err)
	}
	if secondResp["duplicate"] != true {
		t.Fatalf("redelivery not flagged as duplicate: %v", secondResp)
	}
	if secondResp["event_id"] != firstResp["event_id"] {
		t.Fatalf("duplicate returned a different event id: %v vs %v", secondResp["event_id"], firstResp["event_id"])
	}

	events, err := tally.DB.ListEvents(context.Background(), db.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 stored event after duplicate delivery, got %d", len(events))
	}
	if events[0].ExternalID != "evt_dup_1" {
		t.Fatalf("unexpected external id %q", events[0].ExternalID)
	}
}

func TestIngestion_RejectsTamperedBody(t *testing.T) {
	truncateAll(t)
	tally := newTestApp(t)
	router := newTestRouter(t, tally)

	body := testutil.Envelope("evt_tampered", "customer.subscription.updated", map[string]any{"id": "sub_1"})
	req := testutil.NewWebhookRequest(t, "/api/webhooks/provider", testWebhookSecret, body)
	req.Header.Set("X-Tally-Signature", "deadbeef")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad signature, got %d", rec.Code)
	}

	events, err := tally.DB.ListEvents(context.Background(), db.ListEventsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no stored events for rejected delivery, got %d", len(events))
	}
}
