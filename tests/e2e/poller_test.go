package e2e

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweater-ventures/tally/scheduler"
	"github.com/sweater-ventures/tally/subscriptions"
)

func TestPoller_ConcurrentPollersClaimEachRowOnce(t *testing.T) {
	truncateAll(t)
	tally := newTestApp(t)

	customer := seedCustomer(t, tally.DB, "cus_poll_1")
	seedSubscription(t, tally.DB, customer.ID, "sub_poll_1", "price_pro_monthly")

	_, err := scheduler.Schedule(context.Background(), tally.DB, subscriptions.EventTypeReminder,
		time.Now().Add(-time.Minute), subscriptions.ReminderPayload{
			ExternalSubscriptionID: "sub_poll_1",
			DaysUntilRenewal:       7,
		})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	pollerA := scheduler.NewPoller(tally.ExecTx, tally.Dispatcher, 5, 100, time.Minute)
	pollerB := scheduler.NewPoller(tally.ExecTx, tally.Dispatcher, 5, 100, time.Minute)

	// Two pollers racing over the same due row: FOR UPDATE SKIP LOCKED
	// guarantees exactly one of them claims it.
	var wg sync.WaitGroup
	claims := make([]int, 2)
	for i, p := range []*scheduler.Poller{pollerA, pollerB} {
		wg.Add(1)
		go func(i int, p *scheduler.Poller) {
			defer wg.Done()
			n, err := p.RunOnce(context.Background())
			if err != nil {
				t.Errorf("RunOnce: %v", err)
				return
			}
			claims[i] = n
		}(i, p)
	}
	wg.Wait()

	if claims[0]+claims[1] != 1 {
		t.Fatalf("expected exactly 1 claim across both pollers, got %d + %d", claims[0], claims[1])
	}

	// The row is processed; another run finds nothing.
	n, err := pollerA.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce after processing: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 claims on second pass, got %d", n)
	}
}

func TestPoller_FailedEventRetriesUntilMaxAttempts(t *testing.T) {
	truncateAll(t)
	tally := newTestApp(t)

	// days_until_renewal must be a number; this payload fails to decode on
	// every attempt.
	bad, err := scheduler.Schedule(context.Background(), tally.DB, subscriptions.EventTypeReminder,
		time.Now().Add(-time.Minute), json.RawMessage(`{"external_subscription_id":"sub_x","days_until_renewal":"soon"}`))
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	poller := scheduler.NewPoller(tally.ExecTx, tally.Dispatcher, 2, 100, time.Minute)

	for attempt := 1; attempt <= 2; attempt++ {
		n, err := poller.RunOnce(context.Background())
		if err != nil {
			t.Fatalf("RunOnce attempt %d: %v", attempt, err)
		}
		if n != 1 {
			t.Fatalf("attempt %d: expected 1 claim, got %d", attempt, n)
		}
	}

	// Max attempts reached: the row is no longer claimable.
	n, err := poller.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce after abandon: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected abandoned event to stay unclaimed, got %d claims", n)
	}

	var attempts int32
	var lastError string
	err = testPool.QueryRow(context.Background(),
		"SELECT attempts, last_error FROM scheduled_events WHERE id = $1", bad.ID).Scan(&attempts, &lastError)
	if err != nil {
		t.Fatalf("query scheduled event: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 recorded attempts, got %d", attempts)
	}
	if lastError == "" {
		t.Error("expected last_error to be recorded")
	}
}
