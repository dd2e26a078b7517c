package testutil

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/tally/app"
	"github.com/sweater-ventures/tally/bus"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/entitlements"
	"github.com/sweater-ventures/tally/pricing"
)

// NewUUID returns a pgtype.UUID with a new random UUID.
func NewUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true}
}

// NewTimestamp returns a pgtype.Timestamptz set to now.
func NewTimestamp() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

// EventOpt is a functional option for building test Events.
type EventOpt func(*db.Event)

// NewEvent creates a db.Event with sensible defaults. Use options to override.
func NewEvent(opts ...EventOpt) db.Event {
	e := db.Event{
		ID:         NewUUID(),
		ExternalID: "evt_" + uuid.NewString(),
		EventType:  "customer.subscription.updated",
		Payload:    json.RawMessage(`{"id":"evt_test","type":"customer.subscription.updated","data":{"object":{}}}`),
		ReceivedAt: NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// CustomerOpt is a functional option for building test Customers.
type CustomerOpt func(*db.Customer)

// NewCustomer creates a db.Customer with sensible defaults.
func NewCustomer(opts ...CustomerOpt) db.Customer {
	c := db.Customer{
		ID:                 NewUUID(),
		ExternalCustomerID: "cus_" + uuid.NewString()[:8],
		BillingEmail:       "billing@example.com",
		CreatedAt:          NewTimestamp(),
		UpdatedAt:          NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SubscriptionOpt is a functional option for building test Subscriptions.
type SubscriptionOpt func(*db.Subscription)

// NewSubscription creates an active db.Subscription with sensible defaults.
func NewSubscription(opts ...SubscriptionOpt) db.Subscription {
	now := time.Now().UTC()
	s := db.Subscription{
		ID:                     NewUUID(),
		CustomerID:             NewUUID(),
		ExternalSubscriptionID: "sub_" + uuid.NewString()[:8],
		PriceID:                "price_pro_monthly",
		Status:                 "active",
		CurrentPeriodStart:     pgtype.Timestamptz{Time: now, Valid: true},
		CurrentPeriodEnd:       pgtype.Timestamptz{Time: now.Add(30 * 24 * time.Hour), Valid: true},
		CreatedAt:              NewTimestamp(),
		UpdatedAt:              NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// EntitlementOpt is a functional option for building test Entitlements.
type EntitlementOpt func(*db.Entitlement)

// NewEntitlement creates an active db.Entitlement with sensible defaults.
func NewEntitlement(opts ...EntitlementOpt) db.Entitlement {
	e := db.Entitlement{
		ID:         NewUUID(),
		CustomerID: NewUUID(),
		Feature:    "pro",
		GrantedBy:  "subscription",
		IsActive:   true,
		CreatedAt:  NewTimestamp(),
		UpdatedAt:  NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// PurchaseOpt is a functional option for building test Purchases.
type PurchaseOpt func(*db.Purchase)

// NewPurchase creates a paid db.Purchase with sensible defaults.
func NewPurchase(opts ...PurchaseOpt) db.Purchase {
	p := db.Purchase{
		ID:                NewUUID(),
		CustomerID:        NewUUID(),
		PurchaseType:      "renewal",
		Status:            "paid",
		AmountCents:       2999,
		ProductName:       "Pro Plan",
		PriceID:           "price_pro_monthly",
		ExternalInvoiceID: "in_" + uuid.NewString()[:8],
		ExternalChargeID:  "ch_" + uuid.NewString()[:8],
		CreatedAt:         NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// ScheduledEventOpt is a functional option for building test ScheduledEvents.
type ScheduledEventOpt func(*db.ScheduledEvent)

// NewScheduledEvent creates a due, unprocessed db.ScheduledEvent.
func NewScheduledEvent(opts ...ScheduledEventOpt) db.ScheduledEvent {
	s := db.ScheduledEvent{
		ID:        NewUUID(),
		EventType: "subscription.reminder",
		ExecuteAt: pgtype.Timestamptz{Time: time.Now().UTC().Add(-time.Minute), Valid: true},
		Payload:   json.RawMessage(`{}`),
		CreatedAt: NewTimestamp(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Envelope builds a provider webhook body for the given event type and object.
func Envelope(externalID, eventType string, object any) []byte {
	obj, err := json.Marshal(object)
	if err != nil {
		panic(fmt.Sprintf("testutil: failed to marshal envelope object: %v", err))
	}
	body, _ := json.Marshal(map[string]any{
		"id":   externalID,
		"type": eventType,
		"data": map[string]json.RawMessage{"object": obj},
	})
	return body
}

// AppOpt is a functional option for building test Applications.
type AppOpt func(*app.Application)

// NewTestApp creates an app.Application suitable for testing.
// It uses the provided mock Querier and sensible config defaults.
func NewTestApp(mockDB *MockQuerier, opts ...AppOpt) *app.Application {
	a := &app.Application{
		Config: config.AppConfig{
			Port:                 8015,
			AdminSecret:          "test-admin-secret",
			WebhookSecret:        "test-webhook-secret",
			EventRetentionDays:   90,
			WebhookMaxAttempts:   5,
			ScheduledMaxAttempts: 5,
			PollBatchSize:        100,
			RunnerWorkers:        2,
			RunnerQueueSize:      100,
		},
		DB:           mockDB,
		Bus:          bus.New(),
		Features:     pricing.Default(),
		Entitlements: entitlements.NewService(nil),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
