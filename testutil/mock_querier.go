package testutil

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"
	"github.com/sweater-ventures/tally/db"
)

// MockQuerier is a testify mock implementation of db.Querier.
type MockQuerier struct {
	mock.Mock
}

var _ db.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) ApplyPurchaseRefund(ctx context.Context, arg db.ApplyPurchaseRefundParams) (db.Purchase, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Purchase), args.Error(1)
}

func (m *MockQuerier) ClaimDueScheduledEvents(ctx context.Context, arg db.ClaimDueScheduledEventsParams) ([]db.ScheduledEvent, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.ScheduledEvent), args.Error(1)
}

func (m *MockQuerier) DeleteProcessedEventsBefore(ctx context.Context, receivedAt pgtype.Timestamptz) (int64, error) {
	args := m.Called(ctx, receivedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) GetActiveEntitlement(ctx context.Context, arg db.GetActiveEntitlementParams) (db.Entitlement, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Entitlement), args.Error(1)
}

func (m *MockQuerier) GetCustomerByExternalID(ctx context.Context, externalCustomerID string) (db.Customer, error) {
	args := m.Called(ctx, externalCustomerID)
	return args.Get(0).(db.Customer), args.Error(1)
}

func (m *MockQuerier) GetCustomerByID(ctx context.Context, id pgtype.UUID) (db.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Customer), args.Error(1)
}

func (m *MockQuerier) GetEventByExternalID(ctx context.Context, externalID string) (db.Event, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(db.Event), args.Error(1)
}

func (m *MockQuerier) GetEventByID(ctx context.Context, id pgtype.UUID) (db.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(db.Event), args.Error(1)
}

func (m *MockQuerier) GetPurchaseByChargeID(ctx context.Context, externalChargeID string) (db.Purchase, error) {
	args := m.Called(ctx, externalChargeID)
	return args.Get(0).(db.Purchase), args.Error(1)
}

func (m *MockQuerier) GetPurchaseByCheckoutSessionID(ctx context.Context, externalCheckoutSessionID string) (db.Purchase, error) {
	args := m.Called(ctx, externalCheckoutSessionID)
	return args.Get(0).(db.Purchase), args.Error(1)
}

func (m *MockQuerier) GetPurchaseByPaymentIntentID(ctx context.Context, externalPaymentIntentID string) (db.Purchase, error) {
	args := m.Called(ctx, externalPaymentIntentID)
	return args.Get(0).(db.Purchase), args.Error(1)
}

func (m *MockQuerier) GetSubscriptionByExternalID(ctx context.Context, externalSubscriptionID string) (db.Subscription, error) {
	args := m.Called(ctx, externalSubscriptionID)
	return args.Get(0).(db.Subscription), args.Error(1)
}

func (m *MockQuerier) GetSubscriptionByExternalIDForUpdate(ctx context.Context, externalSubscriptionID string) (db.Subscription, error) {
	args := m.Called(ctx, externalSubscriptionID)
	return args.Get(0).(db.Subscription), args.Error(1)
}

func (m *MockQuerier) IncrementEntitlementUsage(ctx context.Context, id pgtype.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuerier) InsertCheckoutPurchase(ctx context.Context, arg db.InsertCheckoutPurchaseParams) (db.Purchase, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Purchase), args.Error(1)
}

func (m *MockQuerier) InsertCustomer(ctx context.Context, arg db.InsertCustomerParams) (db.Customer, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Customer), args.Error(1)
}

func (m *MockQuerier) InsertEvent(ctx context.Context, arg db.InsertEventParams) (db.Event, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Event), args.Error(1)
}

func (m *MockQuerier) InsertScheduledEvent(ctx context.Context, arg db.InsertScheduledEventParams) (db.ScheduledEvent, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.ScheduledEvent), args.Error(1)
}

func (m *MockQuerier) ListActiveEntitlementsForCustomer(ctx context.Context, customerID pgtype.UUID) ([]db.Entitlement, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]db.Entitlement), args.Error(1)
}

func (m *MockQuerier) ListActiveFeaturesForCustomer(ctx context.Context, customerID pgtype.UUID) ([]string, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuerier) ListActiveFeaturesForSubscription(ctx context.Context, subscriptionID pgtype.UUID) ([]string, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuerier) ListEvents(ctx context.Context, arg db.ListEventsParams) ([]db.Event, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Event), args.Error(1)
}

func (m *MockQuerier) ListHandlerCompletionsForEvent(ctx context.Context, eventID pgtype.UUID) ([]db.HandlerCompletion, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]db.HandlerCompletion), args.Error(1)
}

func (m *MockQuerier) ListPastDueSubscriptionsBefore(ctx context.Context, currentPeriodEnd pgtype.Timestamptz) ([]db.Subscription, error) {
	args := m.Called(ctx, currentPeriodEnd)
	return args.Get(0).([]db.Subscription), args.Error(1)
}

func (m *MockQuerier) ListPurchasesByInvoiceID(ctx context.Context, externalInvoiceID string) ([]db.Purchase, error) {
	args := m.Called(ctx, externalInvoiceID)
	return args.Get(0).([]db.Purchase), args.Error(1)
}

func (m *MockQuerier) ListSubscriptionsRenewingBetween(ctx context.Context, arg db.ListSubscriptionsRenewingBetweenParams) ([]db.Subscription, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]db.Subscription), args.Error(1)
}

func (m *MockQuerier) ListUnprocessedEvents(ctx context.Context) ([]db.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]db.Event), args.Error(1)
}

func (m *MockQuerier) MarkEventProcessed(ctx context.Context, id pgtype.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuerier) MarkHandlerCompleted(ctx context.Context, id pgtype.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuerier) MarkPurchaseDisputed(ctx context.Context, arg db.MarkPurchaseDisputedParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockQuerier) MarkScheduledEventProcessed(ctx context.Context, id pgtype.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuerier) RecordScheduledEventFailure(ctx context.Context, arg db.RecordScheduledEventFailureParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockQuerier) RevokeEntitlement(ctx context.Context, arg db.RevokeEntitlementParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) RevokeEntitlementsForSubscription(ctx context.Context, arg db.RevokeEntitlementsForSubscriptionParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) RevokeSubscriptionFeatures(ctx context.Context, arg db.RevokeSubscriptionFeaturesParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuerier) UpdateCustomerBillingEmail(ctx context.Context, arg db.UpdateCustomerBillingEmailParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockQuerier) UpdateSubscription(ctx context.Context, arg db.UpdateSubscriptionParams) (db.Subscription, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Subscription), args.Error(1)
}

func (m *MockQuerier) UpsertEntitlement(ctx context.Context, arg db.UpsertEntitlementParams) (db.Entitlement, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Entitlement), args.Error(1)
}

func (m *MockQuerier) UpsertHandlerCompletion(ctx context.Context, arg db.UpsertHandlerCompletionParams) (db.HandlerCompletion, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.HandlerCompletion), args.Error(1)
}

func (m *MockQuerier) UpsertInvoicePurchase(ctx context.Context, arg db.UpsertInvoicePurchaseParams) (db.Purchase, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Purchase), args.Error(1)
}

func (m *MockQuerier) UpsertSubscription(ctx context.Context, arg db.UpsertSubscriptionParams) (db.Subscription, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(db.Subscription), args.Error(1)
}
