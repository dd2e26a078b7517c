package entitlements_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/entitlements"
	"github.com/sweater-ventures/tally/testutil"
)

func TestSyncFromSubscription_GrantsMissingFeatures(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	sub := testutil.NewSubscription()
	svc := entitlements.NewService(nil)

	mockDB.On("ListActiveFeaturesForSubscription", mock.Anything, sub.ID).Return([]string{"pro"}, nil)
	for _, feature := range []string{"api_access", "priority_support"} {
		feature := feature
		mockDB.On("UpsertEntitlement", mock.Anything, mock.MatchedBy(func(arg db.UpsertEntitlementParams) bool {
			return arg.CustomerID == sub.CustomerID &&
				arg.Feature == feature &&
				arg.GrantedBy == entitlements.GrantedBySubscription &&
				arg.SubscriptionID == sub.ID
		})).Return(db.Entitlement{}, nil).Once()
	}

	err := svc.SyncFromSubscription(context.Background(), mockDB, sub, []string{"pro", "api_access", "priority_support"})

	require.NoError(t, err)
	// "pro" was already granted, nothing to revoke
	mockDB.AssertNotCalled(t, "RevokeSubscriptionFeatures", mock.Anything, mock.Anything)
	mockDB.AssertExpectations(t)
}

func TestSyncFromSubscription_RevokesRemovedFeatures(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	sub := testutil.NewSubscription(func(s *db.Subscription) { s.PriceID = "price_basic_monthly" })
	svc := entitlements.NewService(nil)

	// Downgrade: pro features held, only basic wanted
	mockDB.On("ListActiveFeaturesForSubscription", mock.Anything, sub.ID).
		Return([]string{"pro", "api_access", "priority_support"}, nil)
	mockDB.On("UpsertEntitlement", mock.Anything, mock.MatchedBy(func(arg db.UpsertEntitlementParams) bool {
		return arg.Feature == "basic"
	})).Return(db.Entitlement{}, nil)
	mockDB.On("RevokeSubscriptionFeatures", mock.Anything, mock.MatchedBy(func(arg db.RevokeSubscriptionFeaturesParams) bool {
		revoked := make(map[string]bool, len(arg.Features))
		for _, f := range arg.Features {
			revoked[f] = true
		}
		return arg.SubscriptionID == sub.ID &&
			arg.RevokeReason == entitlements.RevokeReasonFeatureRemoved &&
			len(arg.Features) == 3 &&
			revoked["pro"] && revoked["api_access"] && revoked["priority_support"]
	})).Return(int64(3), nil)

	err := svc.SyncFromSubscription(context.Background(), mockDB, sub, []string{"basic"})

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestSyncFromSubscription_NoChangesIsQuiet(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	sub := testutil.NewSubscription()
	svc := entitlements.NewService(nil)

	mockDB.On("ListActiveFeaturesForSubscription", mock.Anything, sub.ID).
		Return([]string{"pro", "api_access", "priority_support"}, nil)

	err := svc.SyncFromSubscription(context.Background(), mockDB, sub, []string{"pro", "api_access", "priority_support"})

	require.NoError(t, err)
	mockDB.AssertNotCalled(t, "UpsertEntitlement", mock.Anything, mock.Anything)
	mockDB.AssertNotCalled(t, "RevokeSubscriptionFeatures", mock.Anything, mock.Anything)
}

func TestRevokeForSubscription(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	sub := testutil.NewSubscription()
	svc := entitlements.NewService(nil)

	mockDB.On("RevokeEntitlementsForSubscription", mock.Anything, db.RevokeEntitlementsForSubscriptionParams{
		SubscriptionID: sub.ID,
		RevokeReason:   "Subscription canceled",
	}).Return(int64(3), nil)

	err := svc.RevokeForSubscription(context.Background(), mockDB, sub, "Subscription canceled")

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestGrantTrial_GrantsEachFeatureWithExpiry(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	customerID := testutil.NewUUID()
	svc := entitlements.NewService(nil)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	wantExpiry := now.Add(entitlements.TrialDays * 24 * time.Hour)

	for _, feature := range []string{"pro", "api_access"} {
		feature := feature
		mockDB.On("UpsertEntitlement", mock.Anything, mock.MatchedBy(func(arg db.UpsertEntitlementParams) bool {
			return arg.Feature == feature &&
				arg.GrantedBy == entitlements.GrantedByTrial &&
				arg.ExpiresAt.Valid && arg.ExpiresAt.Time.Equal(wantExpiry)
		})).Return(db.Entitlement{}, nil).Once()
	}

	err := svc.GrantTrial(context.Background(), mockDB, customerID, []string{"pro", "api_access"}, now)

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestRevoke_ReportsWhetherAnythingWasRevoked(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	customerID := testutil.NewUUID()
	svc := entitlements.NewService(nil)

	mockDB.On("RevokeEntitlement", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	revoked, err := svc.Revoke(context.Background(), mockDB, customerID, "pro", "support request")
	require.NoError(t, err)
	assert.True(t, revoked)

	mockDB.On("RevokeEntitlement", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	revoked, err = svc.Revoke(context.Background(), mockDB, customerID, "pro", "support request")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestHasAccess_FiltersExpiredAndUsedUpEntitlements(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	customerID := testutil.NewUUID()
	svc := entitlements.NewService(nil)

	valid := testutil.NewEntitlement(func(e *db.Entitlement) {
		e.CustomerID = customerID
		e.Feature = "pro"
	})
	expired := testutil.NewEntitlement(func(e *db.Entitlement) {
		e.CustomerID = customerID
		e.Feature = "api_access"
		e.ExpiresAt = db.Timestamptz(time.Now().Add(-time.Hour))
	})
	usedUp := testutil.NewEntitlement(func(e *db.Entitlement) {
		e.CustomerID = customerID
		e.Feature = "exports"
		e.UsageLimit = pgtype.Int4{Int32: 10, Valid: true}
		e.UsageCount = 10
	})

	mockDB.On("ListActiveEntitlementsForCustomer", mock.Anything, customerID).
		Return([]db.Entitlement{valid, expired, usedUp}, nil).Once()

	ok, err := svc.HasAccess(context.Background(), mockDB, customerID, "pro")
	require.NoError(t, err)
	assert.True(t, ok)

	// Cached now: no second DB call for further checks
	ok, err = svc.HasAccess(context.Background(), mockDB, customerID, "api_access")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.HasAccess(context.Background(), mockDB, customerID, "exports")
	require.NoError(t, err)
	assert.False(t, ok)

	mockDB.AssertExpectations(t)
}

func TestHasAccess_CacheInvalidatedByMutations(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	sub := testutil.NewSubscription()
	svc := entitlements.NewService(nil)

	granted := testutil.NewEntitlement(func(e *db.Entitlement) {
		e.CustomerID = sub.CustomerID
		e.Feature = "pro"
	})

	// First check caches an empty feature set
	mockDB.On("ListActiveEntitlementsForCustomer", mock.Anything, sub.CustomerID).
		Return([]db.Entitlement{}, nil).Once()
	ok, err := svc.HasAccess(context.Background(), mockDB, sub.CustomerID, "pro")
	require.NoError(t, err)
	assert.False(t, ok)

	// Sync grants the feature and must invalidate the cache
	mockDB.On("ListActiveFeaturesForSubscription", mock.Anything, sub.ID).Return([]string{}, nil)
	mockDB.On("UpsertEntitlement", mock.Anything, mock.Anything).Return(granted, nil)
	require.NoError(t, svc.SyncFromSubscription(context.Background(), mockDB, sub, []string{"pro"}))

	mockDB.On("ListActiveEntitlementsForCustomer", mock.Anything, sub.CustomerID).
		Return([]db.Entitlement{granted}, nil).Once()
	ok, err = svc.HasAccess(context.Background(), mockDB, sub.CustomerID, "pro")
	require.NoError(t, err)
	assert.True(t, ok)
	mockDB.AssertExpectations(t)
}
