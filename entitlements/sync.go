package entitlements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
)

// GrantedBy values recorded on an entitlement.
const (
	GrantedBySubscription = "subscription"
	GrantedByTrial        = "trial"
	GrantedByManual       = "manual"
	GrantedByPromo        = "promo"
	GrantedByReferral     = "referral"
	GrantedByEmployee     = "employee"
)

// RevokeReasonFeatureRemoved is recorded when a sync drops a feature the
// subscription no longer carries.
const RevokeReasonFeatureRemoved = "Feature removed from subscription"

// TrialDays is the length of a trial grant.
const TrialDays = 14

const (
	cacheTTL       = 5 * time.Minute
	cacheKeyPrefix = "entitlements:"
)

// Service reconciles entitlement rows against subscription state. Mutating
// methods take the caller's Querier so they run inside the caller's
// transaction; HasAccess reads through a Redis cache (or an in-process one
// when Redis is not configured) that mutations invalidate.
type Service struct {
	redis *redis.Client
	local *Cache[[16]byte, []string]
}

func NewService(redisClient *redis.Client) *Service {
	return &Service{
		redis: redisClient,
		local: NewCache[[16]byte, []string](),
	}
}

// SyncFromSubscription reconciles the entitlement set for a subscription
// against the features its price grants: missing features are granted (or
// reactivated), features no longer granted are revoked. Unrelated grants
// (manual, trial, other subscriptions) are untouched.
func (s *Service) SyncFromSubscription(ctx context.Context, q db.Querier, sub db.Subscription, features []string) error {
	current, err := q.ListActiveFeaturesForSubscription(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("list current features: %w", err)
	}

	currentSet := make(map[string]bool, len(current))
	for _, f := range current {
		currentSet[f] = true
	}
	wantedSet := make(map[string]bool, len(features))
	for _, f := range features {
		wantedSet[f] = true
	}

	var granted int
	for _, f := range features {
		if currentSet[f] {
			continue
		}
		_, err := q.UpsertEntitlement(ctx, db.UpsertEntitlementParams{
			ID:             db.NewID(),
			CustomerID:     sub.CustomerID,
			Feature:        f,
			GrantedBy:      GrantedBySubscription,
			SubscriptionID: sub.ID,
		})
		if err != nil {
			return fmt.Errorf("grant %s: %w", f, err)
		}
		granted++
	}

	var toRevoke []string
	for _, f := range current {
		if !wantedSet[f] {
			toRevoke = append(toRevoke, f)
		}
	}
	var revoked int64
	if len(toRevoke) > 0 {
		revoked, err = q.RevokeSubscriptionFeatures(ctx, db.RevokeSubscriptionFeaturesParams{
			SubscriptionID: sub.ID,
			Features:       toRevoke,
			RevokeReason:   RevokeReasonFeatureRemoved,
		})
		if err != nil {
			return fmt.Errorf("revoke removed features: %w", err)
		}
	}

	if granted > 0 || revoked > 0 {
		config.Logger(ctx).Info("Entitlements synced",
			"subscription_id", db.UuidToString(sub.ID),
			"granted", granted,
			"revoked", revoked,
		)
	}
	s.invalidate(ctx, sub.CustomerID)
	return nil
}

// RevokeForSubscription revokes every active entitlement granted by the
// subscription, recording why.
func (s *Service) RevokeForSubscription(ctx context.Context, q db.Querier, sub db.Subscription, reason string) error {
	revoked, err := q.RevokeEntitlementsForSubscription(ctx, db.RevokeEntitlementsForSubscriptionParams{
		SubscriptionID: sub.ID,
		RevokeReason:   reason,
	})
	if err != nil {
		return fmt.Errorf("revoke subscription entitlements: %w", err)
	}
	if revoked > 0 {
		config.Logger(ctx).Info("Entitlements revoked",
			"subscription_id", db.UuidToString(sub.ID),
			"revoked", revoked,
			"reason", reason,
		)
	}
	s.invalidate(ctx, sub.CustomerID)
	return nil
}

// Grant creates or reactivates a single entitlement outside any
// subscription.
func (s *Service) Grant(ctx context.Context, q db.Querier, customerID pgtype.UUID, feature, grantedBy string, expiresAt pgtype.Timestamptz, usageLimit pgtype.Int4) (db.Entitlement, error) {
	ent, err := q.UpsertEntitlement(ctx, db.UpsertEntitlementParams{
		ID:         db.NewID(),
		CustomerID: customerID,
		Feature:    feature,
		GrantedBy:  grantedBy,
		ExpiresAt:  expiresAt,
		UsageLimit: usageLimit,
	})
	if err != nil {
		return db.Entitlement{}, fmt.Errorf("grant %s: %w", feature, err)
	}
	s.invalidate(ctx, customerID)
	return ent, nil
}

// GrantTrial grants the features for a trial period.
func (s *Service) GrantTrial(ctx context.Context, q db.Querier, customerID pgtype.UUID, features []string, now time.Time) error {
	expiresAt := db.Timestamptz(now.Add(TrialDays * 24 * time.Hour))
	for _, f := range features {
		if _, err := s.Grant(ctx, q, customerID, f, GrantedByTrial, expiresAt, pgtype.Int4{}); err != nil {
			return err
		}
	}
	return nil
}

// Revoke deactivates a customer's entitlement to a feature. Returns false
// when there was no active entitlement.
func (s *Service) Revoke(ctx context.Context, q db.Querier, customerID pgtype.UUID, feature, reason string) (bool, error) {
	revoked, err := q.RevokeEntitlement(ctx, db.RevokeEntitlementParams{
		CustomerID:   customerID,
		Feature:      feature,
		RevokeReason: reason,
	})
	if err != nil {
		return false, fmt.Errorf("revoke %s: %w", feature, err)
	}
	s.invalidate(ctx, customerID)
	return revoked > 0, nil
}

// HasAccess reports whether the customer holds a currently valid
// entitlement to the feature: active, unexpired, and under its usage limit.
func (s *Service) HasAccess(ctx context.Context, q db.Querier, customerID pgtype.UUID, feature string) (bool, error) {
	if features, ok := s.cachedFeatures(ctx, customerID); ok {
		for _, f := range features {
			if f == feature {
				return true, nil
			}
		}
		return false, nil
	}

	features, err := s.validFeatures(ctx, q, customerID, time.Now())
	if err != nil {
		return false, err
	}
	s.storeFeatures(ctx, customerID, features)
	for _, f := range features {
		if f == feature {
			return true, nil
		}
	}
	return false, nil
}

// validFeatures loads the customer's active entitlements and filters out
// expired and used-up ones.
func (s *Service) validFeatures(ctx context.Context, q db.Querier, customerID pgtype.UUID, now time.Time) ([]string, error) {
	ents, err := q.ListActiveEntitlementsForCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	features := make([]string, 0, len(ents))
	seen := make(map[string]bool)
	for _, ent := range ents {
		if ent.ExpiresAt.Valid && !ent.ExpiresAt.Time.After(now) {
			continue
		}
		if ent.UsageLimit.Valid && ent.UsageCount >= ent.UsageLimit.Int32 {
			continue
		}
		if !seen[ent.Feature] {
			seen[ent.Feature] = true
			features = append(features, ent.Feature)
		}
	}
	return features, nil
}

func cacheKey(customerID pgtype.UUID) string {
	return cacheKeyPrefix + db.UuidToString(customerID)
}

func (s *Service) cachedFeatures(ctx context.Context, customerID pgtype.UUID) ([]string, bool) {
	if s.redis == nil {
		features, found, inCache := s.local.Get(customerID.Bytes)
		return features, found && inCache
	}
	body, err := s.redis.Get(ctx, cacheKey(customerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			config.Logger(ctx).Warn("Entitlement cache read failed", "error", err)
		}
		return nil, false
	}
	var features []string
	if err := json.Unmarshal(body, &features); err != nil {
		return nil, false
	}
	return features, true
}

func (s *Service) storeFeatures(ctx context.Context, customerID pgtype.UUID, features []string) {
	if s.redis == nil {
		s.local.Set(customerID.Bytes, features, true)
		return
	}
	body, err := json.Marshal(features)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(customerID), body, cacheTTL).Err(); err != nil {
		config.Logger(ctx).Warn("Entitlement cache write failed", "error", err)
	}
}

func (s *Service) invalidate(ctx context.Context, customerID pgtype.UUID) {
	if s.redis == nil {
		s.local.Delete(customerID.Bytes)
		return
	}
	if err := s.redis.Del(ctx, cacheKey(customerID)).Err(); err != nil {
		config.Logger(ctx).Warn("Entitlement cache invalidation failed", "error", err)
	}
}
