package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/sweater-ventures/tally/db"
)

func TestIsActiveStatus(t *testing.T) {
	assert.True(t, IsActiveStatus(StatusActive))
	assert.True(t, IsActiveStatus(StatusTrialing))
	// past_due keeps access during the grace period
	assert.True(t, IsActiveStatus(StatusPastDue))

	assert.False(t, IsActiveStatus(StatusIncomplete))
	assert.False(t, IsActiveStatus(StatusIncompleteExpired))
	assert.False(t, IsActiveStatus(StatusPaused))
	assert.False(t, IsActiveStatus(StatusUnpaid))
	assert.False(t, IsActiveStatus(StatusCanceled))
	assert.False(t, IsActiveStatus("nonsense"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusCanceled))
	assert.True(t, IsTerminalStatus(StatusIncompleteExpired))
	assert.False(t, IsTerminalStatus(StatusActive))
	assert.False(t, IsTerminalStatus(StatusPastDue))
}

func TestTransitionExpected(t *testing.T) {
	tests := []struct {
		from     string
		to       string
		expected bool
	}{
		{StatusIncomplete, StatusActive, true},
		{StatusIncomplete, StatusTrialing, true},
		{StatusIncomplete, StatusIncompleteExpired, true},
		{StatusTrialing, StatusActive, true},
		{StatusTrialing, StatusPastDue, true},
		{StatusActive, StatusPastDue, true},
		{StatusActive, StatusPaused, true},
		{StatusPastDue, StatusActive, true},
		{StatusPaused, StatusActive, true},
		{StatusUnpaid, StatusActive, true},

		// Nothing leaves a terminal status
		{StatusCanceled, StatusActive, false},
		{StatusIncompleteExpired, StatusActive, false},
		// Going backwards is unexpected
		{StatusActive, StatusIncomplete, false},
		{StatusActive, StatusTrialing, false},
		// Unknown statuses expect nothing
		{"nonsense", StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.expected, TransitionExpected(tt.from, tt.to))
		})
	}
}

func TestApplyStatus_AppliesUnexpectedTransitions(t *testing.T) {
	// The provider wins even when the transition is off the expected map
	sub := db.Subscription{Status: StatusCanceled}
	ApplyStatus(context.Background(), &sub, StatusActive)
	assert.Equal(t, StatusActive, sub.Status)
}

func TestApplyStatus_SameStatusIsNoop(t *testing.T) {
	sub := db.Subscription{Status: StatusActive}
	ApplyStatus(context.Background(), &sub, StatusActive)
	assert.Equal(t, StatusActive, sub.Status)
}

func TestCancelStampsCanceledAt(t *testing.T) {
	now := time.Now().UTC()
	sub := db.Subscription{Status: StatusActive}

	Cancel(context.Background(), &sub, now)

	assert.Equal(t, StatusCanceled, sub.Status)
	assert.True(t, sub.CanceledAt.Valid)
	assert.Equal(t, now, sub.CanceledAt.Time)
}

func TestPauseAndResume(t *testing.T) {
	now := time.Now().UTC()
	sub := db.Subscription{Status: StatusActive}

	Pause(context.Background(), &sub, now)
	assert.Equal(t, StatusPaused, sub.Status)
	assert.True(t, sub.PausedAt.Valid)

	later := now.Add(time.Hour)
	Resume(context.Background(), &sub, later)
	assert.Equal(t, StatusActive, sub.Status)
	assert.True(t, sub.ResumedAt.Valid)
	assert.Equal(t, later, sub.ResumedAt.Time)
	assert.False(t, sub.PausedAt.Valid, "resume clears paused_at")
}

func TestUpdateParamsCarriesMutatedFields(t *testing.T) {
	now := time.Now().UTC()
	sub := db.Subscription{
		ID:                 db.NewID(),
		PriceID:            "price_pro_monthly",
		Status:             StatusActive,
		CurrentPeriodStart: db.Timestamptz(now),
		CurrentPeriodEnd:   db.Timestamptz(now.Add(30 * 24 * time.Hour)),
		CancelAtPeriodEnd:  true,
	}

	params := UpdateParams(sub)

	assert.Equal(t, sub.ID, params.ID)
	assert.Equal(t, sub.PriceID, params.PriceID)
	assert.Equal(t, sub.Status, params.Status)
	assert.Equal(t, sub.CurrentPeriodEnd, params.CurrentPeriodEnd)
	assert.True(t, params.CancelAtPeriodEnd)
}
