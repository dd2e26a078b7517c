package webhook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/testutil"
	"github.com/sweater-ventures/tally/webhook"
)

func TestIngest_StoresNewEvent(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	stored := testutil.NewEvent(func(e *db.Event) {
		e.ExternalID = "evt_123"
		e.EventType = "invoice.paid"
	})

	mockDB.On("InsertEvent", mock.Anything, mock.MatchedBy(func(arg db.InsertEventParams) bool {
		return arg.ExternalID == "evt_123" && arg.EventType == "invoice.paid"
	})).Return(stored, nil)

	event, created, err := webhook.Ingest(context.Background(), mockDB, "evt_123", "invoice.paid", []byte(`{"id":"evt_123"}`))

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, stored.ID, event.ID)
	mockDB.AssertExpectations(t)
}

func TestIngest_DuplicateReturnsExistingEvent(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	existing := testutil.NewEvent(func(e *db.Event) {
		e.ExternalID = "evt_123"
		e.EventType = "invoice.paid"
	})

	// ON CONFLICT DO NOTHING yields no row on a duplicate insert
	mockDB.On("InsertEvent", mock.Anything, mock.Anything).Return(db.Event{}, pgx.ErrNoRows)
	mockDB.On("GetEventByExternalID", mock.Anything, "evt_123").Return(existing, nil)

	event, created, err := webhook.Ingest(context.Background(), mockDB, "evt_123", "invoice.paid", []byte(`{"id":"evt_123"}`))

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, event.ID)
	mockDB.AssertExpectations(t)
}

func TestIngest_PropagatesInsertFailure(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	mockDB.On("InsertEvent", mock.Anything, mock.Anything).Return(db.Event{}, errors.New("connection refused"))

	_, created, err := webhook.Ingest(context.Background(), mockDB, "evt_123", "invoice.paid", []byte(`{}`))

	require.Error(t, err)
	assert.False(t, created)
	mockDB.AssertNotCalled(t, "GetEventByExternalID", mock.Anything, mock.Anything)
}

func TestSweepProcessedEvents(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	mockDB.On("DeleteProcessedEventsBefore", mock.Anything, mock.MatchedBy(func(cutoff pgtype.Timestamptz) bool {
		// The cutoff must be roughly retention ago
		expected := time.Now().Add(-90 * 24 * time.Hour)
		return cutoff.Valid && cutoff.Time.Sub(expected).Abs() < time.Minute
	})).Return(int64(7), nil)

	deleted, err := webhook.SweepProcessedEvents(context.Background(), mockDB, 90*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	mockDB.AssertExpectations(t)
}
