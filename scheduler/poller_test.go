package scheduler_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/scheduler"
	"github.com/sweater-ventures/tally/testutil"
	"github.com/sweater-ventures/tally/webhook"
)

func passthroughTx(q db.Querier) func(ctx context.Context, fn func(db.Querier) error) error {
	return func(ctx context.Context, fn func(db.Querier) error) error {
		return fn(q)
	}
}

func TestSchedule_MarshalsPayload(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	executeAt := time.Now().UTC().Add(time.Hour)

	mockDB.On("InsertScheduledEvent", mock.Anything, mock.MatchedBy(func(arg db.InsertScheduledEventParams) bool {
		return arg.EventType == "subscription.reminder" &&
			arg.ExecuteAt.Time.Equal(executeAt) &&
			string(arg.Payload) == `{"days":7}`
	})).Return(db.ScheduledEvent{}, nil)

	_, err := scheduler.Schedule(context.Background(), mockDB, "subscription.reminder", executeAt, map[string]int{"days": 7})

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestSchedule_NilPayloadStoresEmptyObject(t *testing.T) {
	mockDB := new(testutil.MockQuerier)

	mockDB.On("InsertScheduledEvent", mock.Anything, mock.MatchedBy(func(arg db.InsertScheduledEventParams) bool {
		return string(arg.Payload) == "{}"
	})).Return(db.ScheduledEvent{}, nil)

	_, err := scheduler.Schedule(context.Background(), mockDB, "subscription.expire", time.Now(), nil)

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestPollerRunOnce_ProcessesClaimedEvents(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	event := testutil.NewScheduledEvent()

	var handled []string
	reg := webhook.NewRegistry()
	require.NoError(t, reg.Register("subscription.reminder", webhook.Handler{
		Name: "send_renewal_reminder",
		Fn: func(ctx context.Context, q db.Querier, payload json.RawMessage) error {
			handled = append(handled, string(payload))
			return nil
		},
	}))
	reg.Freeze()

	mockDB.On("ClaimDueScheduledEvents", mock.Anything, db.ClaimDueScheduledEventsParams{
		MaxAttempts: 5,
		BatchSize:   100,
	}).Return([]db.ScheduledEvent{event}, nil)
	mockDB.On("MarkScheduledEventProcessed", mock.Anything, event.ID).Return(nil)

	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	p := scheduler.NewPoller(passthroughTx(mockDB), d, 5, 100, time.Minute)

	claimed, err := p.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, claimed)
	assert.Len(t, handled, 1)
	mockDB.AssertExpectations(t)
}

func TestPollerRunOnce_RecordsFailureAndKeepsRow(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	event := testutil.NewScheduledEvent()

	reg := webhook.NewRegistry()
	require.NoError(t, reg.Register("subscription.reminder", webhook.Handler{
		Name: "send_renewal_reminder",
		Fn: func(ctx context.Context, q db.Querier, payload json.RawMessage) error {
			return errors.New("downstream unavailable")
		},
	}))
	reg.Freeze()

	mockDB.On("ClaimDueScheduledEvents", mock.Anything, mock.Anything).Return([]db.ScheduledEvent{event}, nil)
	mockDB.On("RecordScheduledEventFailure", mock.Anything, mock.MatchedBy(func(arg db.RecordScheduledEventFailureParams) bool {
		return arg.ID == event.ID && strings.Contains(arg.LastError, "downstream unavailable")
	})).Return(nil)

	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	p := scheduler.NewPoller(passthroughTx(mockDB), d, 5, 100, time.Minute)

	claimed, err := p.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, claimed)
	mockDB.AssertNotCalled(t, "MarkScheduledEventProcessed", mock.Anything, mock.Anything)
	mockDB.AssertExpectations(t)
}

func TestPollerRunOnce_TruncatesLongErrors(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	event := testutil.NewScheduledEvent()

	reg := webhook.NewRegistry()
	require.NoError(t, reg.Register("subscription.reminder", webhook.Handler{
		Name: "send_renewal_reminder",
		Fn: func(ctx context.Context, q db.Querier, payload json.RawMessage) error {
			return errors.New(strings.Repeat("x", 5000))
		},
	}))
	reg.Freeze()

	mockDB.On("ClaimDueScheduledEvents", mock.Anything, mock.Anything).Return([]db.ScheduledEvent{event}, nil)
	mockDB.On("RecordScheduledEventFailure", mock.Anything, mock.MatchedBy(func(arg db.RecordScheduledEventFailureParams) bool {
		return len(arg.LastError) == 1000
	})).Return(nil)

	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	p := scheduler.NewPoller(passthroughTx(mockDB), d, 5, 100, time.Minute)

	_, err := p.RunOnce(context.Background())

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestPollerRunOnce_EmptyBatch(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	mockDB.On("ClaimDueScheduledEvents", mock.Anything, mock.Anything).Return([]db.ScheduledEvent{}, nil)

	reg := webhook.NewRegistry()
	reg.Freeze()
	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	p := scheduler.NewPoller(passthroughTx(mockDB), d, 5, 100, time.Minute)

	claimed, err := p.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, claimed)
}
