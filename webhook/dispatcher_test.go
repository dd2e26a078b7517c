package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/testutil"
	"github.com/sweater-ventures/tally/webhook"
)

func recordingHandler(name string, calls *[]string, result error) webhook.Handler {
	return webhook.Handler{
		Name: name,
		Fn: func(ctx context.Context, q db.Querier, payload json.RawMessage) error {
			*calls = append(*calls, name)
			return result
		},
	}
}

func TestDispatchTracked_RunsHandlersInOrderAndMarksCompleted(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	var calls []string

	reg := webhook.NewRegistry()
	require.NoError(t, reg.Register("invoice.paid", recordingHandler("first", &calls, nil)))
	require.NoError(t, reg.Register("invoice.paid", recordingHandler("second", &calls, nil)))
	reg.Freeze()

	event := testutil.NewEvent(func(e *db.Event) { e.EventType = "invoice.paid" })

	firstCompletion := db.HandlerCompletion{ID: testutil.NewUUID(), EventID: event.ID, HandlerName: "first"}
	secondCompletion := db.HandlerCompletion{ID: testutil.NewUUID(), EventID: event.ID, HandlerName: "second"}

	mockDB.On("UpsertHandlerCompletion", mock.Anything, db.UpsertHandlerCompletionParams{
		EventID:     event.ID,
		HandlerName: "first",
	}).Return(firstCompletion, nil)
	mockDB.On("UpsertHandlerCompletion", mock.Anything, db.UpsertHandlerCompletionParams{
		EventID:     event.ID,
		HandlerName: "second",
	}).Return(secondCompletion, nil)
	mockDB.On("MarkHandlerCompleted", mock.Anything, firstCompletion.ID).Return(nil)
	mockDB.On("MarkHandlerCompleted", mock.Anything, secondCompletion.ID).Return(nil)

	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	err := d.DispatchTracked(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
	mockDB.AssertExpectations(t)
}

func TestDispatchTracked_SkipsAlreadyCompletedHandlers(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	var calls []string

	reg := webhook.NewRegistry()
	require.NoError(t, reg.Register("invoice.paid", recordingHandler("done_already", &calls, nil)))
	require.NoError(t, reg.Register("invoice.paid", recordingHandler("still_pending", &calls, nil)))
	reg.Freeze()

	event := testutil.NewEvent(func(e *db.Event) { e.EventType = "invoice.paid" })

	completed := db.HandlerCompletion{ID: testutil.NewUUID(), EventID: event.ID, HandlerName: "done_already", Completed: true}
	pending := db.HandlerCompletion{ID: testutil.NewUUID(), EventID: event.ID, HandlerName: "still_pending"}

	mockDB.On("UpsertHandlerCompletion", mock.Anything, db.UpsertHandlerCompletionParams{
		EventID:     event.ID,
		HandlerName: "done_already",
	}).Return(completed, nil)
	mockDB.On("UpsertHandlerCompletion", mock.Anything, db.UpsertHandlerCompletionParams{
		EventID:     event.ID,
		HandlerName: "still_pending",
	}).Return(pending, nil)
	mockDB.On("MarkHandlerCompleted", mock.Anything, pending.ID).Return(nil)

	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	err := d.DispatchTracked(context.Background(), event)

	require.NoError(t, err)
	// The completed handler must not run again
	assert.Equal(t, []string{"still_pending"}, calls)
	mockDB.AssertExpectations(t)
}

func TestDispatchTracked_FirstErrorStopsThePass(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	var calls []string
	boom := errors.New("boom")

	reg := webhook.NewRegistry()
	require.NoError(t, reg.Register("invoice.paid", recordingHandler("failing", &calls, boom)))
	require.NoError(t, reg.Register("invoice.paid", recordingHandler("never_reached", &calls, nil)))
	reg.Freeze()

	event := testutil.NewEvent(func(e *db.Event) { e.EventType = "invoice.paid" })

	mockDB.On("UpsertHandlerCompletion", mock.Anything, db.UpsertHandlerCompletionParams{
		EventID:     event.ID,
		HandlerName: "failing",
	}).Return(db.HandlerCompletion{ID: testutil.NewUUID(), EventID: event.ID}, nil)

	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	err := d.DispatchTracked(context.Background(), event)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"failing"}, calls)
	// No completion marked, no second upsert
	mockDB.AssertNotCalled(t, "MarkHandlerCompleted", mock.Anything, mock.Anything)
	mockDB.AssertExpectations(t)
}

func TestDispatchTracked_NoHandlersIsANoop(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	reg := webhook.NewRegistry()
	reg.Freeze()

	event := testutil.NewEvent(func(e *db.Event) { e.EventType = "some.unknown.type" })

	d := webhook.NewDispatcher(mockDB, nil, reg, nil)
	assert.NoError(t, d.DispatchTracked(context.Background(), event))
	mockDB.AssertNotCalled(t, "UpsertHandlerCompletion", mock.Anything, mock.Anything)
}

func TestDispatch_TransactionalHandlerUsesExecTx(t *testing.T) {
	mockDB := new(testutil.MockQuerier)
	txDB := new(testutil.MockQuerier)

	var sawTxQuerier bool
	reg := webhook.NewRegistry()
	require.NoError(t, reg.Register("customer.subscription.updated", webhook.Handler{
		Name:              "sync_subscription",
		RunsInTransaction: true,
		Fn: func(ctx context.Context, q db.Querier, payload json.RawMessage) error {
			sawTxQuerier = q == txDB
			return nil
		},
	}))
	reg.Freeze()

	execTx := func(ctx context.Context, fn func(db.Querier) error) error {
		return fn(txDB)
	}

	d := webhook.NewDispatcher(mockDB, execTx, reg, nil)
	err := d.Dispatch(context.Background(), "customer.subscription.updated", json.RawMessage(`{}`))

	require.NoError(t, err)
	assert.True(t, sawTxQuerier, "transactional handler should receive the transaction querier")
}
