package webhook

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweater-ventures/tally/db"
)

func noopHandler(name string) Handler {
	return Handler{
		Name: name,
		Fn: func(ctx context.Context, q db.Querier, payload json.RawMessage) error {
			return nil
		},
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("invoice.paid", noopHandler("record_purchases")))
	require.NoError(t, reg.Register("invoice.paid", noopHandler("analytics_ping")))
	require.NoError(t, reg.Register("charge.refunded", noopHandler("apply_refund")))
	reg.Freeze()

	handlers := reg.HandlersFor("invoice.paid")
	require.Len(t, handlers, 2)
	// Registration order is dispatch order
	assert.Equal(t, "record_purchases", handlers[0].Name)
	assert.Equal(t, "analytics_ping", handlers[1].Name)

	assert.Empty(t, reg.HandlersFor("unknown.type"))
	assert.ElementsMatch(t, []string{"invoice.paid", "charge.refunded"}, reg.EventTypes())
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("invoice.paid", noopHandler("record_purchases")))
	err := reg.Register("invoice.paid", noopHandler("record_purchases"))
	assert.ErrorContains(t, err, "already registered")

	// Same name on a different event type is fine
	assert.NoError(t, reg.Register("charge.refunded", noopHandler("record_purchases")))
}

func TestRegistryRejectsRegisterAfterFreeze(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("invoice.paid", noopHandler("record_purchases")))
	reg.Freeze()

	err := reg.Register("invoice.paid", noopHandler("late_handler"))
	assert.ErrorContains(t, err, "frozen")
}

func TestRegistryRejectsInvalidHandler(t *testing.T) {
	reg := NewRegistry()

	assert.Error(t, reg.Register("invoice.paid", Handler{Name: "no_fn"}))
	assert.Error(t, reg.Register("invoice.paid", Handler{Fn: noopHandler("x").Fn}))
}
