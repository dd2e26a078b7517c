package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)

	env, err := ParseEnvelope(body)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", env.ID)
	assert.Equal(t, "invoice.paid", env.Type)
	assert.JSONEq(t, `{"id":"in_1"}`, string(env.Data.Object))
}

func TestParseEnvelope_RejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", `{"type":"invoice.paid","data":{"object":{}}}`},
		{"missing type", `{"id":"evt_1","data":{"object":{}}}`},
		{"not json", `not even json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnvelope([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDecodeObject(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_1",
			"customer": "cus_1",
			"status": "active",
			"current_period_start": 1735689600,
			"current_period_end": 1738368000,
			"items": {"data": [{"price": {"id": "price_pro_monthly"}}]}
		}}
	}`)

	sub, err := DecodeObject[SubscriptionPayload](payload)
	require.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "cus_1", sub.Customer)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "price_pro_monthly", sub.PriceID())
	assert.Equal(t, int64(1735689600), sub.CurrentPeriodStart)
}

func TestDecodeObject_ValidatesRequiredFields(t *testing.T) {
	// Subscription object without a customer reference
	payload := []byte(`{"id":"evt_1","type":"customer.subscription.updated","data":{"object":{"id":"sub_1"}}}`)

	_, err := DecodeObject[SubscriptionPayload](payload)
	assert.Error(t, err)
}

func TestSubscriptionPayloadPriceID_EmptyItems(t *testing.T) {
	var sub SubscriptionPayload
	assert.Empty(t, sub.PriceID())
}
