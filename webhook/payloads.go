package webhook

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Envelope is the outer provider webhook shape. The full envelope is what
// gets stored as the event payload; handlers decode Data.Object into the
// typed payload they care about.
type Envelope struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type" validate:"required"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ParseEnvelope decodes and validates a raw webhook body.
func ParseEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if err := validate.Struct(env); err != nil {
		return Envelope{}, fmt.Errorf("invalid envelope: %w", err)
	}
	return env, nil
}

// DecodeObject extracts data.object from a stored event payload into T and
// validates it.
func DecodeObject[T any](payload json.RawMessage) (T, error) {
	var obj T
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return obj, fmt.Errorf("decode envelope: %w", err)
	}
	if err := json.Unmarshal(env.Data.Object, &obj); err != nil {
		return obj, fmt.Errorf("decode object: %w", err)
	}
	if err := validate.Struct(obj); err != nil {
		return obj, fmt.Errorf("invalid object: %w", err)
	}
	return obj, nil
}

// Price is the nested price reference on items and invoice lines.
type Price struct {
	ID string `json:"id"`
}

// SubscriptionPayload is the provider subscription object. Timestamps are
// unix epoch seconds; zero means unset.
type SubscriptionPayload struct {
	ID       string `json:"id" validate:"required"`
	Customer string `json:"customer" validate:"required"`
	Status   string `json:"status"`
	Items    struct {
		Data []struct {
			Price Price `json:"price"`
		} `json:"data"`
	} `json:"items"`
	CurrentPeriodStart int64 `json:"current_period_start"`
	CurrentPeriodEnd   int64 `json:"current_period_end"`
	CancelAtPeriodEnd  bool  `json:"cancel_at_period_end"`
	CanceledAt         int64 `json:"canceled_at"`
	TrialStart         int64 `json:"trial_start"`
	TrialEnd           int64 `json:"trial_end"`
}

// PriceID returns the price of the first subscription item, or "".
func (p SubscriptionPayload) PriceID() string {
	if len(p.Items.Data) == 0 {
		return ""
	}
	return p.Items.Data[0].Price.ID
}

// InvoiceLine is one line on a paid invoice. Amount is in cents.
type InvoiceLine struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Price       Price  `json:"price"`
}

// InvoicePayload is the provider invoice object.
type InvoicePayload struct {
	ID            string `json:"id" validate:"required"`
	Customer      string `json:"customer" validate:"required"`
	BillingReason string `json:"billing_reason"`
	Charge        string `json:"charge"`
	PaymentIntent string `json:"payment_intent"`
	Lines         struct {
		Data []InvoiceLine `json:"data"`
	} `json:"lines"`
}

// Refund is one refund attached to a charge. Amount is in cents.
type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// ChargePayload is the provider charge object.
type ChargePayload struct {
	ID             string `json:"id" validate:"required"`
	Customer       string `json:"customer"`
	PaymentIntent  string `json:"payment_intent"`
	AmountRefunded int64  `json:"amount_refunded"`
	Refunds        struct {
		Data []Refund `json:"data"`
	} `json:"refunds"`
}

// CheckoutSessionPayload is the provider checkout session object.
type CheckoutSessionPayload struct {
	ID            string `json:"id" validate:"required"`
	Customer      string `json:"customer"`
	Mode          string `json:"mode"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	PaymentIntent string `json:"payment_intent"`
}

// DisputePayload is the provider dispute object.
type DisputePayload struct {
	ID            string `json:"id" validate:"required"`
	Charge        string `json:"charge"`
	PaymentIntent string `json:"payment_intent"`
	Reason        string `json:"reason"`
	Amount        int64  `json:"amount"`
}

// PaymentIntentPayload is the provider payment intent object.
type PaymentIntentPayload struct {
	ID               string `json:"id" validate:"required"`
	Customer         string `json:"customer"`
	Amount           int64  `json:"amount"`
	LastPaymentError struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"last_payment_error"`
}

// CustomerPayload is the provider customer object.
type CustomerPayload struct {
	ID    string `json:"id" validate:"required"`
	Email string `json:"email"`
}
