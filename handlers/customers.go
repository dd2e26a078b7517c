package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/webhook"
)

// syncCustomerEmail keeps the local billing email in line with the
// provider. An unknown customer is only warned about: the local row is
// created by signup, not by webhooks.
func (d *Deps) syncCustomerEmail(ctx context.Context, q db.Querier, payload json.RawMessage) error {
	obj, err := webhook.DecodeObject[webhook.CustomerPayload](payload)
	if err != nil {
		return err
	}

	customer, err := q.GetCustomerByExternalID(ctx, obj.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			config.Logger(ctx).Warn("Customer update for unknown customer",
				"external_customer_id", obj.ID,
			)
			return nil
		}
		return webhook.Infra("load customer", err, nil)
	}

	if obj.Email == "" || obj.Email == customer.BillingEmail {
		return nil
	}
	if err := q.UpdateCustomerBillingEmail(ctx, db.UpdateCustomerBillingEmailParams{
		ID:           customer.ID,
		BillingEmail: obj.Email,
	}); err != nil {
		return webhook.Infra("update billing email", err, nil)
	}
	config.Logger(ctx).Info("Customer billing email synced",
		"external_customer_id", obj.ID,
	)
	return nil
}
