package api

import (
	"io"
	"net/http"

	"github.com/sweater-ventures/tally/app"
	"github.com/sweater-ventures/tally/bus"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/webhook"
)

const maxWebhookBodySize = 1 << 20 // 1MB

func init() {
	registerRoute(func(tally *app.Application, router *http.ServeMux) {
		router.Handle("POST /webhooks/provider", routeHandler(tally, providerWebhookHandler))
	})
}

type webhookResponse struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	EventID   string `json:"event_id,omitempty"`
}

// providerWebhookHandler ingests a provider webhook. The provider treats
// any non-2xx as "retry later", so a duplicate delivery still gets a 200;
// only malformed or unauthenticated requests are rejected.
func providerWebhookHandler(tally *app.Application, w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	if tally.Config.WebhookSecret != "" {
		signature := r.Header.Get("X-Tally-Signature")
		if !app.VerifySignature(tally.Config.WebhookSecret, body, signature) {
			log(r.Context()).Warn("Webhook signature verification failed")
			writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid signature"})
			return
		}
	}

	env, err := webhook.ParseEnvelope(body)
	if err != nil {
		log(r.Context()).Warn("Malformed webhook envelope", "error", err)
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "malformed envelope"})
		return
	}

	event, created, err := webhook.Ingest(r.Context(), tally.DB, env.ID, env.Type, body)
	if err != nil {
		log(r.Context()).Error("Failed to store webhook event", "error", err)
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "failed to store event"})
		return
	}

	if !created {
		writeJsonResponse(w, http.StatusOK, webhookResponse{
			Received:  true,
			Duplicate: true,
			EventID:   db.UuidToString(event.ID),
		})
		return
	}

	log(r.Context()).Info("Webhook event received",
		"event_id", db.UuidToString(event.ID),
		"external_id", env.ID,
		"event_type", env.Type,
	)
	tally.Bus.Publish(bus.Message{
		Type:      bus.MessageEventReceived,
		EventID:   db.UuidToString(event.ID),
		EventType: env.Type,
	})
	tally.Runner.Enqueue(event.ID)

	writeJsonResponse(w, http.StatusOK, webhookResponse{
		Received: true,
		EventID:  db.UuidToString(event.ID),
	})
}
