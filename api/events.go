package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sweater-ventures/tally/app"
	"github.com/sweater-ventures/tally/db"
)

func init() {
	registerRoute(func(tally *app.Application, router *http.ServeMux) {
		router.Handle("GET /events", adminHandler(tally, listEventsHandler))
		router.Handle("GET /events/{id}", adminHandler(tally, getEventHandler))
	})
}

type EventResponse struct {
	ID             string          `json:"id"`
	ExternalID     string          `json:"external_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	ReceivedAt     time.Time       `json:"received_at"`
	FullyProcessed bool            `json:"fully_processed"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
}

type HandlerCompletionResponse struct {
	HandlerName string     `json:"handler_name"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type EventDetailResponse struct {
	EventResponse
	Handlers []HandlerCompletionResponse `json:"handlers"`
}

const defaultEventPageSize = 50

// listEventsHandler is the triage view: recent events, or only the stuck
// ones with ?unprocessed=1.
func listEventsHandler(tally *app.Application, w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("unprocessed") == "1" {
		events, err := tally.DB.ListUnprocessedEvents(r.Context())
		if err != nil {
			log(r.Context()).Error("Failed to list unprocessed events", "error", err)
			writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
			return
		}
		writeJsonResponse(w, http.StatusOK, eventsToResponse(events))
		return
	}

	limit := int32(defaultEventPageSize)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 1 || parsed > 500 {
			writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 500"})
			return
		}
		limit = int32(parsed)
	}
	var offset int32
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 0 {
			writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "offset must be a non-negative integer"})
			return
		}
		offset = int32(parsed)
	}

	events, err := tally.DB.ListEvents(r.Context(), db.ListEventsParams{Limit: limit, Offset: offset})
	if err != nil {
		log(r.Context()).Error("Failed to list events", "error", err)
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "failed to list events"})
		return
	}
	writeJsonResponse(w, http.StatusOK, eventsToResponse(events))
}

func getEventHandler(tally *app.Application, w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	parsed, err := uuid.Parse(idStr)
	if err != nil {
		writeJsonResponse(w, http.StatusBadRequest, map[string]string{"error": "id must be a valid UUID"})
		return
	}

	event, err := tally.DB.GetEventByID(r.Context(), pgtype.UUID{Bytes: parsed, Valid: true})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJsonResponse(w, http.StatusNotFound, map[string]string{"error": "event not found"})
			return
		}
		log(r.Context()).Error("Failed to get event", "error", err)
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve event"})
		return
	}

	completions, err := tally.DB.ListHandlerCompletionsForEvent(r.Context(), event.ID)
	if err != nil {
		log(r.Context()).Error("Failed to list handler completions", "error", err)
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "failed to retrieve event"})
		return
	}

	detail := EventDetailResponse{
		EventResponse: eventToResponse(event, true),
		Handlers:      make([]HandlerCompletionResponse, 0, len(completions)),
	}
	for _, c := range completions {
		hr := HandlerCompletionResponse{
			HandlerName: c.HandlerName,
			Completed:   c.Completed,
		}
		if c.CompletedAt.Valid {
			t := c.CompletedAt.Time
			hr.CompletedAt = &t
		}
		detail.Handlers = append(detail.Handlers, hr)
	}

	writeJsonResponse(w, http.StatusOK, detail)
}

func eventToResponse(e db.Event, includePayload bool) EventResponse {
	resp := EventResponse{
		ID:             db.UuidToString(e.ID),
		ExternalID:     e.ExternalID,
		EventType:      e.EventType,
		ReceivedAt:     e.ReceivedAt.Time,
		FullyProcessed: e.FullyProcessed,
	}
	if includePayload {
		resp.Payload = e.Payload
	}
	if e.ProcessedAt.Valid {
		t := e.ProcessedAt.Time
		resp.ProcessedAt = &t
	}
	return resp
}

func eventsToResponse(events []db.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventToResponse(e, false))
	}
	return out
}
