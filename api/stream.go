package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sweater-ventures/tally/app"
)

func init() {
	registerRoute(func(tally *app.Application, router *http.ServeMux) {
		router.Handle("GET /events/stream", adminHandler(tally, streamEventsHandler))
	})
}

// streamEventsHandler serves a live SSE feed of pipeline progress messages.
// Slow clients miss messages rather than backpressure the pipeline.
func streamEventsHandler(tally *app.Application, w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	messages, unsubscribe := tally.Bus.Subscribe()
	defer unsubscribe()

	log(r.Context()).Debug("SSE client connected", "remote_addr", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			log(r.Context()).Debug("SSE client disconnected", "remote_addr", r.RemoteAddr)
			return
		case msg := <-messages:
			data, err := json.Marshal(msg)
			if err != nil {
				log(r.Context()).Error("Failed to marshal bus message", "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", msg.ID, msg.Type, data)
			flusher.Flush()
		}
	}
}
