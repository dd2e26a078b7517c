package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sweater-ventures/tally/app"
)

func init() {
	registerRoute(func(tally *app.Application, router *http.ServeMux) {
		router.Handle("GET /health", routeHandler(tally, healthHandler))
	})
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Uptime    string            `json:"uptime"`
	CheckedAt time.Time         `json:"checked_at"`
}

var startedAt = time.Now()

func healthHandler(tally *app.Application, w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := tally.PingDB(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if tally.Redis != nil {
		if err := tally.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJsonResponse(w, code, HealthResponse{
		Status:    status,
		Checks:    checks,
		Uptime:    time.Since(startedAt).Round(time.Second).String(),
		CheckedAt: time.Now().UTC(),
	})
}
