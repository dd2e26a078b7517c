package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sweater-ventures/tally/app"
	"github.com/sweater-ventures/tally/config"
)

type routeRegistrationFunc func(tally *app.Application, router *http.ServeMux)

var routes []routeRegistrationFunc

func registerRoute(r routeRegistrationFunc) {
	routes = append(routes, r)
}

func AddApis(tally *app.Application, router *http.ServeMux) {
	slog.Debug("Registering all API Endpoints", "count", len(routes))
	apiRouter := http.NewServeMux()
	for _, r := range routes {
		r(tally, apiRouter)
	}
	router.Handle("/api/", http.StripPrefix("/api", apiRouter))
}

func log(ctx context.Context) *slog.Logger {
	return config.Logger(ctx)
}

type appHandler func(tally *app.Application, w http.ResponseWriter, r *http.Request)

func routeHandler(tally *app.Application, handler appHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(tally, w, r)
	})
}

// adminHandler wraps an appHandler with the pre-shared admin secret check.
func adminHandler(tally *app.Application, handler appHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.CheckAdminSecret(tally.Config.AdminSecret, r.Header.Get("X-Tally-Admin-Secret")) {
			writeJsonResponse(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		handler(tally, w, r)
	})
}

func writeJsonResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
