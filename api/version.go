package api

import (
	"net/http"

	"github.com/sweater-ventures/tally/app"
	"github.com/sweater-ventures/tally/config"
)

func init() {
	registerRoute(func(tally *app.Application, router *http.ServeMux) {
		router.Handle("/version", routeHandler(tally, versionApiHandler))
	})
}

type VersionResponse struct {
	App     string `json:"app"`
	Version string `json:"version"`
}

func versionApiHandler(tally *app.Application, w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, VersionResponse{
		App:     "tally",
		Version: config.Version,
	})
}
