package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweater-ventures/tally/api"
	"github.com/sweater-ventures/tally/app"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/middleware"
)

func main() {
	config.InitLogging()
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Unable to load configuration!!!", err)
	}

	if appConfig == nil {
		log.Fatal("Nil AppConfig, WTF")
	}

	if err := app.RunMigrations(appConfig); err != nil {
		log.Fatal("Unable to run database migrations", err)
	}

	application, err := app.NewApp(appConfig)
	if err != nil {
		log.Fatal("Unable to initialize application", err)
	}
	defer application.Close()

	slog.Debug("Configuration",
		"DevMode", appConfig.DevMode,
		"LogLevel", appConfig.LogLevel,
	)

	router := http.NewServeMux()
	api.AddApis(application, router)

	// Start the webhook runner, scheduled event poller, and daily sweeps
	application.Start()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", appConfig.Port),
		Handler: middleware.AllStandardMiddleware(router),
	}

	// Listen for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Starting Tally", "port", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-sigChan
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Stop the pipeline after the HTTP server so no new events arrive while
	// in-flight handlers finish; application.Close() then releases the pool.
	application.Stop()
	slog.Info("Shutdown complete")
}
