package app

import (
	"context"
	"log/slog"

	"github.com/sweater-ventures/tally/config"
)

func log(ctx context.Context) *slog.Logger {
	return config.Logger(ctx)
}
