package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sweater-ventures/tally/config"
)

func connectToDB(config *config.AppConfig) (*pgxpool.Pool, error) {
	dbconfig, err := pgxpool.ParseConfig(
		fmt.Sprintf("host=%s user=%s password=%s port=%d sslmode=%s dbname=%s pool_max_conns=%d pool_min_conns=%d",
			config.DBHost,
			config.DBUsername,
			config.DBPassword,
			config.DBPort,
			config.DBSSLMode,
			config.DBName,
			config.DBMaxConns,
			config.DBMinConns,
		),
	)
	if err != nil {
		slog.Error("Failed to parse database configuration", "error", err)
		return nil, err
	}
	slog.Info("Database connection pool established",
		slog.String("host", config.DBHost),
		slog.Int("port", config.DBPort),
		slog.String("dbname", config.DBName),
		slog.Int("max_conns", config.DBMaxConns),
	)
	pool, err := pgxpool.NewWithConfig(context.Background(), dbconfig)
	return pool, err
}

// PingDB verifies the database connection pool is reachable.
func (a *Application) PingDB(ctx context.Context) error {
	if a.dbconn == nil {
		return errors.New("no database connection")
	}
	return a.dbconn.Ping(ctx)
}

func (a *Application) Close() {
	if a.Analytics != nil {
		if err := a.Analytics.Close(); err != nil {
			slog.Error("Failed to close analytics publisher", "error", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}
	}
	a.dbconn.Close()
}
