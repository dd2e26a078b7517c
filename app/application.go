package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sweater-ventures/tally/analytics"
	"github.com/sweater-ventures/tally/bus"
	"github.com/sweater-ventures/tally/config"
	"github.com/sweater-ventures/tally/db"
	"github.com/sweater-ventures/tally/entitlements"
	"github.com/sweater-ventures/tally/handlers"
	"github.com/sweater-ventures/tally/pricing"
	"github.com/sweater-ventures/tally/scheduler"
	"github.com/sweater-ventures/tally/webhook"
)

type Application struct {
	Config       config.AppConfig
	DB           db.Querier
	Registry     *webhook.Registry
	Dispatcher   *webhook.Dispatcher
	Runner       *webhook.Runner
	Poller       *scheduler.Poller
	Bus          *bus.Bus
	Redis        *redis.Client
	Features     *pricing.FeatureMap
	Entitlements *entitlements.Service
	Analytics    *analytics.Publisher
	dbconn       *pgxpool.Pool
	stopSweeps   func()
}

func NewApp(cfg *config.AppConfig) (*Application, error) {
	conn, err := connectToDB(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		return nil, err
	}
	queries := db.New(conn)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		slog.Info("Redis entitlement cache enabled", "addr", cfg.RedisAddr)
	}

	features, err := pricing.Load(cfg.FeatureMapPath)
	if err != nil {
		return nil, err
	}

	a := &Application{
		Config:       *cfg,
		DB:           queries,
		Bus:          bus.New(),
		Redis:        redisClient,
		Features:     features,
		Entitlements: entitlements.NewService(redisClient),
		Analytics:    analytics.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic),
		dbconn:       conn,
		stopSweeps:   func() {},
	}

	a.Registry = webhook.NewRegistry()
	err = handlers.RegisterAll(a.Registry, &handlers.Deps{
		Features:     a.Features,
		Entitlements: a.Entitlements,
		Analytics:    a.Analytics,
	})
	if err != nil {
		return nil, err
	}
	a.Registry.Freeze()

	a.Dispatcher = webhook.NewDispatcher(queries, a.ExecTx, a.Registry, a.Bus)
	a.Runner = webhook.NewRunner(a.Dispatcher, a.Bus, webhook.RunnerOptions{
		MaxAttempts: cfg.WebhookMaxAttempts,
		QueueSize:   cfg.RunnerQueueSize,
	})
	a.Poller = scheduler.NewPoller(a.ExecTx, a.Dispatcher,
		int32(cfg.ScheduledMaxAttempts),
		int32(cfg.PollBatchSize),
		time.Duration(cfg.PollIntervalSeconds)*time.Second,
	)

	return a, nil
}

// ExecTx runs fn in a database transaction.
func (a *Application) ExecTx(ctx context.Context, fn func(db.Querier) error) error {
	return db.ExecTx(ctx, a.dbconn, fn)
}

// Start launches the background machinery: the event runner (resuming any
// unprocessed backlog), the scheduled event poller, and the daily sweeps.
func (a *Application) Start() {
	a.Runner.Start(a.Config.RunnerWorkers)
	if err := a.Runner.Resume(context.Background()); err != nil {
		slog.Error("Failed to resume unprocessed events", "error", err)
	}
	a.Poller.Start()
	a.startDailySweeps()
}

// Stop shuts the background machinery down in dependency order.
func (a *Application) Stop() {
	a.stopSweeps()
	a.Poller.Stop()
	a.Runner.Stop()
}
