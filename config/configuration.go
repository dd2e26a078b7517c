package config

import (
	"log/slog"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	DevMode    bool   `arg:"--dev,env:DEV_MODE" default:"false"`
	Port       int    `arg:"-p,--port,env:LISTEN_PORT" default:"8010"`
	LogLevel   string `arg:"--log-level,env:LOG_LEVEL" default:"default" help:"Log level to use.  Valid values are: debug, info, and warn/warning.  If default the level will be info or debug in dev mode."`
	DBHost     string `arg:"--db-host,env:DB_HOST" default:"localhost"`
	DBName     string `arg:"--db-name,env:DB_NAME" default:"tally"`
	DBPort     int    `arg:"--db-port,env:DB_PORT" default:"5432"`
	DBMaxConns int    `arg:"--db-max-conns,env:DB_MAX_CONNS" default:"10"`
	DBMinConns int    `arg:"--db-min-conns,env:DB_MIN_CONNS" default:"1"`
	DBSSLMode  string `arg:"--db-ssl-mode,env:DB_SSL_MODE" default:"disable"`
	DBUsername string `arg:"--db-username,env:DB_USERNAME" default:"tally"`
	DBPassword string `arg:"--db-password,env:DB_PASSWORD" default:"badpassword"`

	WebhookSecret string `arg:"--webhook-secret,env:WEBHOOK_SECRET" default:"" help:"HMAC key for verifying provider webhook signatures. Empty disables verification (dev only)."`
	AdminSecret   string `arg:"--admin-secret,env:ADMIN_SECRET" default:"" help:"Pre-shared secret for admin API endpoints (X-Tally-Admin-Secret header)."`

	EventRetentionDays   int    `arg:"--event-retention-days,env:EVENT_RETENTION_DAYS" default:"90" help:"Fully processed events older than this are purged."`
	WebhookMaxAttempts   int    `arg:"--webhook-max-attempts,env:WEBHOOK_MAX_ATTEMPTS" default:"5"`
	ScheduledMaxAttempts int    `arg:"--scheduled-max-attempts,env:SCHEDULED_MAX_ATTEMPTS" default:"5"`
	PollIntervalSeconds  int    `arg:"--poll-interval,env:POLL_INTERVAL_SECONDS" default:"300" help:"Scheduled event poller interval in seconds."`
	PollBatchSize        int    `arg:"--poll-batch-size,env:POLL_BATCH_SIZE" default:"100"`
	RunnerWorkers        int    `arg:"--runner-workers,env:RUNNER_WORKERS" default:"4"`
	RunnerQueueSize      int    `arg:"--runner-queue-size,env:RUNNER_QUEUE_SIZE" default:"256"`
	FeatureMapPath       string `arg:"--feature-map,env:FEATURE_MAP_PATH" default:"" help:"Path to a JSON price-to-features map. Empty uses the built-in map."`

	RedisAddr    string   `arg:"--redis-addr,env:REDIS_ADDR" default:"" help:"Redis address for the entitlement read cache. Empty disables it."`
	KafkaBrokers []string `arg:"--kafka-brokers,env:KAFKA_BROKERS" help:"Kafka brokers for the analytics handler. Empty disables it."`
	KafkaTopic   string   `arg:"--kafka-topic,env:KAFKA_TOPIC" default:"billing-events"`
}

func LoadConfig() (*AppConfig, error) {
	var appConfig AppConfig
	arg.MustParse(&appConfig)

	if appConfig.DevMode {
		err := godotenv.Load(".env")
		if err == nil {
			// re-parse to get env vars from .env
			slog.Info("Loaded .env")
			arg.MustParse(&appConfig)
		}
	}

	if appConfig.LogLevel == "default" {
		if appConfig.DevMode {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelInfo)
		}
	} else {
		intendedLevel := strings.ToLower(appConfig.LogLevel)
		switch intendedLevel {
		case "debug":
			logLevel.Set(slog.LevelDebug)
		case "info":
			logLevel.Set(slog.LevelInfo)
		case "warn", "warning":
			logLevel.Set(slog.LevelWarn)
		default:
			slog.Error("Unable to configure log level", "level", appConfig.LogLevel)
		}
	}

	return &appConfig, nil
}
