// Command release-bot posts the manga release calendar to Discord.
// It:
//   - Loads configuration and initializes structured logging.
//   - Registers the /releases slash command and answers it on demand.
//   - Posts the day's digest to the configured channel on a cron schedule,
//     recording each delivery in Postgres when DB_DSN is set.
//   - Exposes a minimal HTTP server with /healthz, /readyz, /status and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tanamoe/release-bot/bot"
	"github.com/tanamoe/release-bot/catalog"
	"github.com/tanamoe/release-bot/config"
	"github.com/tanamoe/release-bot/db"
	"github.com/tanamoe/release-bot/release"
	"github.com/tanamoe/release-bot/server"
	"github.com/tanamoe/release-bot/telemetry"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()), slog.String("format", map[bool]string{true: "json", false: "text"}[format == "json"]))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}
	locale, err := cfg.ReleaseLocale()
	if err != nil {
		slog.Error("invalid locale settings", slog.Any("err", err))
		os.Exit(1)
	}
	emotes, err := config.LoadEmotes(cfg.EmotesFile)
	if err != nil {
		slog.Error("failed to load emotes", slog.Any("err", err))
		os.Exit(1)
	}

	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("release-bot", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := catalog.NewClient(cfg.CatalogURL, cfg.CatalogToken,
		catalog.WithCollection(cfg.CatalogCollection),
		catalog.WithPageSize(cfg.CatalogPageSize),
		catalog.WithTimeout(cfg.CatalogTimeout),
	)
	service := release.NewService(locale, fetcher, emotes, cfg.CalendarImage)

	opts := []bot.Option{bot.WithImageFetcher(bot.NewHTTPImageFetcher(cfg.CatalogTimeout))}

	// Delivery log is optional; without DB_DSN digests are simply not recorded.
	var deliveries *db.DeliveryLog
	if cfg.DBDsn != "" {
		database, err := db.Connect(ctx, cfg.DBDsn)
		if err != nil {
			slog.Error("failed to open db", slog.Any("err", err))
			os.Exit(1)
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("failed to close database", slog.Any("err", err))
			}
		}()
		slog.Info("running database migrations", slog.String("component", "db_migrate"))
		if err := db.Migrate(ctx, database); err != nil {
			slog.Error("failed to migrate db", slog.Any("err", err))
			os.Exit(1)
		}
		deliveries = db.NewDeliveryLog(database)
		opts = append(opts, bot.WithDeliveryLog(deliveries))
	} else {
		slog.Info("DB_DSN not set; delivery log disabled", slog.String("component", "db"))
	}

	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		slog.Error("discord session", slog.Any("err", err))
		os.Exit(1)
	}
	b := bot.New(session, service, cfg.DiscordClientID, opts...)
	session.AddHandler(b.OnInteraction)

	if err := session.Open(); err != nil {
		slog.Error("failed to connect to discord gateway", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("discord session close", slog.Any("err", err))
		}
	}()

	// A failed registration leaves the previous command set in place.
	if err := b.Register(); err != nil {
		slog.Error("command registration failed", slog.Any("err", err))
	}

	sched, err := bot.NewScheduler(b, cfg.DiscordChannelID, cfg.DigestSchedule, locale.Location)
	if err != nil {
		slog.Error("scheduler", slog.Any("err", err))
		os.Exit(1)
	}
	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()

	// HTTP server (health/status/metrics)
	deps := server.Deps{
		Gateway:  func() bool { return session.DataReady },
		Schedule: cfg.DigestSchedule,
		Timezone: cfg.Timezone,
	}
	if deliveries != nil {
		deps.Deliveries = deliveries
	}
	go func() {
		if err := server.Start(ctx, server.NewMux(deps), cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
	select {
	case <-schedDone:
	case <-time.After(30 * time.Second):
		slog.Warn("scheduled digest still running at shutdown")
	}
}
