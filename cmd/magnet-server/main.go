// Package main is the entrypoint for the magnet server, the lead-magnet
// delivery backend: a rate-limited intake endpoint that dispatches delivery
// emails, and a single-use download-token redemption endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/inkspire/magnet/internal/api"
	"github.com/inkspire/magnet/internal/assets"
	"github.com/inkspire/magnet/internal/config"
	"github.com/inkspire/magnet/internal/db"
	"github.com/inkspire/magnet/internal/delivery"
	"github.com/inkspire/magnet/internal/notifications"
	"github.com/inkspire/magnet/internal/ratelimit"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("version", Version).Logger()
	if os.Getenv("ENV") != string(config.EnvProduction) {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logger.Info().
		Str("version", Version).
		Str("commit", Commit).
		Str("build_date", BuildDate).
		Msg("Starting magnet server")

	cfg := config.LoadServerConfig()

	// The embedded catalog validated itself at init; surface what it carries.
	logger.Info().Strs("assets", assets.Slugs()).Msg("asset catalog loaded")

	// Connect to database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL environment variable is required")
		return 1
	}

	database, err := db.New(ctx, db.DefaultConfig(databaseURL), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
		return 1
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run database migrations")
		return 1
	}

	// Email dispatcher
	var dispatcher delivery.Dispatcher
	emailService, err := notifications.NewEmailService(cfg.SMTP, logger)
	if err != nil {
		if cfg.Environment == config.EnvProduction {
			logger.Fatal().Err(err).Msg("SMTP configuration is required in production")
			return 1
		}
		logger.Warn().Err(err).Msg("SMTP not configured, delivery emails will only be logged")
		dispatcher = &logDispatcher{logger: logger}
	} else {
		dispatcher = emailService
	}

	// Intake rate limiter: shared store when Redis is configured, otherwise
	// process-local memory with a periodic sweep of stale windows.
	var limiterStore ratelimit.Store
	sched := cron.New()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Invalid REDIS_URL")
			return 1
		}
		limiterStore = ratelimit.NewRedisStore(redis.NewClient(opts))
		logger.Info().Msg("intake rate limiter backed by redis")
	} else {
		memStore := ratelimit.NewMemoryStore()
		limiterStore = memStore
		if _, err := sched.AddFunc("@every 5m", func() {
			if removed := memStore.Sweep(cfg.IntakeRateLimitWindow); removed > 0 {
				logger.Debug().Int("removed", removed).Msg("swept stale rate limit windows")
			}
		}); err != nil {
			logger.Fatal().Err(err).Msg("Failed to schedule rate limit sweep")
			return 1
		}
		logger.Info().Msg("intake rate limiter backed by process-local memory")
	}
	sched.Start()
	defer sched.Stop()

	limiter := ratelimit.New(limiterStore, cfg.IntakeRateLimitRequests, cfg.IntakeRateLimitWindow)
	intake := delivery.NewIntakeService(limiter, dispatcher, cfg.SiteURL, logger)

	// Build API router
	apiCfg := api.Config{
		Environment:       cfg.Environment,
		AllowedOrigins:    cfg.AllowedOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitPeriod:   cfg.RateLimitPeriod,
	}
	router, err := api.NewRouter(apiCfg, database, intake, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build API router")
		return 1
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Port).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server failed")
			return 1
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			return 1
		}
	}

	return 0
}

// logDispatcher is the development fallback when SMTP is not configured: it
// logs the delivery instead of sending it.
type logDispatcher struct {
	logger zerolog.Logger
}

func (d *logDispatcher) SendLeadMagnet(to string, data notifications.LeadMagnetData) error {
	d.logger.Info().
		Str("to", to).
		Str("asset", data.AssetName).
		Str("download_url", data.DownloadURL).
		Msg("delivery email (not sent, SMTP unconfigured)")
	return nil
}
