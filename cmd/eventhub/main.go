package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/eventhub/internal/config"
	"github.com/vasiliy-maslov/eventhub/internal/db"
	"github.com/vasiliy-maslov/eventhub/internal/event"
	apiHttp "github.com/vasiliy-maslov/eventhub/internal/handler/http"
	"github.com/vasiliy-maslov/eventhub/internal/user"
	"github.com/vasiliy-maslov/eventhub/internal/validation"
)

func main() {
	log.Logger = log.With().Str("service", "eventhub").Logger()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	setupLogger(cfg)
	log.Info().Str("env", cfg.App.Env).Str("driver", cfg.Database.Driver).Msg("Eventhub starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	rules := validation.New()

	userRepository := user.NewRepository(database)
	userSvc := user.NewService(userRepository, user.NewValidator(rules, userRepository))

	eventRepository := event.NewRepository(database)
	eventSvc := event.NewService(eventRepository, event.NewValidator(rules, userRepository))

	router := apiHttp.NewRouter(ctx, apiHttp.RouterConfig{
		Logger:         log.Logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		BodyLimitBytes: cfg.App.BodyLimitBytes,
	},
		apiHttp.NewHealthHandler(database),
		apiHttp.NewUserHandler(userSvc),
		apiHttp.NewEventHandler(eventSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Error().Err(err).Str("port", cfg.App.Port).Msg("Server failed")
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Eventhub stopped gracefully")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		log.Warn().Str("log_level", cfg.App.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
