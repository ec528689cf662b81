// Package main is the entry point for the club trip API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for goose

	"github.com/umoc/basecamp/backend/internal/auth"
	"github.com/umoc/basecamp/backend/internal/config"
	"github.com/umoc/basecamp/backend/internal/handler"
	"github.com/umoc/basecamp/backend/internal/logging"
	"github.com/umoc/basecamp/backend/internal/metrics"
	"github.com/umoc/basecamp/backend/internal/middleware"
	"github.com/umoc/basecamp/backend/internal/notify"
	"github.com/umoc/basecamp/backend/internal/repo"
	"github.com/umoc/basecamp/backend/internal/service"
	"github.com/umoc/basecamp/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Default logger until the configured one exists.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// --- Repositories -----------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	profileRepo := repo.NewProfileRepo(pool)
	commentRepo := repo.NewCommentRepo(pool)
	notificationRepo := repo.NewNotificationRepo(pool)
	statsRepo := repo.NewStatsRepo(pool)

	// --- Notifications ----------------------------------------------------
	// Stored notifications are always on; Kafka and e-mail are optional sinks.
	m := metrics.New()
	var publishers []notify.Publisher
	if cfg.Kafka.Enabled() {
		kp := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := kp.Close(); err != nil {
				slog.Warn("kafka writer close", "error", err)
			}
		}()
		publishers = append(publishers, kp)
		slog.Info("notification stream enabled", "topic", cfg.Kafka.Topic)
	}
	if cfg.SMTP.Enabled() {
		publishers = append(publishers, notify.NewEmailPublisher(profileRepo,
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From))
		slog.Info("notification e-mail enabled", "host", cfg.SMTP.Host)
	}
	dispatcher := notify.NewDispatcher(notificationRepo, logger, m, publishers...)

	// --- Services ---------------------------------------------------------
	tripSvc := service.NewTripService(tripRepo, profileRepo, dispatcher, logger).WithMetrics(m)
	commentSvc := service.NewCommentService(tripRepo, commentRepo, profileRepo, dispatcher, logger)
	notificationSvc := service.NewNotificationService(notificationRepo)
	profileSvc := service.NewProfileService(profileRepo, dispatcher, logger)
	statsSvc := service.NewStatsService(statsRepo)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics
	// → Recoverer → CORS → MaxBodySize.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	srv := handler.NewServer(handler.Services{
		Trips:         tripSvc,
		Comments:      commentSvc,
		Notifications: notificationSvc,
		Profiles:      profileSvc,
		Stats:         statsSvc,
	}, tokens, middleware.NewAuthenticator(tokens, profileSvc, logger), logger)
	srv.Routes(r)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	// Drain queued notifications before the deferred Kafka writer close.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		slog.Warn("notification queue not drained", "error", err)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations over a short-lived database/sql
// connection, since goose does not speak pgxpool.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Up(ctx, db)
}
