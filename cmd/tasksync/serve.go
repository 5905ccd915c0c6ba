package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	tshttp "github.com/Strob0t/tasksync/internal/adapter/http"
	tsnats "github.com/Strob0t/tasksync/internal/adapter/nats"
	tsotel "github.com/Strob0t/tasksync/internal/adapter/otel"
	"github.com/Strob0t/tasksync/internal/adapter/postgres"
	"github.com/Strob0t/tasksync/internal/adapter/ristretto"
	"github.com/Strob0t/tasksync/internal/adapter/ws"
	"github.com/Strob0t/tasksync/internal/config"
	"github.com/Strob0t/tasksync/internal/logger"
	"github.com/Strob0t/tasksync/internal/middleware"
	"github.com/Strob0t/tasksync/internal/port/messagequeue"
	"github.com/Strob0t/tasksync/internal/resilience"
	"github.com/Strob0t/tasksync/internal/service"
)

const (
	wsPath          = "/ws"
	shutdownTimeout = 10 * time.Second
)

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog := logger.New(cfg.Logging)
	defer closeLog.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"nats_enabled", cfg.NATS.URL != "",
		"otel_enabled", cfg.OTEL.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---

	shutdownOTEL, err := tsotel.Setup(ctx, cfg.OTEL)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTEL(sctx); err != nil {
			slog.Error("otel shutdown", "error", err)
		}
	}()

	metrics, err := tsotel.NewMetrics(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	var queue messagequeue.Queue = messagequeue.Nop{}
	if cfg.NATS.URL != "" {
		nq, err := tsnats.Connect(ctx, cfg.NATS.URL, cfg.NATS.Stream)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		queue = resilience.NewQueue(nq, resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))
	} else {
		slog.Info("nats disabled, task events will not be published")
	}
	defer func() {
		if err := queue.Close(); err != nil {
			slog.Error("queue close", "error", err)
		}
	}()

	taskCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer taskCache.Close()

	// --- Services ---

	hub := ws.NewHub(ws.OptionsFromConfig(cfg.WebSocket), metrics)
	store := postgres.NewStore(pool)

	taskSvc := service.NewTaskService(store, queue, hub)
	taskSvc.SetCache(taskCache, cfg.Cache.TTL)
	taskSvc.SetMetrics(metrics)

	handlers := &tshttp.Handlers{
		Tasks:     taskSvc,
		Users:     service.NewUserService(store, cfg.Auth.BcryptCost),
		Events:    hub,
		BodyLimit: cfg.Server.BodyLimit,
	}

	// --- HTTP ---

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(tsotel.HTTPMiddleware(cfg.OTEL.ServiceName, wsPath))
	r.Use(tshttp.CORS(cfg.Server.CORSOrigin))
	r.Use(tshttp.SecurityHeaders)
	r.Use(tshttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", tshttp.Health(store, hub))
	r.Get(wsPath, hub.ServeHTTP)
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		tshttp.MountRoutes(r, handlers)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Shutdown does not track hijacked connections; close websockets explicitly.
		if err := hub.Close(sctx); err != nil {
			slog.Warn("websocket close", "error", err)
		}
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
