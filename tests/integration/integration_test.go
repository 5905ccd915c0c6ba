//go:build integration

// Package integration_test runs API-level tests against a real PostgreSQL database.
// Requires: a reachable PostgreSQL (DATABASE_URL).
// Run with: go test -tags=integration ./tests/integration/...
package integration_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	tshttp "github.com/Strob0t/tasksync/internal/adapter/http"
	"github.com/Strob0t/tasksync/internal/adapter/postgres"
	"github.com/Strob0t/tasksync/internal/adapter/ws"
	"github.com/Strob0t/tasksync/internal/config"
	"github.com/Strob0t/tasksync/internal/middleware"
	"github.com/Strob0t/tasksync/internal/port/messagequeue"
	"github.com/Strob0t/tasksync/internal/service"
)

var (
	testServer *httptest.Server
	testPool   *pgxpool.Pool
	testHub    *ws.Hub
)

func testDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return config.Defaults().Postgres.DSN
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	cfg := config.Defaults()
	cfg.Postgres.DSN = testDSN()

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to postgres: %v\n", err)
		os.Exit(1)
	}
	testPool = pool

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		fmt.Fprintf(os.Stderr, "migrations failed: %v\n", err)
		os.Exit(1)
	}

	// Real store and websocket hub; task events go nowhere.
	store := postgres.NewStore(pool)
	testHub = ws.NewHub(ws.OptionsFromConfig(cfg.WebSocket), nil)

	handlers := &tshttp.Handlers{
		Tasks:     service.NewTaskService(store, messagequeue.Nop{}, testHub),
		Users:     service.NewUserService(store, bcrypt.MinCost),
		Events:    testHub,
		BodyLimit: cfg.Server.BodyLimit,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(tshttp.Logger)
	r.Get("/health", tshttp.Health(store, testHub))
	r.Get("/ws", testHub.ServeHTTP)
	tshttp.MountRoutes(r, handlers)

	testServer = httptest.NewServer(r)

	cleanDB(pool)

	code := m.Run()

	cleanDB(pool)
	_ = testHub.Close(ctx)
	testServer.Close()
	pool.Close()

	os.Exit(code)
}

func cleanDB(pool *pgxpool.Pool) {
	ctx := context.Background()
	_, _ = pool.Exec(ctx, "DELETE FROM task")
	_, _ = pool.Exec(ctx, "DELETE FROM users")
}
