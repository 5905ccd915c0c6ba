//go:build integration

package integration_test

import (
	"context"
	"testing"

	"github.com/Strob0t/tasksync/internal/adapter/postgres"
)

// TestMigrationUpDown applies all migrations, rolls them back, then re-applies.
// Runs last in file order so the schema is restored for other tests.
func TestMigrationUpDown(t *testing.T) {
	ctx := context.Background()
	dsn := testDSN()
	const totalMigrations = 1

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("RunMigrations (up): %v", err)
	}
	v, err := postgres.MigrationVersion(ctx, dsn)
	if err != nil {
		t.Fatalf("MigrationVersion after up: %v", err)
	}
	if v != totalMigrations {
		t.Fatalf("expected version %d after up, got %d", totalMigrations, v)
	}

	if err := postgres.RollbackMigrations(ctx, dsn, totalMigrations); err != nil {
		t.Fatalf("RollbackMigrations: %v", err)
	}
	v, err = postgres.MigrationVersion(ctx, dsn)
	if err != nil {
		t.Fatalf("MigrationVersion after down: %v", err)
	}
	if v != 0 {
		t.Fatalf("expected version 0 after down, got %d", v)
	}

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("RunMigrations (re-up): %v", err)
	}
}
