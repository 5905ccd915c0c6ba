package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Strob0t/tasksync/internal/adapter/postgres"
	"github.com/Strob0t/tasksync/internal/config"
)

// runMigrate dispatches migrate subcommands (up, down, version).
func runMigrate(args []string) error {
	if len(args) == 0 {
		args = []string{"up"}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := context.Background()
	dsn := cfg.Postgres.DSN

	switch args[0] {
	case "up":
		if err := postgres.RunMigrations(ctx, dsn); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Migrations applied.")
	case "down":
		fs := flag.NewFlagSet("down", flag.ContinueOnError)
		steps := fs.Int("steps", 1, "number of migrations to roll back")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		if err := postgres.RollbackMigrations(ctx, dsn, *steps); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Rolled back %d migration(s).\n", *steps)
	case "version":
		v, err := postgres.MigrationVersion(ctx, dsn)
		if err != nil {
			return err
		}
		fmt.Println(v)
	default:
		fmt.Fprint(os.Stderr, `Usage: tasksync migrate [up|down [--steps N]|version]
`)
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}
	return nil
}
