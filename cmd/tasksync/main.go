// Command tasksync runs the task API and its websocket notification endpoint.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return runServe()
	}

	switch args[0] {
	case "serve":
		return runServe()
	case "migrate":
		return runMigrate(args[1:])
	case "admin":
		return runAdmin(args[1:])
	case "help", "--help", "-h":
		printHelp()
		return nil
	default:
		printHelp()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printHelp() {
	fmt.Fprint(os.Stderr, `Usage: tasksync <command> [options]

Commands:
  serve      Run the HTTP API and websocket endpoint (default)
  migrate    Apply or roll back database migrations
  admin      Manage users
  help       Show this help message
`)
}
