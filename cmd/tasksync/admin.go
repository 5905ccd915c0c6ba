package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/Strob0t/tasksync/internal/adapter/postgres"
	"github.com/Strob0t/tasksync/internal/config"
	"github.com/Strob0t/tasksync/internal/domain/user"
	"github.com/Strob0t/tasksync/internal/service"
)

// runAdmin dispatches admin subcommands (create-user, list-users, check-password).
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "create-user":
		return runAdminCreateUser(args[1:])
	case "list-users":
		return runAdminListUsers(args[1:])
	case "check-password":
		return runAdminCheckPassword(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprint(os.Stderr, `Usage: tasksync admin <command> [options]

Commands:
  create-user      Create a new user
  list-users       List users
  check-password   Verify a user's password
  help             Show this help message

Examples:
  tasksync admin create-user --email admin@example.com --name "Admin" --superuser
  tasksync admin list-users --limit 50
  tasksync admin check-password --email admin@example.com
`)
}

func loadUserService() (*service.UserService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := postgres.NewPool(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	svc := service.NewUserService(postgres.NewStore(pool), cfg.Auth.BcryptCost)
	return svc, pool.Close, nil
}

func runAdminCreateUser(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	email := fs.String("email", "", "user email address (required)")
	name := fs.String("name", "", "full name")
	password := fs.String("password", "", "password (prompted if not provided)") //nolint:gosec // CLI flag
	superuser := fs.Bool("superuser", false, "grant superuser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return errors.New("--email is required")
	}

	pass := *password
	if pass == "" {
		var err error
		pass, err = promptNewPassword()
		if err != nil {
			return err
		}
	}

	svc, cleanup, err := loadUserService()
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := svc.Create(context.Background(), user.CreateRequest{
		Email:       *email,
		Password:    pass,
		FullName:    *name,
		IsSuperuser: *superuser,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(os.Stderr, "User created: %s (id=%s, superuser=%t)\n", u.Email, u.ID, u.IsSuperuser)
	return nil
}

func runAdminListUsers(args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	skip := fs.Int("skip", 0, "number of users to skip")
	limit := fs.Int("limit", 100, "maximum number of users to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, cleanup, err := loadUserService()
	if err != nil {
		return err
	}
	defer cleanup()

	users, err := svc.List(context.Background(), *skip, *limit)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEMAIL\tNAME\tACTIVE\tSUPERUSER")
	for i := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n",
			users[i].ID, users[i].Email, users[i].FullName, users[i].IsActive, users[i].IsSuperuser)
	}
	return w.Flush()
}

func runAdminCheckPassword(args []string) error {
	fs := flag.NewFlagSet("check-password", flag.ContinueOnError)
	email := fs.String("email", "", "user email address (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("--email is required")
	}

	pass, err := promptPassword("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	svc, cleanup, err := loadUserService()
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := svc.Authenticate(context.Background(), *email, pass)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Password OK for %s (id=%s)\n", u.Email, u.ID)
	return nil
}

func promptNewPassword() (string, error) {
	pass, err := promptPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pass != confirm {
		return "", errors.New("passwords do not match")
	}
	return pass, nil
}

// promptPassword reads a password from the terminal without echoing.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // int conversion needed on some platforms
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
