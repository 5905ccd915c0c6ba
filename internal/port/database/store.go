// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/tasksync/internal/domain/task"
	"github.com/Strob0t/tasksync/internal/domain/user"
)

// Store is the port interface for database operations.
type Store interface {
	// Tasks
	CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	ListTodoTasks(ctx context.Context, filter task.ListFilter) ([]task.Task, error)
	CountTasks(ctx context.Context) (int, error)
	UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error)

	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error
	DeleteUser(ctx context.Context, id string) error
}
