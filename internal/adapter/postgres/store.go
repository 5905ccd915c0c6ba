package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/tasksync/internal/domain"
	"github.com/Strob0t/tasksync/internal/domain/task"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks connectivity for health reporting.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const taskColumns = `id, title, description, assignee, status, created_at`

// --- Tasks ---

func (s *Store) CreateTask(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO task (id, title, description, assignee, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+taskColumns,
		uuid.NewString(), req.Title, req.Description, req.Assignee, string(req.Status), time.Now().UTC())

	t, err := scanTask(row)
	if err != nil {
		return nil, wrapErr(err, "create task")
	}
	return &t, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
	}
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM task WHERE id = $1`, id)

	t, err := scanTask(row)
	if err != nil {
		return nil, wrapErr(err, "get task %s", id)
	}
	return &t, nil
}

// ListTodoTasks returns open tasks, newest first, optionally filtered by a
// case-insensitive title substring.
func (s *Store) ListTodoTasks(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	filter.Normalize()

	rows, err := s.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM task
		 WHERE status = $1 AND ($2::text = '' OR title ILIKE '%' || $2::text || '%')
		 ORDER BY created_at DESC
		 OFFSET $3 LIMIT $4`,
		string(task.StatusTodo), filter.Title, filter.Skip, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return orEmpty(tasks), rows.Err()
}

func (s *Store) CountTasks(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM task`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, domain.ErrNotFound)
	}
	row := s.pool.QueryRow(ctx,
		`UPDATE task SET status = $2 WHERE id = $1 RETURNING `+taskColumns,
		id, string(status))

	t, err := scanTask(row)
	if err != nil {
		return nil, wrapErr(err, "update task %s", id)
	}
	return &t, nil
}

func scanTask(row scannable) (task.Task, error) {
	var (
		t      task.Task
		status string
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Assignee, &status, &t.CreatedAt); err != nil {
		return task.Task{}, err
	}
	t.Status = task.Status(status)
	return t, nil
}
