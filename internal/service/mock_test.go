package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Strob0t/tasksync/internal/domain"
	"github.com/Strob0t/tasksync/internal/domain/task"
	"github.com/Strob0t/tasksync/internal/domain/user"
)

// mockStore is an in-memory database.Store.
type mockStore struct {
	mu        sync.Mutex
	tasks     []task.Task
	users     []user.User
	listCalls int
	createErr error
}

func (m *mockStore) CreateTask(_ context.Context, req task.CreateRequest) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	t := task.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Assignee:    req.Assignee,
		Status:      req.Status,
		CreatedAt:   time.Now().Add(time.Duration(len(m.tasks)) * time.Millisecond),
	}
	m.tasks = append(m.tasks, t)
	return &t, nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) ListTodoTasks(_ context.Context, f task.ListFilter) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++

	var out []task.Task
	for _, t := range m.tasks {
		if t.Status != task.StatusTodo {
			continue
		}
		if f.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Title)) {
			continue
		}
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b task.Task) int { return b.CreatedAt.Compare(a.CreatedAt) })

	if f.Skip >= len(out) {
		return []task.Task{}, nil
	}
	out = out[f.Skip:]
	return out[:min(f.Limit, len(out))], nil
}

func (m *mockStore) CountTasks(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks), nil
}

func (m *mockStore) UpdateTaskStatus(_ context.Context, id string, status task.Status) (*task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = status
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("update task %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user %s: %w", u.Email, domain.ErrConflict)
		}
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email %s: %w", email, domain.ErrNotFound)
}

func (m *mockStore) ListUsers(_ context.Context, skip, limit int) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if skip >= len(m.users) {
		return []user.User{}, nil
	}
	out := slices.Clone(m.users[skip:])
	return out[:min(limit, len(out))], nil
}

func (m *mockStore) UpdateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return fmt.Errorf("update user %s: %w", u.ID, domain.ErrNotFound)
}

func (m *mockStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.users, func(u user.User) bool { return u.ID == id })
	if i < 0 {
		return fmt.Errorf("delete user %s: %w", id, domain.ErrNotFound)
	}
	m.users = slices.Delete(m.users, i, i+1)
	return nil
}

// recordingHub implements broadcast.Broadcaster and remembers event names.
type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHub) Broadcast(_ context.Context, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, name)
}

func (h *recordingHub) names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.events)
}

type published struct {
	subject string
	data    []byte
}

// mockQueue implements messagequeue.Queue for testing.
type mockQueue struct {
	mu         sync.Mutex
	published  []published
	publishErr error
}

func (q *mockQueue) Publish(_ context.Context, subject string, data []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published = append(q.published, published{subject, data})
	return nil
}

func (q *mockQueue) Close() error { return nil }

// mapCache implements cache.Cache without expiry.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

