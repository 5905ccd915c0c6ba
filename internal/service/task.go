package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	tsotel "github.com/Strob0t/tasksync/internal/adapter/otel"
	"github.com/Strob0t/tasksync/internal/domain"
	"github.com/Strob0t/tasksync/internal/domain/event"
	"github.com/Strob0t/tasksync/internal/domain/task"
	"github.com/Strob0t/tasksync/internal/port/broadcast"
	"github.com/Strob0t/tasksync/internal/port/cache"
	"github.com/Strob0t/tasksync/internal/port/database"
	"github.com/Strob0t/tasksync/internal/port/messagequeue"
)

// TaskService handles task business logic. Every successful mutation tells
// connected clients to refetch and publishes a task event downstream.
type TaskService struct {
	store   database.Store
	queue   messagequeue.Queue
	hub     broadcast.Broadcaster
	cache   cache.Cache
	ttl     time.Duration
	metrics *tsotel.Metrics

	// gen is part of every list cache key; bumping it invalidates all pages at once.
	gen atomic.Uint64
}

// NewTaskService creates a new TaskService.
func NewTaskService(store database.Store, queue messagequeue.Queue, hub broadcast.Broadcaster) *TaskService {
	return &TaskService{store: store, queue: queue, hub: hub}
}

// SetCache enables caching of list pages for ttl.
func (s *TaskService) SetCache(c cache.Cache, ttl time.Duration) {
	s.cache = c
	s.ttl = ttl
}

// SetMetrics attaches task counters.
func (s *TaskService) SetMetrics(m *tsotel.Metrics) {
	s.metrics = m
}

// List returns a page of open tasks together with the total task count.
func (s *TaskService) List(ctx context.Context, filter task.ListFilter) (*task.Page, error) {
	filter.Normalize()
	key := s.cacheKey(filter)

	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var page task.Page
			if err := json.Unmarshal(data, &page); err == nil {
				return &page, nil
			}
		}
	}

	tasks, err := s.store.ListTodoTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	count, err := s.store.CountTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	page := &task.Page{Data: tasks, Count: count}

	if s.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				slog.Debug("task list cache set failed", "error", err)
			}
		}
	}
	return page, nil
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	return s.store.GetTask(ctx, id)
}

// Create validates and stores a new task.
func (s *TaskService) Create(ctx context.Context, req task.CreateRequest) (*task.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	t, err := s.store.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx, span := tsotel.StartTaskSpan(ctx, "create", t.ID)
	defer span.End()

	s.metrics.TaskCreated(ctx)
	s.afterMutation(ctx, messagequeue.SubjectTaskCreated, t)
	return t, nil
}

// Claim moves a task to In Progress.
func (s *TaskService) Claim(ctx context.Context, id string) (*task.Task, error) {
	t, err := s.store.UpdateTaskStatus(ctx, id, task.StatusInProgress)
	if err != nil {
		return nil, err
	}

	ctx, span := tsotel.StartTaskSpan(ctx, "claim", t.ID)
	defer span.End()

	s.metrics.TaskClaimed(ctx)
	s.afterMutation(ctx, messagequeue.SubjectTaskClaimed, t)
	return t, nil
}

// afterMutation invalidates cached pages, notifies websocket clients and
// publishes the task event. None of these steps can fail the mutation.
func (s *TaskService) afterMutation(ctx context.Context, subject string, t *task.Task) {
	s.gen.Add(1)
	s.hub.Broadcast(ctx, event.RefreshTasks)

	data, err := json.Marshal(messagequeue.TaskEventPayload{
		TaskID:     t.ID,
		Title:      t.Title,
		Assignee:   t.Assignee,
		Status:     string(t.Status),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Error("marshal task event", "task_id", t.ID, "error", err)
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Error("failed to publish task event", "subject", subject, "task_id", t.ID, "error", err)
	}
}

func (s *TaskService) cacheKey(f task.ListFilter) string {
	return "tasks:" + strconv.FormatUint(s.gen.Load(), 10) +
		":" + strconv.Itoa(f.Skip) + ":" + strconv.Itoa(f.Limit) + ":" + f.Title
}
