package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Strob0t/tasksync/internal/domain"
	"github.com/Strob0t/tasksync/internal/domain/event"
	"github.com/Strob0t/tasksync/internal/domain/task"
	"github.com/Strob0t/tasksync/internal/domain/user"
	"github.com/Strob0t/tasksync/internal/port/broadcast"
	"github.com/Strob0t/tasksync/internal/service"
)

// Handlers holds the HTTP handlers and their service dependencies.
type Handlers struct {
	Tasks     *service.TaskService
	Users     *service.UserService
	Events    broadcast.Broadcaster
	BodyLimit int64
}

// ListTasks handles GET /api/v1/tasks?title=&skip=&limit=
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(r, "skip", 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}
	limit, ok := queryInt(r, "limit", domain.DefaultLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	page, err := h.Tasks.List(r.Context(), task.ListFilter{
		Title: r.URL.Query().Get("title"),
		Skip:  skip,
		Limit: limit,
	})
	if err != nil {
		writeDomainError(w, r, err, "tasks not found")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ClaimTask handles PUT /api/v1/tasks/claim-task/{id}
func (h *Handlers) ClaimTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Claim(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// TriggerEvent handles POST /api/v1/events/{name}. Known events are fanned
// out to connected websocket clients; delivery is best effort.
func (h *Handlers) TriggerEvent(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	if !event.Known(name) {
		writeError(w, http.StatusBadRequest, "unknown event")
		return
	}
	h.Events.Broadcast(r.Context(), name)
	writeJSON(w, http.StatusAccepted, map[string]string{"event": name})
}

// ListUsers handles GET /api/v1/users?skip=&limit=
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	skip, okSkip := queryInt(r, "skip", 0)
	limit, okLimit := queryInt(r, "limit", domain.DefaultLimit)
	if !okSkip || !okLimit {
		writeError(w, http.StatusBadRequest, "skip and limit must be non-negative integers")
		return
	}

	users, err := h.Users.List(r.Context(), skip, limit)
	if err != nil {
		writeDomainError(w, r, err, "users not found")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) createTask() http.HandlerFunc {
	return handleCreate(h.BodyLimit, h.Tasks.Create)
}

func (h *Handlers) createUser() http.HandlerFunc {
	return handleCreate(h.BodyLimit, h.Users.Create)
}

func (h *Handlers) updateUser() http.HandlerFunc {
	return handleUpdate[user.UpdateRequest](h.BodyLimit, h.Users.Update, "user not found")
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionCounter reports the number of open websocket connections.
type ConnectionCounter interface {
	ConnectionCount() int
}

// Health returns a handler that reports database reachability and the number
// of websocket clients. It answers 503 while the database is unreachable.
func Health(db Pinger, ws ConnectionCounter) http.HandlerFunc {
	type healthStatus struct {
		Status      string `json:"status"`
		Postgres    string `json:"postgres"`
		Connections int    `json:"ws_connections"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := healthStatus{Status: "ok", Postgres: "ok", Connections: ws.ConnectionCount()}
		code := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Postgres = err.Error()
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	}
}
