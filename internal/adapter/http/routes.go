package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"version":"0.1.0"}`))
		})

		// Tasks
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks/create", h.createTask())
		r.Get("/tasks/{id}", handleGet(h.Tasks.Get, "task not found"))
		r.Put("/tasks/claim-task/{id}", h.ClaimTask)

		// Events
		r.Post("/events/{name}", h.TriggerEvent)

		// Users
		r.Get("/users", h.ListUsers)
		r.Post("/users", h.createUser())
		r.Get("/users/{id}", handleGet(h.Users.Get, "user not found"))
		r.Patch("/users/{id}", h.updateUser())
		r.Delete("/users/{id}", handleDelete(h.Users.Delete, "user not found"))
	})
}
