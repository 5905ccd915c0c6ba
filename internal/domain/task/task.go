// Package task defines the Task domain entity.
package task

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/Strob0t/tasksync/internal/domain"
)

// Status represents the current state of a task.
type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusInProgress
}

const maxFieldLen = 255

// Task is a unit of shared work that any user can claim.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Assignee    string    `json:"assignee"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRequest holds the fields needed to create a new task.
type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Status      Status `json:"status,omitempty"`
}

// Validate checks required fields and applies the default status.
func (r *CreateRequest) Validate() error {
	if err := checkField("title", r.Title); err != nil {
		return err
	}
	if err := checkField("description", r.Description); err != nil {
		return err
	}
	if err := checkField("assignee", r.Assignee); err != nil {
		return err
	}
	if r.Status == "" {
		r.Status = StatusTodo
	}
	if !r.Status.Valid() {
		return errors.New("invalid status: must be \"To Do\" or \"In Progress\"")
	}
	return nil
}

func checkField(name, v string) error {
	if v == "" {
		return errors.New(name + " is required")
	}
	if utf8.RuneCountInString(v) > maxFieldLen {
		return errors.New(name + " must be at most 255 characters")
	}
	return nil
}

// ListFilter selects a page of open tasks.
type ListFilter struct {
	Title string `json:"title,omitempty"` // case-insensitive substring
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// Normalize clamps paging values into range.
func (f *ListFilter) Normalize() {
	f.Skip, f.Limit = domain.ClampPage(f.Skip, f.Limit)
}

// Page is one listing response. Count is the total number of tasks stored.
type Page struct {
	Data  []Task `json:"data"`
	Count int    `json:"count"`
}
