package messagequeue

import "time"

// TaskEventPayload is the schema for tasks.created and tasks.claimed messages.
type TaskEventPayload struct {
	TaskID     string    `json:"task_id"`
	Title      string    `json:"title"`
	Assignee   string    `json:"assignee"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
