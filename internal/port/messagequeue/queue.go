// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Queue is the port interface for publishing task events to downstream consumers.
type Queue interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close shuts down the queue connection.
	Close() error
}

// Subject constants for task events.
const (
	SubjectTaskCreated = "tasks.created"
	SubjectTaskClaimed = "tasks.claimed"
)

// Nop is a Queue that discards everything. Used when no broker is configured.
type Nop struct{}

// Publish discards data.
func (Nop) Publish(context.Context, string, []byte) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
