// Package broadcast defines the port for notifying connected clients of changes.
package broadcast

import "context"

// Broadcaster sends a named event to all connected clients, best effort.
// Callers do not hold connection references and do not wait for delivery.
type Broadcaster interface {
	Broadcast(ctx context.Context, name string)
}
