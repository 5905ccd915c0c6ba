package resilience

import (
	"context"
	"log/slog"

	"github.com/Strob0t/tasksync/internal/port/messagequeue"
)

// Queue wraps a messagequeue.Queue with a Breaker.
type Queue struct {
	inner   messagequeue.Queue
	breaker *Breaker
}

// NewQueue returns q guarded by b.
func NewQueue(q messagequeue.Queue, b *Breaker) *Queue {
	return &Queue{inner: q, breaker: b}
}

// Publish forwards to the wrapped queue while the circuit is closed.
func (q *Queue) Publish(ctx context.Context, subject string, data []byte) error {
	err := q.breaker.Execute(func() error {
		return q.inner.Publish(ctx, subject, data)
	})
	if err != nil {
		slog.WarnContext(ctx, "publish rejected", "subject", subject, "breaker", q.breaker.State().String(), "error", err)
	}
	return err
}

// Close closes the wrapped queue.
func (q *Queue) Close() error {
	return q.inner.Close()
}
