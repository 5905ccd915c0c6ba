package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	tsotel "github.com/Strob0t/tasksync/internal/adapter/otel"
	"github.com/Strob0t/tasksync/internal/domain/event"
)

// Broadcaster delivers events to every client in a Registry, best effort.
type Broadcaster struct {
	registry *Registry
	metrics  *tsotel.Metrics
}

// NewBroadcaster creates a Broadcaster over registry. metrics may be nil.
func NewBroadcaster(registry *Registry, metrics *tsotel.Metrics) *Broadcaster {
	return &Broadcaster{registry: registry, metrics: metrics}
}

// Broadcast sends {"type":"event","data":name} once to each client registered
// at the time of the call. A client whose send fails is skipped, deregistered
// and closed; the remaining clients are unaffected. A client with a full queue
// only misses this message.
func (b *Broadcaster) Broadcast(ctx context.Context, name string) {
	ctx, span := tsotel.StartBroadcastSpan(ctx, name)
	defer span.End()

	data, err := json.Marshal(event.New(name))
	if err != nil {
		slog.Error("websocket marshal failed", "event", name, "error", err)
		return
	}

	clients := b.registry.Snapshot()
	var failed []Client
	dropped := 0
	for _, c := range clients {
		err := c.Send(data)
		switch {
		case err == nil:
		case errors.Is(err, errSendDropped):
			dropped++
		default:
			slog.Debug("websocket send failed", "event", name, "error", err)
			failed = append(failed, c)
		}
	}
	if dropped > 0 {
		slog.Warn("websocket send queue full, event dropped", "event", name, "clients", dropped)
	}

	for _, c := range failed {
		b.registry.Deregister(c)
		c.Close()
	}

	delivered := len(clients) - len(failed) - dropped
	span.SetAttributes(
		attribute.Int("ws.delivered", delivered),
		attribute.Int("ws.dropped", dropped),
		attribute.Int("ws.failed", len(failed)),
	)
	b.metrics.BroadcastDone(ctx, name, delivered, len(failed))
}
