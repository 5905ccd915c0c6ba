package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	tsotel "github.com/Strob0t/tasksync/internal/adapter/otel"
)

// Hub bundles the registry, broadcaster and endpoint that make up one
// notification channel. Create one per process and pass it to whatever needs
// to broadcast.
type Hub struct {
	registry    *Registry
	broadcaster *Broadcaster
	handler     *Handler
}

// NewHub creates a hub with an empty registry. metrics may be nil.
func NewHub(opts Options, metrics *tsotel.Metrics) *Hub {
	reg := NewRegistry()
	bc := NewBroadcaster(reg, metrics)
	return &Hub{
		registry:    reg,
		broadcaster: bc,
		handler:     NewHandler(reg, bc, metrics, opts),
	}
}

// ServeHTTP is the websocket endpoint.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

// Broadcast sends the named event to every connected client.
func (h *Hub) Broadcast(ctx context.Context, name string) {
	h.broadcaster.Broadcast(ctx, name)
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	return h.registry.Len()
}

// Close sends a going-away close frame to every connected client and waits
// for the handshakes to finish or ctx to expire. Connections still closing
// when ctx expires are torn down without a handshake. Each endpoint then
// deregisters its own connection.
func (h *Hub) Close(ctx context.Context) error {
	var g errgroup.Group
	for _, c := range h.registry.Snapshot() {
		wc, ok := c.(*wsClient)
		if !ok {
			c.Close()
			continue
		}
		g.Go(func() error {
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = wc.conn.Close(websocket.StatusGoingAway, "server shutting down")
			}()
			select {
			case <-done:
			case <-ctx.Done():
				// Cancelling the client aborts the endpoint's pending Read,
				// which closes the transport and ends the handshake.
				wc.Close()
				<-done
			}
			return nil
		})
	}
	return g.Wait()
}
