// Package ws implements the websocket notification channel: a registry of live
// connections, a best-effort broadcaster, and the per-connection endpoint.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	tsotel "github.com/Strob0t/tasksync/internal/adapter/otel"
	"github.com/Strob0t/tasksync/internal/config"
	"github.com/Strob0t/tasksync/internal/domain/event"
)

// Options tunes per-connection behaviour.
type Options struct {
	SendBuffer     int
	WriteTimeout   time.Duration
	PingInterval   time.Duration
	OriginPatterns []string
	ReadLimit      int64
}

// OptionsFromConfig maps the websocket config section onto Options.
func OptionsFromConfig(cfg config.WebSocket) Options {
	return Options{
		SendBuffer:     cfg.SendBuffer,
		WriteTimeout:   cfg.WriteTimeout,
		PingInterval:   cfg.PingInterval,
		OriginPatterns: cfg.OriginPatterns,
		ReadLimit:      cfg.ReadLimit,
	}
}

func (o Options) withDefaults() Options {
	if o.SendBuffer < 1 {
		o.SendBuffer = 16
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 4096
	}
	return o
}

// Handler is the notification endpoint. Each request it serves is one
// connection lifecycle: CONNECTING -> OPEN -> CLOSED.
type Handler struct {
	registry    *Registry
	broadcaster *Broadcaster
	metrics     *tsotel.Metrics
	opts        Options
}

// NewHandler creates an endpoint that registers connections in registry and
// triggers broadcaster on refresh_tasks control messages.
func NewHandler(registry *Registry, broadcaster *Broadcaster, metrics *tsotel.Metrics, opts Options) *Handler {
	return &Handler{
		registry:    registry,
		broadcaster: broadcaster,
		metrics:     metrics,
		opts:        opts.withDefaults(),
	}
}

// ServeHTTP upgrades the request and services the connection until it closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     h.opts.OriginPatterns,
		InsecureSkipVerify: len(h.opts.OriginPatterns) == 0, // CORS handled by middleware
	})
	if err != nil {
		slog.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	conn.SetReadLimit(h.opts.ReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newClient(conn, cancel, r.RemoteAddr, h.opts)
	h.registry.Register(c)
	h.metrics.ConnectionOpened(ctx)
	slog.Info("websocket connected", "remote", r.RemoteAddr, "connections", h.registry.Len())

	go c.writeLoop(ctx, h.opts.PingInterval)

	h.readLoop(ctx, c)

	h.registry.Deregister(c)
	c.Close()
	<-c.writerDone
	_ = conn.Close(websocket.StatusNormalClosure, "")

	h.metrics.ConnectionClosed(context.WithoutCancel(ctx))
	slog.Info("websocket disconnected", "remote", r.RemoteAddr, "connections", h.registry.Len())
}

// readLoop interprets inbound frames until the transport fails or the peer
// disconnects. Binary, unrecognized or malformed frames are ignored.
func (h *Handler) readLoop(ctx context.Context, c *wsClient) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			logReadEnd(c.remote, err)
			return
		}
		if typ != websocket.MessageText {
			slog.Debug("websocket frame ignored", "remote", c.remote, "reason", "binary")
			continue
		}

		n, ok := event.Decode(data)
		if !ok {
			slog.Debug("websocket frame ignored", "remote", c.remote, "reason", "malformed")
			continue
		}
		if !n.IsRefresh() {
			slog.Debug("websocket frame ignored", "remote", c.remote, "type", n.Type, "data", n.Data)
			continue
		}
		h.broadcaster.Broadcast(ctx, n.Data)
	}
}

func logReadEnd(remote string, err error) {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	slog.Debug("websocket read ended", "remote", remote, "error", err)
}
