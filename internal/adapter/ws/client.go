package ws

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

var (
	errClientClosed = errors.New("websocket client closed")
	// errSendDropped means the peer is alive but its queue is full. Events
	// carry only a name and are idempotent, so the message is dropped and
	// the peer keeps its registration.
	errSendDropped = errors.New("websocket send buffer full, message dropped")
)

// wsClient wraps a single websocket connection. Outbound messages go through a
// bounded queue drained by one writer goroutine, so delivery to one peer is FIFO
// and a slow peer never blocks the broadcaster. Only a failed write or ping
// closes the client.
type wsClient struct {
	conn         *websocket.Conn
	remote       string
	send         chan []byte
	done         chan struct{}
	writerDone   chan struct{}
	cancel       context.CancelFunc
	closeOnce    sync.Once
	writeTimeout time.Duration
}

func newClient(conn *websocket.Conn, cancel context.CancelFunc, remote string, opts Options) *wsClient {
	return &wsClient{
		conn:         conn,
		remote:       remote,
		send:         make(chan []byte, opts.SendBuffer),
		done:         make(chan struct{}),
		writerDone:   make(chan struct{}),
		cancel:       cancel,
		writeTimeout: opts.WriteTimeout,
	}
}

// Send queues data for the writer goroutine. It returns errClientClosed once
// the client is closed and errSendDropped when the queue is full.
func (c *wsClient) Send(data []byte) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errSendDropped
	}
}

// Close stops the writer and cancels the connection context, which makes the
// pending Read in the endpoint return and end the connection's lifecycle.
func (c *wsClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
	})
}

// writeLoop drains the send queue and, when pingInterval > 0, keeps the
// connection alive. Any write or ping failure closes the client.
func (c *wsClient) writeLoop(ctx context.Context, pingInterval time.Duration) {
	defer close(c.writerDone)
	defer c.Close()

	var ping <-chan time.Time
	if pingInterval > 0 {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		ping = t.C
	}

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case data := <-c.send:
			if err := c.write(ctx, data); err != nil {
				slog.Debug("websocket write failed", "remote", c.remote, "error", err)
				return
			}
		case <-ping:
			pctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				slog.Debug("websocket ping failed", "remote", c.remote, "error", err)
				return
			}
		}
	}
}

func (c *wsClient) write(ctx context.Context, data []byte) error {
	wctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()
	return c.conn.Write(wctx, websocket.MessageText, data)
}
