package ws

import (
	"slices"
	"sync"
)

// Client is one registered peer. Send must not block on the network; it either
// queues data for delivery or reports that the peer can no longer receive.
// Close tears the peer down and may be called more than once.
type Client interface {
	Send(data []byte) error
	Close()
}

// Registry is the authoritative set of clients currently able to receive broadcasts.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	clients map[Client]uint64 // value is the registration sequence number
	seq     uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[Client]uint64)}
}

// Register adds c to the set. It reports false if c was already registered.
func (r *Registry) Register(c Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[c]; ok {
		return false
	}
	r.seq++
	r.clients[c] = r.seq
	return true
}

// Deregister removes c from the set. Removing an absent client is a no-op
// that reports false.
func (r *Registry) Deregister(c Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[c]; !ok {
		return false
	}
	delete(r.clients, c)
	return true
}

// Contains reports whether c is registered.
func (r *Registry) Contains(c Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[c]
	return ok
}

// Snapshot returns the registered clients in registration order. The slice is
// a copy; later registrations and removals do not affect it.
func (r *Registry) Snapshot() []Client {
	r.mu.RLock()
	type entry struct {
		c   Client
		seq uint64
	}
	entries := make([]entry, 0, len(r.clients))
	for c, seq := range r.clients {
		entries = append(entries, entry{c: c, seq: seq})
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	out := make([]Client, len(entries))
	for i, e := range entries {
		out[i] = e.c
	}
	return out
}

// Len returns the number of registered clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
