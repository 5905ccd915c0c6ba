package ws

import (
	"sync"
	"testing"
)

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	c := &fakeClient{}

	if !reg.Register(c) {
		t.Fatal("first Register should report true")
	}
	if reg.Register(c) {
		t.Fatal("second Register of the same client should report false")
	}
	if got := reg.Len(); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}
}

func TestRegistryDeregisterAbsentIsNoop(t *testing.T) {
	reg := NewRegistry()
	c := &fakeClient{}

	if reg.Deregister(c) {
		t.Fatal("Deregister of a never-registered client should report false")
	}

	reg.Register(c)
	if !reg.Deregister(c) {
		t.Fatal("Deregister of a registered client should report true")
	}
	if reg.Deregister(c) {
		t.Fatal("double Deregister should report false")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}

func TestRegistrySnapshotOrderAndIsolation(t *testing.T) {
	reg := NewRegistry()
	a, b, c := &fakeClient{}, &fakeClient{}, &fakeClient{}
	reg.Register(a)
	reg.Register(b)
	reg.Register(c)

	snap := reg.Snapshot()
	if len(snap) != 3 || snap[0] != a || snap[1] != b || snap[2] != c {
		t.Fatalf("snapshot not in registration order: %v", snap)
	}

	reg.Deregister(b)
	if len(snap) != 3 {
		t.Fatal("snapshot must not change after Deregister")
	}
	if reg.Contains(b) {
		t.Fatal("b should no longer be registered")
	}

	// Re-registration goes to the back.
	reg.Register(b)
	snap = reg.Snapshot()
	if snap[2] != b {
		t.Fatalf("expected re-registered client last, got %v", snap)
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	reg := NewRegistry()
	const workers = 32
	const rounds = 200

	clients := make([]*fakeClient, workers)
	for i := range clients {
		clients[i] = &fakeClient{}
	}

	var wg sync.WaitGroup
	for _, c := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				reg.Register(c)
				reg.Register(c)
				_ = reg.Snapshot()
				reg.Deregister(c)
				reg.Deregister(c)
			}
			reg.Register(c)
		}()
	}
	wg.Wait()

	snap := reg.Snapshot()
	if len(snap) != workers {
		t.Fatalf("expected %d clients, got %d", workers, len(snap))
	}
	seen := make(map[Client]bool)
	for _, c := range snap {
		if seen[c] {
			t.Fatal("duplicate client in snapshot")
		}
		seen[c] = true
	}
}
