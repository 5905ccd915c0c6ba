package ws

import (
	"errors"
	"sync"
)

var errPeerGone = errors.New("peer gone")

// fakeClient records what it is sent. When fail is set every Send fails;
// when full is set every Send reports a full queue.
type fakeClient struct {
	mu     sync.Mutex
	msgs   []string
	fail   bool
	full   bool
	closed int
	onSend func()
}

func (f *fakeClient) Send(data []byte) error {
	if f.onSend != nil {
		f.onSend()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errPeerGone
	}
	if f.full {
		return errSendDropped
	}
	f.msgs = append(f.msgs, string(data))
	return nil
}

func (f *fakeClient) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeClient) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

func (f *fakeClient) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
