package realtime

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSocket records writes and can be told to fail them.
type fakeSocket struct {
	mu         sync.Mutex
	messages   [][]byte
	failWrites bool
	closed     bool
	closeCount int
}

func (f *fakeSocket) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("write failed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.messages = append(f.messages, cp)
	return nil
}

func (f *fakeSocket) SetWriteDeadline(t time.Time) error { return nil }

func (f *fakeSocket) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closeCount++
	return nil
}

func (f *fakeSocket) sent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...)
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	client := NewClient(1, &fakeSocket{})

	hub.Register(1, client)
	if got := len(hub.ClientsFor(1)); got != 1 {
		t.Fatalf("expected 1 client, got %d", got)
	}

	hub.Unregister(1, client)
	if got := len(hub.ClientsFor(1)); got != 0 {
		t.Errorf("expected no clients after unregister, got %d", got)
	}
	if got := hub.ActiveUsers(); got != 0 {
		t.Errorf("expected empty directory after last unregister, got %d users", got)
	}
}

func TestHubRegisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	client := NewClient(1, &fakeSocket{})

	hub.Register(1, client)
	hub.Register(1, client)

	if got := len(hub.ClientsFor(1)); got != 1 {
		t.Errorf("expected exactly 1 occurrence after double register, got %d", got)
	}
}

func TestHubUnregisterUnknownIsNoop(t *testing.T) {
	hub := NewHub()
	client := NewClient(1, &fakeSocket{})

	// never registered; must not panic or create an entry
	hub.Unregister(1, client)
	hub.Unregister(42, client)

	if got := hub.ActiveUsers(); got != 0 {
		t.Errorf("expected empty directory, got %d users", got)
	}
}

func TestHubDropsUserEntryWhenLastConnectionLeaves(t *testing.T) {
	hub := NewHub()
	first := NewClient(7, &fakeSocket{})
	second := NewClient(7, &fakeSocket{})

	hub.Register(7, first)
	hub.Register(7, second)
	hub.Unregister(7, first)

	if got := hub.ActiveUsers(); got != 1 {
		t.Fatalf("expected user to remain while a connection is open, got %d users", got)
	}

	hub.Unregister(7, second)
	if got := hub.ActiveUsers(); got != 0 {
		t.Errorf("expected no users after last connection left, got %d", got)
	}
}

func TestHubSnapshotUnaffectedByConcurrentMutation(t *testing.T) {
	hub := NewHub()
	client := NewClient(1, &fakeSocket{})
	hub.Register(1, client)

	snapshot := hub.ClientsFor(1)
	hub.Unregister(1, client)

	if len(snapshot) != 1 {
		t.Errorf("snapshot taken before unregister should still hold the client")
	}
	if got := len(hub.ClientsFor(1)); got != 0 {
		t.Errorf("directory should be empty after unregister, got %d", got)
	}
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			client := NewClient(userID, &fakeSocket{})
			hub.Register(userID, client)
			hub.ClientsFor(userID)
			hub.Unregister(userID, client)
		}(uint(i % 4))
	}
	wg.Wait()

	if got := hub.ActiveUsers(); got != 0 {
		t.Errorf("expected empty directory after all goroutines finished, got %d users", got)
	}
}

func TestHubShutdownClosesAllConnections(t *testing.T) {
	hub := NewHub()
	sockets := []*fakeSocket{{}, {}, {}}
	hub.Register(1, NewClient(1, sockets[0]))
	hub.Register(1, NewClient(1, sockets[1]))
	hub.Register(2, NewClient(2, sockets[2]))

	hub.Shutdown()

	if got := hub.ActiveUsers(); got != 0 {
		t.Errorf("expected empty directory after shutdown, got %d users", got)
	}
	for i, s := range sockets {
		if !s.closed {
			t.Errorf("socket %d was not closed on shutdown", i)
		}
	}
}

func TestClientSendAfterCloseFails(t *testing.T) {
	socket := &fakeSocket{}
	client := NewClient(1, socket)
	client.Close()
	client.Close() // second close must be a no-op

	if socket.closeCount != 1 {
		t.Errorf("expected underlying socket closed exactly once, got %d", socket.closeCount)
	}
	if err := client.Send([]byte("hello")); err == nil {
		t.Errorf("expected send on closed client to fail")
	}
}

func TestClientSendDeliversPayload(t *testing.T) {
	socket := &fakeSocket{}
	client := NewClient(1, socket)

	if err := client.Send([]byte("one")); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := client.Send([]byte("two")); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	got := socket.sent()
	if len(got) != 2 || string(got[0]) != "one" || string(got[1]) != "two" {
		t.Errorf("expected messages delivered in order, got %q", got)
	}
}
