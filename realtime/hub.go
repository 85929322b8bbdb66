package realtime

import (
	"log"
	"sync"
)

// Hub is the in-memory directory of open realtime connections, keyed by
// user ID. It only tracks membership; connection lifecycles are owned by
// the transport handlers. One Hub is constructed at server start and
// shut down at server stop.
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]struct{}),
	}
}

// Register adds the client to the user's connection set. Registering the
// same client twice is a no-op.
func (h *Hub) Register(userID uint, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[userID] = set
	}
	set[client] = struct{}{}
	log.Printf("realtime: user %d connected, %d open connection(s)", userID, len(set))
}

// Unregister removes the client from the user's connection set. The user
// entry is dropped the moment its set empties. Unregistering a client
// that is not present is a silent no-op, since close and error events
// can race or double fire.
func (h *Hub) Unregister(userID uint, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, userID)
	}
	log.Printf("realtime: user %d disconnected, %d open connection(s)", userID, len(set))
}

// ClientsFor returns a snapshot of the user's open connections. The
// returned slice is a copy; concurrent register/unregister calls cannot
// corrupt an iteration over it.
func (h *Hub) ClientsFor(userID uint) []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[userID]
	if !ok {
		return nil
	}
	snapshot := make([]*Client, 0, len(set))
	for client := range set {
		snapshot = append(snapshot, client)
	}
	return snapshot
}

// ActiveUsers returns how many users currently have at least one open
// connection.
func (h *Hub) ActiveUsers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Shutdown closes every held connection and empties the directory. Used
// when the server stops.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uint]map[*Client]struct{})
	h.mu.Unlock()

	for _, set := range clients {
		for client := range set {
			client.Close()
		}
	}
}
