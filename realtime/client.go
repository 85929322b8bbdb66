package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// ErrClientClosed is returned by Send once the connection has been torn down
var ErrClientClosed = errors.New("realtime: client is closed")

// Socket is the subset of *websocket.Conn the client needs. Tests
// substitute fakes to simulate peers and write failures.
type Socket interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client wraps one realtime connection belonging to a user. Writes are
// serialized behind a mutex since the underlying websocket permits only
// one concurrent writer.
type Client struct {
	UserID uint

	socket    Socket
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    bool
}

func NewClient(userID uint, socket Socket) *Client {
	return &Client{
		UserID: userID,
		socket: socket,
	}
}

// Send writes one text message to the peer. A returned error means the
// connection is dead or dying; the caller is expected to unregister it.
func (c *Client) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	if err := c.socket.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.socket.WriteMessage(websocket.TextMessage, payload)
}

// Close tears the connection down. Safe to call from the close path,
// the error path, or both; the underlying socket is closed exactly once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.closed = true
		c.writeMu.Unlock()
		c.socket.Close()
	})
}
