// Package client provides a notification watcher for Go programs that
// talk to a mindboost server. It prefers the realtime websocket channel
// and degrades to periodic polling when the socket cannot be opened.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mindboosthq/mindboost-api/models"
	"resty.dev/v3"
)

// DefaultPollInterval is how often the watcher polls when it runs in
// fallback mode.
const DefaultPollInterval = 10 * time.Second

// NotificationWatcher keeps a local copy of a user's notifications up
// to date, over websocket when possible and by polling otherwise.
type NotificationWatcher struct {
	baseURL      string
	userID       uint
	authToken    string
	pollInterval time.Duration
	http         *resty.Client

	mu            sync.Mutex
	notifications []models.Notification
	polling       bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a NotificationWatcher.
type Option func(*NotificationWatcher)

// WithPollInterval overrides the fallback polling cadence.
func WithPollInterval(interval time.Duration) Option {
	return func(w *NotificationWatcher) {
		if interval > 0 {
			w.pollInterval = interval
		}
	}
}

// WithAuthToken sets the bearer token used for REST calls.
func WithAuthToken(token string) Option {
	return func(w *NotificationWatcher) {
		w.authToken = token
	}
}

// NewNotificationWatcher creates a watcher for the given user against a
// server base URL such as "http://localhost:8080".
func NewNotificationWatcher(baseURL string, userID uint, opts ...Option) *NotificationWatcher {
	w := &NotificationWatcher{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userID:       userID,
		pollInterval: DefaultPollInterval,
		http:         resty.New(),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.authToken != "" {
		w.http.SetAuthToken(w.authToken)
	}
	return w
}

func (w *NotificationWatcher) socketURL() string {
	url := w.baseURL
	if strings.HasPrefix(url, "https") {
		url = "wss" + strings.TrimPrefix(url, "https")
	} else {
		url = "ws" + strings.TrimPrefix(url, "http")
	}
	return fmt.Sprintf("%s/ws/notifications?userId=%d", url, w.userID)
}

// Start connects the watcher and keeps it running until the context is
// cancelled or Stop is called. It tries the websocket once; if the
// handshake fails, or the socket later errors, the watcher polls for
// the rest of its life and never attempts another upgrade.
func (w *NotificationWatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.socketURL(), nil)
	if err != nil {
		log.Printf("notification socket unavailable, falling back to polling every %s: %v", w.pollInterval, err)
		w.mu.Lock()
		w.polling = true
		w.mu.Unlock()
		go w.pollLoop(ctx)
		return nil
	}

	go w.readLoop(ctx, conn)
	return nil
}

// readLoop appends pushed notifications until the socket dies or the
// context is cancelled. A socket that errors mid stream demotes the
// watcher to polling for the rest of its life.
func (w *NotificationWatcher) readLoop(ctx context.Context, conn *websocket.Conn) {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			conn.Close()
			if ctx.Err() != nil {
				close(w.done)
				return
			}
			log.Printf("notification socket lost, falling back to polling every %s: %v", w.pollInterval, err)
			w.mu.Lock()
			w.polling = true
			w.mu.Unlock()
			go w.pollLoop(ctx)
			return
		}
		var notification models.Notification
		if err := json.Unmarshal(payload, &notification); err != nil {
			log.Printf("discarding malformed push payload: %v", err)
			continue
		}
		w.mu.Lock()
		w.notifications = append([]models.Notification{notification}, w.notifications...)
		w.mu.Unlock()
	}
}

// pollLoop fetches the full list on every tick and replaces the local
// copy with the server's answer.
func (w *NotificationWatcher) pollLoop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollOnce(ctx)
		}
	}
}

func (w *NotificationWatcher) pollOnce(ctx context.Context) {
	var result models.NotificationListResponse
	resp, err := w.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("%s/api/v1/notifications/%d", w.baseURL, w.userID))
	if err != nil {
		log.Printf("notification poll failed: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("notification poll returned %s", resp.Status())
		return
	}
	if !result.Success {
		return
	}

	w.mu.Lock()
	w.notifications = result.Notifications
	w.mu.Unlock()
}

// Notifications returns a snapshot of the local list, newest first.
func (w *NotificationWatcher) Notifications() []models.Notification {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]models.Notification(nil), w.notifications...)
}

// Polling reports whether the watcher is in fallback mode.
func (w *NotificationWatcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Stop tears the watcher down and waits for its loop to exit.
func (w *NotificationWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.done
}
