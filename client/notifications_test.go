package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mindboosthq/mindboost-api/models"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWatcherFallsBackToPolling(t *testing.T) {
	var polls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/notifications", func(w http.ResponseWriter, r *http.Request) {
		// Handshake always refused, forcing fallback.
		http.Error(w, "websocket disabled", http.StatusBadRequest)
	})
	mux.HandleFunc("/api/v1/notifications/5", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&polls, 1)
		json.NewEncoder(w).Encode(models.NotificationListResponse{
			Success: true,
			Notifications: []models.Notification{
				{UserID: 5, Type: models.NotificationTypeSecurity, Title: "New login"},
			},
		})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	watcher := NewNotificationWatcher(ts.URL, 5, WithPollInterval(20*time.Millisecond))
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	waitFor(t, time.Second, watcher.Polling, "watcher should be in fallback mode")
	waitFor(t, time.Second, func() bool {
		return atomic.LoadInt64(&polls) >= 2
	}, "watcher should poll repeatedly")
	waitFor(t, time.Second, func() bool {
		list := watcher.Notifications()
		return len(list) == 1 && list[0].Title == "New login"
	}, "poll result should replace the local list")

	watcher.Stop()
	after := atomic.LoadInt64(&polls)
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt64(&polls); got != after {
		t.Errorf("polling continued after Stop: %d -> %d", after, got)
	}
}

func TestWatcherPrefersWebsocket(t *testing.T) {
	var polls int64
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	push := make(chan models.Notification, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/notifications", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for notification := range push {
			payload, _ := json.Marshal(notification)
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	})
	mux.HandleFunc("/api/v1/notifications/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&polls, 1)
		json.NewEncoder(w).Encode(models.NotificationListResponse{Success: true})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	watcher := NewNotificationWatcher(ts.URL, 9, WithPollInterval(20*time.Millisecond))
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if watcher.Polling() {
		t.Fatal("watcher should not be polling when the socket is open")
	}

	push <- models.Notification{UserID: 9, Type: models.NotificationTypeForum, Title: "New reply"}

	waitFor(t, time.Second, func() bool {
		list := watcher.Notifications()
		return len(list) == 1 && list[0].Title == "New reply"
	}, "pushed notification should appear in the local list")

	if got := atomic.LoadInt64(&polls); got != 0 {
		t.Errorf("watcher polled %d times while the socket was open", got)
	}

	watcher.Stop()
	close(push)
}

func TestWatcherDemotesToPollingWhenSocketDies(t *testing.T) {
	var polls int64
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/notifications", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Accept the connection, then drop it.
		conn.Close()
	})
	mux.HandleFunc("/api/v1/notifications/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&polls, 1)
		json.NewEncoder(w).Encode(models.NotificationListResponse{Success: true})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	watcher := NewNotificationWatcher(ts.URL, 2, WithPollInterval(20*time.Millisecond))
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	waitFor(t, time.Second, watcher.Polling, "watcher should demote to polling after the socket dies")
	waitFor(t, time.Second, func() bool {
		return atomic.LoadInt64(&polls) >= 2
	}, "demoted watcher should poll on a cadence")

	watcher.Stop()
}
