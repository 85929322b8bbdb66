package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/realtime"
	"github.com/mindboosthq/mindboost-api/services"
)

type stubNotificationRepo struct {
	stored []*models.Notification
	nextID uint
}

func (f *stubNotificationRepo) CreateNotification(n *models.Notification) (*models.Notification, error) {
	f.nextID++
	n.ID = f.nextID
	f.stored = append(f.stored, n)
	return n, nil
}

func (f *stubNotificationRepo) GetNotificationsForUser(userID uint) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.stored {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *stubNotificationRepo) GetUnreadNotificationsForUser(userID uint) ([]models.Notification, error) {
	return f.GetNotificationsForUser(userID)
}

func (f *stubNotificationRepo) MarkNotificationAsRead(notificationID uint, userID uint) error {
	for _, n := range f.stored {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return errors.New("not found")
}

func newSocketTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := realtime.NewHub()
	repo := &stubNotificationRepo{}
	s := &Server{
		Hub:                 hub,
		NotificationService: services.NewNotificationService(repo, hub),
	}

	r := gin.New()
	r.GET("/ws/notifications", s.handleNotificationSocket())
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return s, ts
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

// waitFor polls until the condition holds or the deadline passes
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

func TestSocketRegistersAndUnregistersConnection(t *testing.T) {
	s, ts := newSocketTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/notifications?userId=7"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		return len(s.Hub.ClientsFor(7)) == 1
	}, "connection was not registered after handshake")

	conn.Close()
	waitFor(t, time.Second, func() bool {
		return len(s.Hub.ClientsFor(7)) == 0
	}, "connection was not unregistered after close")
}

func TestSocketRejectsMalformedUserID(t *testing.T) {
	s, ts := newSocketTestServer(t)

	for _, query := range []string{"", "?userId=", "?userId=abc", "?userId=-4"} {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/notifications"+query), nil)
		if err == nil {
			t.Fatalf("expected handshake to fail for query %q", query)
		}
		if resp != nil && resp.StatusCode != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", query, resp.StatusCode)
		}
	}
	if s.Hub.ActiveUsers() != 0 {
		t.Error("rejected handshakes must not register connections")
	}
}

func TestSocketReceivesDispatchedNotification(t *testing.T) {
	s, ts := newSocketTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/notifications?userId=3"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitFor(t, time.Second, func() bool {
		return len(s.Hub.ClientsFor(3)) == 1
	}, "connection was not registered")

	persisted, err := s.NotificationService.Dispatch(3, &models.NotificationParams{
		Type:    models.NotificationTypeGrading,
		Title:   "Quiz graded",
		Message: "You scored 80% on the Algebra quiz.",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading pushed notification failed: %v", err)
	}

	var got models.Notification
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("pushed payload is not valid JSON: %v", err)
	}
	if got.ID != persisted.ID || got.Title != "Quiz graded" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestSocketMultipleConnectionsSameUser(t *testing.T) {
	s, ts := newSocketTestServer(t)

	first, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/notifications?userId=4"), nil)
	if err != nil {
		t.Fatalf("first dial failed: %v", err)
	}
	defer first.Close()
	second, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/notifications?userId=4"), nil)
	if err != nil {
		t.Fatalf("second dial failed: %v", err)
	}
	defer second.Close()

	waitFor(t, time.Second, func() bool {
		return len(s.Hub.ClientsFor(4)) == 2
	}, "both connections should be registered")

	if _, err := s.NotificationService.Dispatch(4, &models.NotificationParams{
		Type:    models.NotificationTypeForum,
		Title:   "New reply",
		Message: "Someone replied to your thread.",
	}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Errorf("connection %d did not receive the notification: %v", i, err)
		}
	}
}

func TestGetNotificationsReturnsStoredRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := realtime.NewHub()
	repo := &stubNotificationRepo{}
	s := &Server{
		Hub:                 hub,
		NotificationService: services.NewNotificationService(repo, hub),
	}

	// No open connections: dispatch must still persist (offline delivery).
	if _, err := s.NotificationService.Dispatch(7, &models.NotificationParams{
		Type:    models.NotificationTypePayment,
		Title:   "Payment received",
		Message: "Your subscription is now active.",
	}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	r := gin.New()
	authStub := func(c *gin.Context) {
		c.Set("userID", uint(7))
		c.Set("user", &models.User{})
	}
	r.GET("/api/v1/notifications/:userID", authStub, s.handleGetNotifications())
	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/notifications/7")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body models.NotificationListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if !body.Success {
		t.Error("expected success to be true")
	}
	if len(body.Notifications) != 1 || body.Notifications[0].Title != "Payment received" {
		t.Errorf("unexpected notifications: %+v", body.Notifications)
	}

	// Reading someone else's list is forbidden.
	resp2, err := http.Get(ts.URL + "/api/v1/notifications/8")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for another user's list, got %d", resp2.StatusCode)
	}
}
