package services

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/realtime"
)

type fakeNotificationRepo struct {
	failCreate bool
	created    []*models.Notification
	nextID     uint
}

func (f *fakeNotificationRepo) CreateNotification(n *models.Notification) (*models.Notification, error) {
	if f.failCreate {
		return nil, errors.New("database unavailable")
	}
	f.nextID++
	n.ID = f.nextID
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeNotificationRepo) GetNotificationsForUser(userID uint) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) GetUnreadNotificationsForUser(userID uint) ([]models.Notification, error) {
	return f.GetNotificationsForUser(userID)
}

func (f *fakeNotificationRepo) MarkNotificationAsRead(notificationID uint, userID uint) error {
	for _, n := range f.created {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return errors.New("not found")
}

// fakeSocket satisfies realtime.Socket
type fakeSocket struct {
	mu         sync.Mutex
	messages   [][]byte
	failWrites bool
	closed     bool
}

func (f *fakeSocket) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("broken pipe")
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
	return nil
}

func (f *fakeSocket) sent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.messages...)
}

func TestDispatchPersistsBeforeFanOut(t *testing.T) {
	repo := &fakeNotificationRepo{failCreate: true}
	hub := realtime.NewHub()
	socket := &fakeSocket{}
	client := realtime.NewClient(1, socket)
	hub.Register(1, client)

	svc := NewNotificationService(repo, hub)
	_, err := svc.Dispatch(1, &models.NotificationParams{
		Type:    models.NotificationTypeSecurity,
		Title:   "New login",
		Message: "A new device signed in to your account",
	})
	if err == nil {
		t.Fatal("expected dispatch to fail when persistence fails")
	}
	if got := len(socket.sent()); got != 0 {
		t.Errorf("expected zero sends after persistence failure, got %d", got)
	}
}

func TestDispatchDeliversToAllConnections(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := realtime.NewHub()
	first := &fakeSocket{}
	second := &fakeSocket{}
	hub.Register(5, realtime.NewClient(5, first))
	hub.Register(5, realtime.NewClient(5, second))

	svc := NewNotificationService(repo, hub)
	persisted, err := svc.Dispatch(5, &models.NotificationParams{
		Type:    models.NotificationTypeForum,
		Title:   "New reply",
		Message: "Someone replied to your thread",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if persisted.ID == 0 {
		t.Error("expected persisted notification to have an ID")
	}

	for i, socket := range []*fakeSocket{first, second} {
		msgs := socket.sent()
		if len(msgs) != 1 {
			t.Fatalf("connection %d: expected 1 message, got %d", i, len(msgs))
		}
		var got models.Notification
		if err := json.Unmarshal(msgs[0], &got); err != nil {
			t.Fatalf("connection %d: payload is not valid JSON: %v", i, err)
		}
		if got.Type != models.NotificationTypeForum || got.Title != "New reply" {
			t.Errorf("connection %d: unexpected payload %+v", i, got)
		}
	}
}

func TestDispatchIsolatesSendFailures(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := realtime.NewHub()
	broken := &fakeSocket{failWrites: true}
	healthy := &fakeSocket{}
	brokenClient := realtime.NewClient(9, broken)
	hub.Register(9, brokenClient)
	hub.Register(9, realtime.NewClient(9, healthy))

	svc := NewNotificationService(repo, hub)
	_, err := svc.Dispatch(9, &models.NotificationParams{
		Type:    models.NotificationTypeGrading,
		Title:   "Quiz graded",
		Message: "Your attempt has been graded",
	})
	if err != nil {
		t.Fatalf("dispatch must not fail because one connection is dead: %v", err)
	}

	if got := len(healthy.sent()); got != 1 {
		t.Errorf("expected healthy connection to receive the message, got %d", got)
	}
	if !broken.closed {
		t.Error("expected the broken connection to be closed")
	}
	// The dead connection must have been unregistered.
	for _, c := range hub.ClientsFor(9) {
		if c == brokenClient {
			t.Error("broken connection still registered after failed send")
		}
	}
}

func TestDispatchWithNoConnectionsStillPersists(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := realtime.NewHub()

	svc := NewNotificationService(repo, hub)
	persisted, err := svc.Dispatch(2, &models.NotificationParams{
		Type:    models.NotificationTypePayment,
		Title:   "Payment received",
		Message: "Your subscription is now active",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	stored, err := svc.GetNotifications(2)
	if err != nil {
		t.Fatalf("fetching notifications failed: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != persisted.ID {
		t.Errorf("expected the persisted notification to be retrievable, got %+v", stored)
	}
}

func TestMarkAsRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, realtime.NewHub())

	persisted, err := svc.Dispatch(3, &models.NotificationParams{
		Type:    models.NotificationTypeSecurity,
		Title:   "New login",
		Message: "A new device signed in",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if err := svc.MarkAsRead(persisted.ID, 3); err != nil {
		t.Fatalf("mark as read failed: %v", err)
	}
	stored, _ := svc.GetNotifications(3)
	if !stored[0].IsRead {
		t.Error("expected notification to be marked read")
	}

	if err := svc.MarkAsRead(persisted.ID, 99); err == nil {
		t.Error("expected marking another user's notification to fail")
	}
}
