package services

import (
	"encoding/json"
	"log"

	"github.com/mindboosthq/mindboost-api/db"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/realtime"
)

// NotificationService is the single entry point producers use to emit
// a notification to a user.
type NotificationService interface {
	Dispatch(userID uint, params *models.NotificationParams) (*models.Notification, error)
	GetNotifications(userID uint) ([]models.Notification, error)
	MarkAsRead(notificationID uint, userID uint) error
}

type notificationService struct {
	notificationRepo db.NotificationRepository
	hub              *realtime.Hub
}

func NewNotificationService(notificationRepo db.NotificationRepository, hub *realtime.Hub) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Dispatch persists the notification, then pushes it to every open
// connection the user has. The record must be persisted before any
// fan-out happens; if persistence fails nothing is sent and the error
// goes back to the producer. Push delivery is best effort: a user with
// no open connection sees the record on their next fetch.
func (s *notificationService) Dispatch(userID uint, params *models.NotificationParams) (*models.Notification, error) {
	if params == nil {
		return nil, apiError.ErrBadRequest
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    params.Type,
		Title:   params.Title,
		Message: params.Message,
	}

	persisted, err := s.notificationRepo.CreateNotification(notification)
	if err != nil {
		log.Printf("Dispatch: failed to persist notification for user %d: %v", userID, err)
		return nil, err
	}

	payload, err := json.Marshal(persisted)
	if err != nil {
		// The record is saved; the client picks it up on its next fetch.
		log.Printf("Dispatch: failed to serialize notification %d: %v", persisted.ID, err)
		return persisted, nil
	}

	clients := s.hub.ClientsFor(userID)
	delivered := 0
	for _, client := range clients {
		if sendErr := client.Send(payload); sendErr != nil {
			// A failed send almost always means a dead connection.
			// Drop it the same way the close path would.
			log.Printf("Dispatch: send to user %d failed, dropping connection: %v", userID, sendErr)
			s.hub.Unregister(userID, client)
			client.Close()
			continue
		}
		delivered++
	}
	if len(clients) > 0 {
		log.Printf("Dispatch: notification %d delivered to %d/%d connection(s) of user %d",
			persisted.ID, delivered, len(clients), userID)
	}

	return persisted, nil
}

func (s *notificationService) GetNotifications(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.GetNotificationsForUser(userID)
}

func (s *notificationService) MarkAsRead(notificationID uint, userID uint) error {
	return s.notificationRepo.MarkNotificationAsRead(notificationID, userID)
}
