package db

import (
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NotificationRepository is the notification store. Records are created
// by the dispatcher and only ever mutated to flip the read flag.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) (*models.Notification, error)
	GetNotificationsForUser(userID uint) ([]models.Notification, error)
	GetUnreadNotificationsForUser(userID uint) ([]models.Notification, error)
	MarkNotificationAsRead(notificationID uint, userID uint) error
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) CreateNotification(notification *models.Notification) (*models.Notification, error) {
	if err := r.DB.Create(notification).Error; err != nil {
		return nil, errors.Wrap(err, "could not create notification")
	}
	return notification, nil
}

func (r *notificationRepo) GetNotificationsForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) GetUnreadNotificationsForUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Where("user_id = ? AND is_read = ?", userID, false).Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) MarkNotificationAsRead(notificationID uint, userID uint) error {
	result := r.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
