package db

import (
	"time"

	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	CreatePayment(payment *models.Payment) error
	FindPaymentByReference(reference string) (*models.Payment, error)
	UpdatePaymentStatus(reference string, status string) error
	GetPlanByID(id uint) (*models.SubscriptionPlan, error)
	GetAllPlans() ([]models.SubscriptionPlan, error)
	ActivateSubscription(userID, planID uint, expiresAt time.Time) error
	GetActiveSubscription(userID uint) (*models.Subscription, error)
}

type paymentRepo struct {
	DB *gorm.DB
}

func NewPaymentRepo(db *GormDB) PaymentRepository {
	return &paymentRepo{db.DB}
}

func (r *paymentRepo) CreatePayment(payment *models.Payment) error {
	return r.DB.Create(payment).Error
}

func (r *paymentRepo) FindPaymentByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB.Preload("Plan").Where("reference = ?", reference).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) UpdatePaymentStatus(reference string, status string) error {
	return r.DB.Model(&models.Payment{}).Where("reference = ?", reference).Update("status", status).Error
}

func (r *paymentRepo) GetPlanByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.DB.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *paymentRepo) GetAllPlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := r.DB.Order("amount ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *paymentRepo) ActivateSubscription(userID, planID uint, expiresAt time.Time) error {
	// Extend the current subscription when one is still active
	var existing models.Subscription
	err := r.DB.Where("user_id = ?", userID).Order("expires_at DESC").First(&existing).Error
	if err == nil && existing.Active() {
		return r.DB.Model(&existing).Updates(map[string]interface{}{
			"plan_id":    planID,
			"expires_at": expiresAt.Add(time.Until(existing.ExpiresAt)),
		}).Error
	}

	subscription := models.Subscription{
		UserID:    userID,
		PlanID:    planID,
		ExpiresAt: expiresAt,
	}
	return r.DB.Create(&subscription).Error
}

func (r *paymentRepo) GetActiveSubscription(userID uint) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.DB.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("expires_at DESC").First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}
