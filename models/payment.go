package models

import "time"

// Payment statuses as reported by the payment provider webhook
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// SubscriptionPlan represents a purchasable subscription tier
type SubscriptionPlan struct {
	Model
	Name         string  `json:"name" gorm:"unique"`
	Amount       float64 `json:"amount"`
	DurationDays int     `json:"duration_days"`
}

// Payment represents a payment attempt against a subscription plan
type Payment struct {
	Model
	UserID    uint    `json:"user_id" gorm:"index;not null"`
	PlanID    uint    `json:"plan_id" gorm:"not null"`
	Plan      SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Reference string  `json:"reference" gorm:"uniqueIndex"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status" gorm:"default:pending"`
}

// Subscription represents an active subscription for a user
type Subscription struct {
	Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	PlanID    uint      `json:"plan_id" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the subscription is still valid
func (s *Subscription) Active() bool {
	return time.Now().Before(s.ExpiresAt)
}

type InitializePaymentRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

type InitializePaymentResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// PaymentWebhookEvent is the payload posted by the payment provider
type PaymentWebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string  `json:"reference"`
		Status    string  `json:"status"`
		Amount    float64 `json:"amount"`
	} `json:"data"`
}
