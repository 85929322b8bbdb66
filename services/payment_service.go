package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
	"resty.dev/v3"
)

type PaymentService interface {
	GetPlans() ([]models.SubscriptionPlan, error)
	InitializePayment(userID uint, request *models.InitializePaymentRequest) (*models.InitializePaymentResponse, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
	HandleWebhook(event *models.PaymentWebhookEvent) error
	GetSubscriptionStatus(userID uint) (*models.Subscription, error)
}

type paymentService struct {
	Config          *config.Config
	paymentRepo     db.PaymentRepository
	notificationSvc NotificationService
	client          *resty.Client
}

// providerInitResponse is the shape the payment provider returns when a
// transaction is initialized
type providerInitResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func NewPaymentService(paymentRepo db.PaymentRepository, notificationSvc NotificationService, conf *config.Config) PaymentService {
	client := resty.New().
		SetBaseURL(conf.PaymentProviderBaseURL).
		SetAuthToken(conf.PaymentProviderSecret).
		SetTimeout(15 * time.Second)

	return &paymentService{
		Config:          conf,
		paymentRepo:     paymentRepo,
		notificationSvc: notificationSvc,
		client:          client,
	}
}

func (s *paymentService) GetPlans() ([]models.SubscriptionPlan, error) {
	return s.paymentRepo.GetAllPlans()
}

// InitializePayment creates a pending payment record and asks the
// provider for a checkout URL
func (s *paymentService) InitializePayment(userID uint, request *models.InitializePaymentRequest) (*models.InitializePaymentResponse, error) {
	plan, err := s.paymentRepo.GetPlanByID(request.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("subscription plan not found", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}

	reference := uuid.NewString()

	var result providerInitResponse
	resp, err := s.client.R().
		SetBody(map[string]interface{}{
			"reference":    reference,
			"amount":       plan.Amount,
			"callback_url": s.Config.BaseUrl + "/payment/complete",
		}).
		SetResult(&result).
		Post("/transaction/initialize")
	if err != nil {
		log.Printf("InitializePayment provider call failed: %v", err)
		return nil, apiError.New("payment provider unavailable", http.StatusBadGateway)
	}
	if resp.IsError() || !result.Status {
		log.Printf("InitializePayment provider rejected request: %s", resp.Status())
		return nil, apiError.New("payment provider rejected the request", http.StatusBadGateway)
	}

	payment := &models.Payment{
		UserID:    userID,
		PlanID:    plan.ID,
		Reference: reference,
		Amount:    plan.Amount,
		Status:    models.PaymentStatusPending,
	}
	if err := s.paymentRepo.CreatePayment(payment); err != nil {
		log.Printf("InitializePayment error saving payment: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.InitializePaymentResponse{
		Reference:        reference,
		AuthorizationURL: result.Data.AuthorizationURL,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 hex digest the provider
// sends with every webhook against the raw request body
func (s *paymentService) VerifyWebhookSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(s.Config.PaymentProviderSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook settles the payment referenced by the event. Replayed
// events for an already settled payment are ignored.
func (s *paymentService) HandleWebhook(event *models.PaymentWebhookEvent) error {
	payment, err := s.paymentRepo.FindPaymentByReference(event.Data.Reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("unknown payment reference", http.StatusNotFound)
		}
		return apiError.ErrInternalServerError
	}

	if payment.Status != models.PaymentStatusPending {
		log.Printf("HandleWebhook: payment %s already settled as %s, ignoring", payment.Reference, payment.Status)
		return nil
	}

	status := models.PaymentStatusFailed
	if event.Data.Status == models.PaymentStatusSuccess {
		status = models.PaymentStatusSuccess
	}
	if err := s.paymentRepo.UpdatePaymentStatus(payment.Reference, status); err != nil {
		log.Printf("HandleWebhook error updating payment %s: %v", payment.Reference, err)
		return apiError.ErrInternalServerError
	}

	if status != models.PaymentStatusSuccess {
		s.dispatchPaymentNotification(payment.UserID, "Payment failed",
			fmt.Sprintf("Your payment for the %s plan did not go through.", payment.Plan.Name))
		return nil
	}

	expiresAt := time.Now().Add(time.Duration(payment.Plan.DurationDays) * 24 * time.Hour)
	if err := s.paymentRepo.ActivateSubscription(payment.UserID, payment.PlanID, expiresAt); err != nil {
		log.Printf("HandleWebhook error activating subscription for user %d: %v", payment.UserID, err)
		return apiError.ErrInternalServerError
	}

	s.dispatchPaymentNotification(payment.UserID, "Payment received",
		fmt.Sprintf("Your %s subscription is now active.", payment.Plan.Name))
	return nil
}

func (s *paymentService) dispatchPaymentNotification(userID uint, title, message string) {
	if s.notificationSvc == nil {
		return
	}
	if _, err := s.notificationSvc.Dispatch(userID, &models.NotificationParams{
		Type:    models.NotificationTypePayment,
		Title:   title,
		Message: message,
	}); err != nil {
		log.Printf("error dispatching payment notification for user %d: %v", userID, err)
	}
}

func (s *paymentService) GetSubscriptionStatus(userID uint) (*models.Subscription, error) {
	subscription, err := s.paymentRepo.GetActiveSubscription(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("no active subscription", http.StatusNotFound)
		}
		return nil, apiError.ErrInternalServerError
	}
	return subscription, nil
}
