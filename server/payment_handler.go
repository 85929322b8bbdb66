package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/server/response"
)

func (s *Server) handleListPlans() gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := s.PaymentService.GetPlans()
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, plans, nil)
	}
}

func (s *Server) handleInitializePayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		var request models.InitializePaymentRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		result, err := s.PaymentService.InitializePayment(userID, &request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "payment initialized", http.StatusOK, result, nil)
	}
}

// handlePaymentWebhook verifies the provider signature against the raw
// body before acting on the event
func (s *Server) handlePaymentWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.ErrBadRequest)
			return
		}

		signature := c.GetHeader("X-Provider-Signature")
		if signature == "" || !s.PaymentService.VerifyWebhookSignature(body, signature) {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.New("invalid webhook signature", http.StatusUnauthorized))
			return
		}

		var event models.PaymentWebhookEvent
		if err := json.Unmarshal(body, &event); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, apiError.ErrBadRequest)
			return
		}

		if err := s.PaymentService.HandleWebhook(&event); err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "webhook processed", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		subscription, err := s.PaymentService.GetSubscriptionStatus(userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, subscription, nil)
	}
}
