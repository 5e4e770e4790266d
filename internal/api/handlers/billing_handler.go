package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

const maxWebhookBytes = 64 << 10

type BillingHandler struct {
	svc services.BillingService
}

func NewBillingHandler(svc services.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

type CheckoutRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "BillingHandler.CreateCheckout", "invalid request body", err))
		return
	}

	url, err := h.svc.CreateCheckout(c.Request.Context(), userID, req.PriceID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Webhook is unauthenticated; the Stripe signature is the auth.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "BillingHandler.Webhook", "failed to read payload", err))
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.svc.HandleWebhook(c.Request.Context(), payload, sig); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
