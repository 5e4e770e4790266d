package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

type PushHandler struct {
	svc services.PushService
	// newBootstrapper builds one bootstrapper per opt-in attempt; the
	// at-most-once guard lives on the instance.
	newBootstrapper func() *services.PushBootstrapper
}

func NewPushHandler(svc services.PushService, newBootstrapper func() *services.PushBootstrapper) *PushHandler {
	return &PushHandler{svc: svc, newBootstrapper: newBootstrapper}
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256dh   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

func (h *PushHandler) Subscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PushHandler.Subscribe", "invalid request body", err))
		return
	}

	if err := h.svc.Subscribe(c.Request.Context(), userID, req.Endpoint, req.P256dh, req.Auth); err != nil {
		writeError(c, err)
		return
	}

	// bootstrap this binding: readiness raced against a timeout
	ready := h.newBootstrapper().Init(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"subscribed": true, "ready": ready})
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

func (h *PushHandler) Unsubscribe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PushHandler.Unsubscribe", "invalid request body", err))
		return
	}

	if err := h.svc.Unsubscribe(c.Request.Context(), userID, req.Endpoint); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}

// Admin: send a notification to one user or everyone.

type NotifyRequest struct {
	UserID string `json:"user_id"` // empty = broadcast
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body" binding:"required"`
}

func (h *PushHandler) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PushHandler.Notify", "invalid request body", err))
		return
	}

	var (
		report *services.DeliveryReport
		err    error
	)
	if req.UserID != "" {
		report, err = h.svc.NotifyUser(c.Request.Context(), req.UserID, req.Title, req.Body)
	} else {
		report, err = h.svc.Broadcast(c.Request.Context(), req.Title, req.Body)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
