package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

type AuthHandler struct {
	svc  services.AuthService
	push services.PushService
}

func NewAuthHandler(svc services.AuthService, push services.PushService) *AuthHandler {
	return &AuthHandler{svc: svc, push: push}
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.SignUp", "invalid request body", err))
		return
	}

	sess, err := h.svc.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.SignIn", "invalid request body", err))
		return
	}

	sess, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type SignOutRequest struct {
	// Endpoint, when present, also drops this device's push subscription.
	Endpoint string `json:"endpoint"`
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SignOutRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	raw := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if err := h.svc.SignOut(c.Request.Context(), raw); err != nil {
		writeError(c, err)
		return
	}

	if req.Endpoint != "" {
		_ = h.push.Unsubscribe(c.Request.Context(), userID, req.Endpoint)
	}

	c.JSON(http.StatusOK, gin.H{"signed_out": true})
}

type ResetRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.RequestReset", "invalid request body", err))
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	// identical response whether or not the account exists
	c.JSON(http.StatusOK, gin.H{"requested": true})
}

type ConfirmResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req ConfirmResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.ConfirmReset", "invalid request body", err))
		return
	}

	if err := h.svc.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
