package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	p, err := h.svc.Resolve(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":  p,
		"is_admin": p.Role == models.RoleAdmin,
	})
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	p, err := h.svc.UpdateDisplayName(c.Request.Context(), userID, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Admin endpoints

func (h *ProfileHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out})
}

type SetRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

func (h *ProfileHandler) SetRole(c *gin.Context) {
	userID := c.Param("user_id")

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.SetRole", "invalid request body", err))
		return
	}

	if err := h.svc.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

type SetSubscriptionRequest struct {
	Status models.SubscriptionStatus `json:"status" binding:"required"`
}

func (h *ProfileHandler) SetSubscriptionStatus(c *gin.Context) {
	userID := c.Param("user_id")

	var req SetSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.SetSubscriptionStatus", "invalid request body", err))
		return
	}

	if err := h.svc.SetSubscriptionStatus(c.Request.Context(), userID, req.Status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
