package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

type SettingsHandler struct {
	svc services.SettingsService
}

func NewSettingsHandler(svc services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Theme is public: the sign-in page is themed too.
func (h *SettingsHandler) Theme(c *gin.Context) {
	theme, err := h.svc.Theme(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, theme)
}

func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

type UpdateSettingsRequest struct {
	PrimaryColor   string `json:"primary_color" binding:"required"`
	SecondaryColor string `json:"secondary_color" binding:"required"`
	FontFamily     string `json:"font_family"`
	CustomCSS      string `json:"custom_css"`
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SettingsHandler.Update", "invalid request body", err))
		return
	}

	theme, err := h.svc.Update(c.Request.Context(), &models.AppSettings{
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		FontFamily:     req.FontFamily,
		CustomCSS:      req.CustomCSS,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, theme)
}
