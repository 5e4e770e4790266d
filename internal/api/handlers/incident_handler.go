package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

const maxMediaBytes = 20 << 20

type IncidentHandler struct {
	svc services.IncidentService
}

func NewIncidentHandler(svc services.IncidentService) *IncidentHandler {
	return &IncidentHandler{svc: svc}
}

func (h *IncidentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	category := c.Query("category")

	out, err := h.svc.List(c.Request.Context(), category, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"incidents": out})
}

func (h *IncidentHandler) Get(c *gin.Context) {
	inc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inc)
}

func (h *IncidentHandler) MediaURL(c *gin.Context) {
	url, err := h.svc.MediaURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type IncidentRequest struct {
	Title    string          `json:"title"`
	Body     string          `json:"body"`
	Category string          `json:"category"`
	Units    []string        `json:"units"`
	Details  json.RawMessage `json:"details"`
}

func (r IncidentRequest) toInput() services.CreateIncidentInput {
	return services.CreateIncidentInput{
		Title:    r.Title,
		Body:     r.Body,
		Category: r.Category,
		Units:    r.Units,
		Details:  r.Details,
	}
}

func (h *IncidentHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req IncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "IncidentHandler.Create", "invalid request body", err))
		return
	}

	inc, err := h.svc.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inc)
}

func (h *IncidentHandler) Update(c *gin.Context) {
	var req IncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "IncidentHandler.Update", "invalid request body", err))
		return
	}

	inc, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inc)
}

func (h *IncidentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *IncidentHandler) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("media")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "IncidentHandler.UploadMedia", "media file is required", err))
		return
	}
	defer file.Close()

	if header.Size > maxMediaBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "IncidentHandler.UploadMedia", "media file too large", nil))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	inc, err := h.svc.AttachMedia(c.Request.Context(), c.Param("id"), contentType, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inc)
}
