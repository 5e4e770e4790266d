package handlers

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

// ProxyHandler forwards weather/traffic/geocode lookups upstream with the
// server-held API key injected; keys never reach a client.
type ProxyHandler struct {
	client *http.Client

	weatherBase string
	trafficBase string
	geocodeBase string
}

func NewProxyHandler() *ProxyHandler {
	return &ProxyHandler{
		client:      &http.Client{Timeout: 10 * time.Second},
		weatherBase: "https://api.openweathermap.org/data/2.5/weather",
		trafficBase: "https://api.tomtom.com/traffic/services/5/incidentDetails",
		geocodeBase: "https://api.tomtom.com/search/2/geocode",
	}
}

func (h *ProxyHandler) Weather(c *gin.Context) {
	key := os.Getenv("OPENWEATHER_API_KEY")
	if key == "" {
		writeError(c, utils.E(utils.CodeInternal, "ProxyHandler.Weather", "OPENWEATHER_API_KEY is not set", nil))
		return
	}

	q := url.Values{}
	q.Set("lat", c.Query("lat"))
	q.Set("lon", c.Query("lon"))
	q.Set("units", c.DefaultQuery("units", "imperial"))
	q.Set("appid", key)

	h.forward(c, "ProxyHandler.Weather", h.weatherBase+"?"+q.Encode())
}

func (h *ProxyHandler) Traffic(c *gin.Context) {
	key := os.Getenv("TOMTOM_API_KEY")
	if key == "" {
		writeError(c, utils.E(utils.CodeInternal, "ProxyHandler.Traffic", "TOMTOM_API_KEY is not set", nil))
		return
	}

	q := url.Values{}
	q.Set("bbox", c.Query("bbox"))
	q.Set("fields", c.DefaultQuery("fields", "{incidents{type,geometry{type,coordinates},properties{iconCategory}}}"))
	q.Set("key", key)

	h.forward(c, "ProxyHandler.Traffic", h.trafficBase+"?"+q.Encode())
}

func (h *ProxyHandler) Geocode(c *gin.Context) {
	key := os.Getenv("TOMTOM_API_KEY")
	if key == "" {
		writeError(c, utils.E(utils.CodeInternal, "ProxyHandler.Geocode", "TOMTOM_API_KEY is not set", nil))
		return
	}

	query := c.Query("q")
	if query == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProxyHandler.Geocode", "q parameter is required", nil))
		return
	}

	q := url.Values{}
	q.Set("key", key)
	h.forward(c, "ProxyHandler.Geocode", h.geocodeBase+"/"+url.PathEscape(query)+".json?"+q.Encode())
}

func (h *ProxyHandler) forward(c *gin.Context, op, target string) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target, nil)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to build upstream request", err))
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "upstream request failed", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		writeError(c, utils.E(utils.CodeUnavailable, op, "upstream returned an error", nil))
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "failed to read upstream response", err))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(http.StatusOK, contentType, body)
}
