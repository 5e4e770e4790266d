package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func proxyRig(h *ProxyHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/proxy/weather", h.Weather)
	r.GET("/proxy/traffic", h.Traffic)
	r.GET("/proxy/geocode", h.Geocode)
	return r
}

func TestProxyWeather_InjectsKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "ow-secret")

	var gotQuery map[string][]string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"weather":"clear"}`))
	}))
	defer upstream.Close()

	h := NewProxyHandler()
	h.weatherBase = upstream.URL
	r := proxyRig(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/weather?lat=36.1&lon=-80.2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	if w.Body.String() != `{"weather":"clear"}` {
		t.Fatalf("body = %q, want upstream payload", w.Body)
	}
	if got := gotQuery["appid"]; len(got) != 1 || got[0] != "ow-secret" {
		t.Fatalf("appid = %v, want the server-held key", got)
	}
	if got := gotQuery["lat"]; len(got) != 1 || got[0] != "36.1" {
		t.Fatalf("lat = %v, want forwarded coordinate", got)
	}
	if got := gotQuery["units"]; len(got) != 1 || got[0] != "imperial" {
		t.Fatalf("units = %v, want imperial default", got)
	}
}

func TestProxyWeather_MissingKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	r := proxyRig(NewProxyHandler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/weather?lat=1&lon=1", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestProxyTraffic_UpstreamFailure(t *testing.T) {
	t.Setenv("TOMTOM_API_KEY", "tt-secret")

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	h := NewProxyHandler()
	h.trafficBase = upstream.URL
	r := proxyRig(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/traffic?bbox=1,2,3,4", nil))

	// upstream errors surface as unavailable, not as the raw status
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestProxyGeocode(t *testing.T) {
	t.Setenv("TOMTOM_API_KEY", "tt-secret")

	var gotPath, gotKey string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer upstream.Close()

	h := NewProxyHandler()
	h.geocodeBase = upstream.URL
	r := proxyRig(h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/geocode?q=Winston-Salem", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	if gotPath != "/Winston-Salem.json" {
		t.Fatalf("upstream path = %q, want /Winston-Salem.json", gotPath)
	}
	if gotKey != "tt-secret" {
		t.Fatalf("key = %q, want the server-held key", gotKey)
	}
}

func TestProxyGeocode_MissingQuery(t *testing.T) {
	t.Setenv("TOMTOM_API_KEY", "tt-secret")

	r := proxyRig(NewProxyHandler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/proxy/geocode", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
