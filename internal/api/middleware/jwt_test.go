package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "middleware-test-secret"

type stubRevoker struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[jti], nil
}

type tokenOpts struct {
	subject string
	jti     string
	issuer  string
	role    string
	expires time.Time
	method  jwt.SigningMethod
	key     any
}

func mintToken(t *testing.T, o tokenOpts) string {
	t.Helper()
	if o.method == nil {
		o.method = jwt.SigningMethodHS256
	}
	if o.key == nil {
		o.key = []byte(testSecret)
	}
	if o.expires.IsZero() {
		o.expires = time.Now().Add(time.Hour)
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   o.subject,
			ID:        o.jti,
			Issuer:    o.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(o.expires),
		},
	}
	if o.role != "" {
		claims.AppMetadata = map[string]any{"role": o.role}
	}

	raw, err := jwt.NewWithClaims(o.method, claims).SignedString(o.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

// authRig routes GET /whoami through Auth and echoes the context keys.
func authRig(revoked RevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Auth(revoked), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return r
}

func doAuth(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", testSecret)
	t.Setenv("SESSION_JWT_ISSUER", "")

	r := authRig(&stubRevoker{})
	tok := mintToken(t, tokenOpts{subject: "u1", jti: "j1", role: "admin"})

	w := doAuth(r, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}
	body := w.Body.String()
	for _, want := range []string{`"user_id":"u1"`, `"role":"admin"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %q missing %q", body, want)
		}
	}
}

func TestAuth_RoleDefaultsToUser(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", testSecret)
	t.Setenv("SESSION_JWT_ISSUER", "")

	r := authRig(&stubRevoker{})
	tok := mintToken(t, tokenOpts{subject: "u1", jti: "j1"})

	w := doAuth(r, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"role":"user"`) {
		t.Fatalf("body %q, want default role user", w.Body)
	}
}

func TestAuth_Rejections(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", testSecret)
	t.Setenv("SESSION_JWT_ISSUER", "scanner-feed")

	r := authRig(&stubRevoker{})

	cases := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage", "not-a-jwt"},
		{"wrong key", mintToken(t, tokenOpts{subject: "u1", issuer: "scanner-feed", key: []byte("other")})},
		{"expired", mintToken(t, tokenOpts{subject: "u1", issuer: "scanner-feed", expires: time.Now().Add(-time.Minute)})},
		{"wrong issuer", mintToken(t, tokenOpts{subject: "u1", issuer: "someone-else"})},
		{"no subject", mintToken(t, tokenOpts{issuer: "scanner-feed"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doAuth(r, tc.token); w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", testSecret)
	t.Setenv("SESSION_JWT_ISSUER", "")

	r := authRig(&stubRevoker{revoked: map[string]bool{"gone": true}})

	if w := doAuth(r, mintToken(t, tokenOpts{subject: "u1", jti: "gone"})); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked jti: status = %d, want 401", w.Code)
	}
	if w := doAuth(r, mintToken(t, tokenOpts{subject: "u1", jti: "fresh"})); w.Code != http.StatusOK {
		t.Fatalf("fresh jti: status = %d, want 200", w.Code)
	}
}

func TestAuth_RevocationStoreDown(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", testSecret)
	t.Setenv("SESSION_JWT_ISSUER", "")

	r := authRig(&stubRevoker{err: errors.New("redis down")})
	w := doAuth(r, mintToken(t, tokenOpts{subject: "u1", jti: "j1"}))

	// fail closed, but distinguishably from a bad token
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestAuth_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_JWT_SECRET", "")

	r := authRig(&stubRevoker{})
	w := doAuth(r, mintToken(t, tokenOpts{subject: "u1"}))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
