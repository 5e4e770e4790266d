package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type sessionClaims struct {
	jwt.RegisteredClaims
	AppMetadata map[string]any `json:"app_metadata"` // {"role":"admin"|"user"}
}

// RevocationChecker answers whether a jti was signed out early.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Auth verifies the bearer token before anything downstream runs: no
// handler ever observes a session whose claims were not checked, so
// profile resolution cannot fire on an unverified identity.
func Auth(revoked RevocationChecker) gin.HandlerFunc {
	secret := os.Getenv("SESSION_JWT_SECRET")
	issuer := os.Getenv("SESSION_JWT_ISSUER") // optional

	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Code:    utils.CodeInternal,
				Message: "SESSION_JWT_SECRET is not set",
			})
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims := &sessionClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		if issuer != "" && claims.Issuer != issuer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token issuer",
			})
			return
		}

		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing subject",
			})
			return
		}

		if revoked != nil && claims.ID != "" {
			gone, rerr := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if rerr != nil {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, apiError{
					Code:    utils.CodeUnavailable,
					Message: "session check unavailable",
				})
				return
			}
			if gone {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
					Code:    utils.CodeUnauthorized,
					Message: "session revoked",
				})
				return
			}
		}

		role := "user"
		if claims.AppMetadata != nil {
			if v, ok := claims.AppMetadata["role"]; ok {
				if s, ok := v.(string); ok && s != "" {
					role = s
				}
			}
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", role)
		c.Set("jti", claims.ID)
		c.Next()
	}
}
