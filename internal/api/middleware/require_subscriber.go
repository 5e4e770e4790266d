package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/models"
	"github.com/wpwscannerapp/scanner-feed/internal/utils"
)

// ProfileResolver is the slice of the profile service this gate needs.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string) (*models.Profile, error)
}

// RequireSubscriber gates paid content on the billing state of the
// profile. Admins pass regardless of their own subscription.
func RequireSubscriber(profiles ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("user_id")
		userID, _ := v.(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "unauthorized",
			})
			return
		}

		p, err := profiles.Resolve(c.Request.Context(), userID)
		if err != nil {
			code := utils.CodeUnavailable
			var ae *utils.AppError
			if errors.As(err, &ae) {
				code = ae.Code
			}
			c.AbortWithStatusJSON(utils.HTTPStatus(err), apiError{
				Code:    code,
				Message: "could not resolve profile",
			})
			return
		}

		if p.Role != models.RoleAdmin && !p.SubscriptionStatus.Gated() {
			c.AbortWithStatusJSON(http.StatusForbidden, apiError{
				Code:    utils.CodeForbidden,
				Message: "active subscription required",
			})
			return
		}

		c.Next()
	}
}
