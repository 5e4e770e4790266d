package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/wpwscannerapp/scanner-feed/internal/api/handlers"
	"github.com/wpwscannerapp/scanner-feed/internal/api/middleware"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Profile   *handlers.ProfileHandler
	Settings  *handlers.SettingsHandler
	Push      *handlers.PushHandler
	Incidents *handlers.IncidentHandler
	Billing   *handlers.BillingHandler
	Nav       *handlers.NavHandler
	Proxy     *handlers.ProxyHandler
	WS        *handlers.WSHandler

	Revoked  middleware.RevocationChecker
	Profiles middleware.ProfileResolver
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public: sign-in page is reachable (and themed) without a session
	r.POST("/auth/signup", d.Auth.SignUp)
	r.POST("/auth/signin", d.Auth.SignIn)
	r.POST("/auth/reset-request", d.Auth.RequestReset)
	r.POST("/auth/reset-confirm", d.Auth.ConfirmReset)
	r.GET("/settings/theme", d.Settings.Theme)
	r.GET("/nav", d.Nav.Decide)

	// Payment processor calls in unauthenticated; signature is the auth
	r.POST("/billing/webhook", d.Billing.Webhook)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.Auth(d.Revoked))

	auth.POST("/auth/signout", d.Auth.SignOut)
	auth.GET("/profile/me", d.Profile.Me)
	auth.PUT("/profile/update", d.Profile.Update)

	auth.POST("/push/subscribe", d.Push.Subscribe)
	auth.POST("/push/unsubscribe", d.Push.Unsubscribe)

	auth.POST("/billing/checkout", d.Billing.CreateCheckout)

	// WebSocket: settings + incident realtime feed
	auth.GET("/ws/feed", d.WS.Feed)

	// Gated content: active/trialing/tester only
	sub := auth.Group("/")
	sub.Use(middleware.RequireSubscriber(d.Profiles))

	sub.GET("/incidents", d.Incidents.List)
	sub.GET("/incidents/:id", d.Incidents.Get)
	sub.GET("/incidents/:id/media", d.Incidents.MediaURL)

	sub.GET("/proxy/weather", d.Proxy.Weather)
	sub.GET("/proxy/traffic", d.Proxy.Traffic)
	sub.GET("/proxy/geocode", d.Proxy.Geocode)

	// Admin-only
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/profiles", d.Profile.List)
	admin.PUT("/profiles/:user_id/role", d.Profile.SetRole)
	admin.PUT("/profiles/:user_id/subscription", d.Profile.SetSubscriptionStatus)

	admin.GET("/settings", d.Settings.Get)
	admin.PUT("/settings", d.Settings.Update)

	admin.POST("/incidents", d.Incidents.Create)
	admin.PUT("/incidents/:id", d.Incidents.Update)
	admin.DELETE("/incidents/:id", d.Incidents.Delete)
	admin.POST("/incidents/:id/media", d.Incidents.UploadMedia)

	admin.POST("/notify", d.Push.Notify)
}
