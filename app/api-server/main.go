package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/wpwscannerapp/scanner-feed/config"
	"github.com/wpwscannerapp/scanner-feed/internal/api/handlers"
	"github.com/wpwscannerapp/scanner-feed/internal/api/middleware"
	"github.com/wpwscannerapp/scanner-feed/internal/api/routes"
	"github.com/wpwscannerapp/scanner-feed/internal/cache"
	"github.com/wpwscannerapp/scanner-feed/internal/logger"
	"github.com/wpwscannerapp/scanner-feed/internal/push"
	"github.com/wpwscannerapp/scanner-feed/internal/realtime"
	mongorepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/mongo"
	pgrepo "github.com/wpwscannerapp/scanner-feed/internal/repositories/postgres"
	"github.com/wpwscannerapp/scanner-feed/internal/services"
	"github.com/wpwscannerapp/scanner-feed/internal/storage"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	db := config.PostgresDB
	rdb := config.RedisClient

	// repositories
	users := pgrepo.NewUserRepo(db)
	profiles := pgrepo.NewProfileRepo(db)
	resets := pgrepo.NewPasswordResetRepo(db)
	settings := pgrepo.NewSettingsRepo(db)
	pushSubs := pgrepo.NewPushSubscriptionRepo(db)
	incidents := pgrepo.NewIncidentRepo(db)
	billingEvents := pgrepo.NewBillingEventRepo(db)
	deliveries := mongorepo.NewDeliveryRepo(config.MongoDatabase())

	// shared infrastructure
	redisCache := cache.NewRedisCache(rdb)
	publisher := realtime.NewRedisPublisher(rdb)
	revoker := services.NewRedisRevoker(rdb)

	var uploader storage.Uploader
	var signer storage.Signer
	if bucket := os.Getenv("MEDIA_BUCKET"); bucket != "" {
		store, err := storage.NewGCSStore(context.Background(), bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer store.Close()
		uploader, signer = store, store
	} else {
		l.Warn("MEDIA_BUCKET not set; incident media disabled")
	}

	var sender push.Sender
	if s, err := push.NewWebPushSenderFromEnv(); err != nil {
		l.WithError(err).Warn("web push disabled")
	} else {
		sender = s
	}

	// services
	profileSvc := services.NewProfileService(profiles, redisCache)
	authSvc := services.NewAuthService(
		users, profileSvc, resets, revoker,
		[]byte(os.Getenv("SESSION_JWT_SECRET")),
		os.Getenv("SESSION_JWT_ISSUER"),
		sessionTTL(),
	)
	settingsSvc := services.NewSettingsService(settings, publisher)
	pushSvc := services.NewPushService(pushSubs, deliveries, sender)
	incidentSvc := services.NewIncidentService(incidents, uploader, signer, publisher)
	billingSvc := services.NewBillingServiceFromEnv(profileSvc, billingEvents)

	// realtime fan-out
	hub := realtime.NewHub(rdb, l)
	go hub.Run(context.Background())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc, pushSvc),
		Profile:   handlers.NewProfileHandler(profileSvc),
		Settings:  handlers.NewSettingsHandler(settingsSvc),
		Push: handlers.NewPushHandler(pushSvc, func() *services.PushBootstrapper {
			return services.NewPushBootstrapper(pushSvc, services.DefaultBootstrapTimeout)
		}),
		Incidents: handlers.NewIncidentHandler(incidentSvc),
		Billing:   handlers.NewBillingHandler(billingSvc),
		Nav:       handlers.NewNavHandler(loadingLimit()),
		Proxy:     handlers.NewProxyHandler(),
		WS:        handlers.NewWSHandler(hub, settingsSvc),
		Revoked:   revoker,
		Profiles:  profileSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func loadingLimit() time.Duration {
	if v := os.Getenv("NAV_LOADING_LIMIT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 0 // handler applies the guard default
}

func sessionTTL() time.Duration {
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Hour
}
