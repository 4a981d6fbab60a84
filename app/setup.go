package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/go-institutions/api"
	"github.com/sahilchouksey/go-institutions/config"
	"github.com/sahilchouksey/go-institutions/database"
	"github.com/sahilchouksey/go-institutions/router"
	"github.com/sahilchouksey/go-institutions/services/cron"
	"github.com/sahilchouksey/go-institutions/utils/auth"
	"github.com/sahilchouksey/go-institutions/utils/cache"
	"github.com/sahilchouksey/go-institutions/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	if getEnv.JWT_SECRET == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		log.Errorf("Check whether Postgres is running at %s:%s", getEnv.DB_HOST, getEnv.DB_PORT)
		return err
	}

	if err := store.Init(); err != nil {
		log.Errorf("Failed to initialize database tables: %v", err)
		return err
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.GetDB(), cron.Config{
			FundingExpiryDays: getEnv.FUNDING_EXPIRY_DAYS,
		})
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	// Shared rate-limit counters when Redis is configured
	var limiterStorage *cache.LimiterStorage
	if getEnv.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Warnf("Failed to connect to Redis: %v. Rate limiting falls back to memory.", err)
		} else {
			limiterStorage = cache.NewLimiterStorage(redisCache)
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if limiterStorage != nil {
			limiterStorage.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	security := middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: getEnv.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   time.Minute,
	}
	if limiterStorage != nil {
		security.LimiterStorage = limiterStorage
	}
	middleware.SetupSecurity(app, security)

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.JWT_SECRET,
		Expiry: 24 * time.Hour,
		Issuer: getEnv.JWT_ISSUER,
	})

	// Setup Routes
	router.SetupRoutes(app, store, jwtManager)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	// Get the PORT & Start the Server
	return server.Run()
}
