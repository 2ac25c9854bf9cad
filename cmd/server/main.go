package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/hazelmere/property-api/configs"
	"github.com/hazelmere/property-api/internal/application/services"
	"github.com/hazelmere/property-api/internal/core/ports"
	"github.com/hazelmere/property-api/internal/infrastructure/db"
	"github.com/hazelmere/property-api/internal/infrastructure/email"
	"github.com/hazelmere/property-api/internal/infrastructure/health"
	"github.com/hazelmere/property-api/internal/infrastructure/httpserver"
	"github.com/hazelmere/property-api/internal/infrastructure/redis"
	"github.com/hazelmere/property-api/internal/infrastructure/repositories"
	"github.com/hazelmere/property-api/internal/infrastructure/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting property API service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Durable stores
	areaGuideRepo := repositories.NewAreaGuideRepository(database, logger)
	nearbyCacheRepo := repositories.NewNearbyCacheRepository(database, logger)
	messageRepo := repositories.NewMessageRepository(database, logger)
	userRepo := repositories.NewUserRepository(database, logger)

	// Decorate the area-guide store with a Redis cache-aside layer. The TTL
	// only bounds the hot copy; freshness is still judged from updated_at.
	redisCache := redis.NewRedisCache(redisClient, "propcache")
	cachedAreaGuideRepo := repositories.NewCachingAreaGuideRepository(areaGuideRepo, redisCache, cfg.Cache.RedisTTL)

	// Rate limiter backend selection
	rateLimiterConfig := &services.RateLimiterConfig{
		LoginLimit:    cfg.RateLimit.LoginLimit,
		LoginWindow:   cfg.RateLimit.LoginWindow,
		EnquiryLimit:  cfg.RateLimit.EnquiryLimit,
		EnquiryWindow: cfg.RateLimit.EnquiryWindow,
	}
	var rateLimiter ports.RateLimiterService
	if cfg.RateLimit.Backend == "redis" {
		counter := repositories.NewRateLimitRedisRepository(redisClient)
		rateLimiter = services.NewAtomicRateLimiterService(counter, rateLimiterConfig, logger)
		logger.Info("Rate limiter using atomic redis backend")
	} else {
		store := repositories.NewRateLimitRepository(database, logger)
		rateLimiter = services.NewRateLimiterService(store, rateLimiterConfig, logger)
	}

	// Upstream clients
	geocoder := upstream.NewPostcodesClient(cfg.Upstream.PostcodesBaseURL, cfg.Upstream.Timeout, logger)
	statsClient := upstream.NewONSClient(cfg.Upstream.ONSBaseURL, cfg.Upstream.Timeout, logger)
	poiClient := upstream.NewOverpassClient(cfg.Upstream.OverpassURL, cfg.Upstream.Timeout, logger)

	// Email notifications (disabled without an API key)
	emailService, err := email.NewEmailService(&email.EmailConfig{
		SendGridAPIKey: cfg.Email.SendGridAPIKey,
		FromEmail:      cfg.Email.FromEmail,
		FromName:       cfg.Email.FromName,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service:", err)
	}

	// Wire services
	areaGuideService := services.NewAreaGuideService(cachedAreaGuideRepo, geocoder, statsClient, poiClient, cfg.Cache.AreaGuideFreshness, logger)
	nearbyService := services.NewNearbyService(nearbyCacheRepo, poiClient, cfg.Cache.NearbyFreshness, logger)
	enquiryService := services.NewEnquiryService(messageRepo, userRepo, emailService, logger)
	authService := services.NewAuthService(userRepo, &cfg.JWT, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		AreaGuideService:   areaGuideService,
		NearbyService:      nearbyService,
		EnquiryService:     enquiryService,
		AuthService:        authService,
		RateLimiterService: rateLimiter,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
