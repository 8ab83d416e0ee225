package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"ekuseyecom/internal/config"
	handlers "ekuseyecom/internal/handlers/shared"
	"ekuseyecom/internal/middleware"
	"ekuseyecom/internal/repositories/mongodb"
	"ekuseyecom/internal/services"
	"ekuseyecom/pkg/affiliate"
	"ekuseyecom/pkg/cache"
	"ekuseyecom/pkg/database"
	"ekuseyecom/pkg/logger"
	"ekuseyecom/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logFormat := "text"
	if cfg.App.Environment == "production" {
		logFormat = "json"
	}
	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: logFormat,
		Output: "stdout",
		Colors: cfg.App.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Connect to MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to Redis; the cache is optional, the app degrades to
	// direct reads when it is unavailable
	var redisCache *cache.RedisCache
	redisCache, err = cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Warn("Redis unavailable, caching disabled")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Initialize repositories
	orderRepo := mongodb.NewOrderRepository(db.Database, redisCache)
	productRepo := mongodb.NewProductRepository(db.Database, redisCache)
	optionRepo := mongodb.NewOptionRepository(db.Database)

	// External conversion API client
	conversionClient := affiliate.NewBloomClient(
		cfg.Affiliate.ConversionAPIURL,
		os.Getenv("AFFILIATE_CONVERSION_API_KEY"),
		cfg.Affiliate.ConversionTimeout,
	)

	// Initialize services
	commissionService := services.NewCommissionService(orderRepo, productRepo, conversionClient, cfg.Affiliate, appLogger)
	productService := services.NewProductService(productRepo, redisCache, appLogger)
	bannerService := services.NewBannerService(optionRepo, redisCache, appLogger)
	orderService := services.NewOrderService(orderRepo, commissionService, cfg.App.Currency, appLogger)

	// Initialize handlers
	affiliateHandler := handlers.NewAffiliateHandler(commissionService)
	productHandler := handlers.NewProductHandler(productService)
	bannerHandler := handlers.NewBannerHandler(bannerService)
	orderHandler := handlers.NewOrderHandler(orderService, cfg.Affiliate.CookieName)

	// Initialize Gin router
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ReferralTracker(cfg.Affiliate, appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupCatalogRoutes(v1, productHandler, bannerHandler, orderHandler, cfg.Security.JWTSecret)
		routes.SetupAffiliateRoutes(v1, affiliateHandler, cfg.Security.JWTSecret)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.WithField("addr", addr).Info("Starting server")
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server failed: %v", err)
	}
}
