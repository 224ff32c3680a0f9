package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/config"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/auth"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/clients"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/delivery"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/middleware"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/repository"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/usecase"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/pkg/cache"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/pkg/db"
)

const (
	tokenTTL       = 7 * 24 * time.Hour
	paymentTimeout = 5 * time.Second
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg := config.LoadConfig(logger)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to INFO", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Starting storefront service...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established")

	// The catalog cache is optional. A missing or unreachable Redis only
	// costs read performance, never correctness.
	var catalogCache *cache.CatalogCache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr, logger)
		if err != nil {
			logger.Warnf("Redis unavailable at %s, continuing without catalog cache: %v", cfg.RedisAddr, err)
		} else {
			defer redisClient.Close()
			catalogCache = cache.NewCatalogCache(redisClient)
			logger.Info("Catalog cache enabled")
		}
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, tokenTTL)
	if err != nil {
		logger.Fatalf("Failed to initialize token manager: %v", err)
	}

	paymentClient := clients.NewPaymentHTTPClient(cfg.PaymentServiceURL, paymentTimeout, logger)

	categoryRepo := repository.NewPostgresCategoryRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	userRepo := repository.NewPostgresUserRepository(database, logger)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, logger)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, catalogCache, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, paymentClient, logger)
	userUC := usecase.NewUserUseCase(userRepo, tokens, logger)

	categoryHandler := delivery.NewCategoryHandler(categoryUC, logger)
	productHandler := delivery.NewProductHandler(productUC, logger)
	orderHandler := delivery.NewOrderHandler(orderUC, logger)
	authHandler := delivery.NewAuthHandler(userUC, logger)

	identify := middleware.Identify(tokens, logger)
	admin := middleware.RequireAdmin(userRepo, logger)

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())

	api := router.Group("/api/v1")
	categoryHandler.RegisterRoutes(api, identify, admin)
	productHandler.RegisterRoutes(api, identify, admin)
	orderHandler.RegisterRoutes(api, identify, admin)
	authHandler.RegisterRoutes(api, identify, admin)

	router.GET("/health", func(c *gin.Context) {
		if err := database.Ping(); err != nil {
			logger.Errorf("Health check failed: database unreachable: %v", err)
			c.JSON(503, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	logger.Infof("Storefront service listening on %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Fatalf("Failed to run server: %v", err)
	}
}
