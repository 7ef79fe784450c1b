package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/localmarket/commercehub/internal/config"
	"github.com/localmarket/commercehub/internal/database"
	"github.com/localmarket/commercehub/internal/handler"
	"github.com/localmarket/commercehub/internal/middleware"
	"github.com/localmarket/commercehub/internal/notifier"
	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/internal/service"
	"github.com/localmarket/commercehub/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	// Redis backs the rate limiter and the ops alert channel. Both degrade
	// to disabled when no REDIS_URL is configured.
	var alerts notifier.Notifier = notifier.Nop{}
	var rateLimiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		redisNotifier, err := notifier.NewRedisNotifier(cfg.RedisURL, cfg.AlertChannel)
		if err != nil {
			log.Fatalf("Failed to initialize alert notifier: %v", err)
		}
		defer redisNotifier.Close()
		alerts = redisNotifier

		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rateLimiter = middleware.NewRateLimiter(redis.NewClient(opt), middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
			BlockTime:   cfg.RateLimitBlockTime,
		})
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.Conn)
	commerceRepo := repository.NewCommerceRepository(db.Conn)
	webCommerceRepo := repository.NewWebCommerceRepository(db.Conn)

	// Services
	authService := service.NewAuthService(userRepo, alerts, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	userService := service.NewUserService(userRepo, commerceRepo, webCommerceRepo, alerts)
	commerceService := service.NewCommerceService(commerceRepo, alerts, cfg.JWTSecret, cfg.JWTExpiry)
	storefrontService := service.NewStorefrontService(webCommerceRepo, alerts)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	commerceHandler := handler.NewCommerceHandler(commerceService)
	storefrontHandler := handler.NewStorefrontHandler(storefrontService, cfg.UploadDir)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	if rateLimiter != nil {
		router.Use(rateLimiter.Middleware())
	}

	// Uploaded storefront images
	router.Static("/storage", cfg.UploadDir)

	userAuth := middleware.AuthMiddleware(cfg.JWTSecret, userRepo)
	commerceAuth := middleware.CommerceMiddleware(cfg.JWTSecret, commerceRepo)
	adminOnly := middleware.AdminMiddleware()

	api := router.Group("/api")
	{
		// Users
		api.POST("/users/register", authHandler.Register)
		api.POST("/users/login", authHandler.Login)
		api.PUT("/users/update", userAuth, userHandler.Update)
		api.DELETE("/users/delete", userAuth, userHandler.Delete)
		api.GET("/users/interest", commerceAuth, userHandler.InterestedEmails)

		// Commerce directory (admin only)
		api.GET("/commerces/view-all", userAuth, adminOnly, commerceHandler.List)
		api.GET("/commerces/view/:cif", userAuth, adminOnly, commerceHandler.View)
		api.POST("/commerces/create", userAuth, adminOnly, commerceHandler.Create)
		api.PUT("/commerces/update/:cif", userAuth, adminOnly, commerceHandler.Update)
		api.DELETE("/commerces/delete/:cif", userAuth, adminOnly, commerceHandler.Delete)

		// Storefronts
		api.GET("/webCommerce/all", storefrontHandler.ListAll)
		api.GET("/webCommerce/view/:commerceCIF", storefrontHandler.View)
		api.GET("/webCommerce/city/:city", storefrontHandler.ListByCity)
		api.GET("/webCommerce/city/:city/activity/:activity", storefrontHandler.ListByCityAndActivity)
		api.GET("/webCommerce/activity/:activity", storefrontHandler.ListByActivity)
		api.POST("/webCommerce/create", commerceAuth, storefrontHandler.Create)
		api.PUT("/webCommerce/update", commerceAuth, storefrontHandler.Update)
		api.DELETE("/webCommerce/:commerceCIF", commerceAuth, storefrontHandler.ArchiveOrDelete)
		api.PATCH("/webCommerce/upload/:commerceCIF", commerceAuth, storefrontHandler.UploadImage)
		api.POST("/webCommerce/review/:commerceCIF", userAuth, storefrontHandler.AddReview)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
