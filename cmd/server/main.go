package main

import (
	"context"
	"fmt"
	"log"

	"chugr/backend/internal/auth"
	"chugr/backend/internal/cache"
	"chugr/backend/internal/config"
	"chugr/backend/internal/database"
	"chugr/backend/internal/handler"
	"chugr/backend/internal/health"
	"chugr/backend/internal/matching"
	"chugr/backend/internal/middleware"
	"chugr/backend/internal/notify"
	"chugr/backend/internal/repository"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "chugr/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Chugr API
// @version         1.0
// @description     This is the API for the chugr dating service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	redisCache := cache.NewRedisCache(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisDB,
	)

	userRepo := repository.NewUserRepository(database.DB)
	swipeRepo := repository.NewSwipeRepository(database.DB)
	matchRepo := repository.NewMatchRepository(database.DB)
	blockRepo := repository.NewBlockRepository(database.DB)
	convRepo := repository.NewConversationRepository(database.DB)

	registry := health.NewRegistry()
	registry.Register(health.ServiceConfig{
		Name:             notify.ServiceName,
		BaseURL:          config.AppConfig.NotificationsURL,
		Interval:         config.AppConfig.HealthInterval,
		Timeout:          config.AppConfig.HealthTimeout,
		FailureThreshold: config.AppConfig.FailureThreshold,
		Cooldown:         config.AppConfig.BreakerCooldown,
	})
	registry.Register(health.ServiceConfig{
		Name:             "media",
		BaseURL:          config.AppConfig.MediaURL,
		Interval:         config.AppConfig.HealthInterval,
		Timeout:          config.AppConfig.HealthTimeout,
		FailureThreshold: config.AppConfig.FailureThreshold,
		Cooldown:         config.AppConfig.BreakerCooldown,
	})
	registry.Start(context.Background())

	notifier := notify.NewClient(config.AppConfig.NotificationsURL, registry)
	matchSvc := matching.NewService(userRepo, swipeRepo, matchRepo, blockRepo, convRepo, redisCache, notifier)

	handler.Init(userRepo, blockRepo, convRepo, matchSvc, registry)

	router := gin.Default()
	router.Use(middleware.RequestID())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", handler.GetHealth)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
			userRoutes.DELETE("/me", handler.DeleteMe)
			userRoutes.PUT("/me/preferences", handler.UpdatePreferences)
			userRoutes.GET("/:id", handler.GetUserByID)
			userRoutes.POST("/:id/block", handler.BlockUser)
			userRoutes.DELETE("/:id/block", handler.UnblockUser)
		}

		// Matching routes (protected)
		matchingRoutes := apiV1.Group("/matching")
		matchingRoutes.Use(auth.AuthMiddleware())
		{
			matchingRoutes.GET("/potential-matches", handler.GetPotentialMatches)
			matchingRoutes.POST("/swipe", handler.RecordSwipe)
			matchingRoutes.GET("/matches", handler.GetMatches)
			matchingRoutes.GET("/matches/:id", handler.GetMatchByID)
			matchingRoutes.DELETE("/matches/:id", handler.Unmatch)
			matchingRoutes.GET("/likes/count", handler.GetLikesCount)
		}

		// Chat routes (protected)
		chatRoutes := apiV1.Group("/chat")
		chatRoutes.Use(auth.AuthMiddleware())
		{
			chatRoutes.POST("/conversations", handler.CreateConversation)
			chatRoutes.GET("/conversations", handler.GetConversations)
			chatRoutes.GET("/conversations/:id/messages", handler.GetMessages)
			chatRoutes.POST("/conversations/:id/messages", handler.SendMessage)
			chatRoutes.POST("/conversations/:id/read", handler.MarkConversationRead)
			chatRoutes.GET("/conversations/:id/stream", handler.StreamConversation)
		}

		// Interest catalog, browsable before signing up
		interestRoutes := apiV1.Group("/interests")
		interestRoutes.Use(auth.OptionalAuthMiddleware())
		{
			interestRoutes.GET("", handler.GetInterests)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			// Interests CRUD
			interests := adminRoutes.Group("/interests")
			{
				interests.POST("", handler.CreateInterest)
				interests.GET("", handler.GetInterests)
				interests.PUT("/:id", handler.UpdateInterest)
				interests.DELETE("/:id", handler.DeleteInterest)
			}
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(addr))
}
