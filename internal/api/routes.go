package api

import (
	"net/http"
	"time"

	"nutrifit/backend/internal/config"
	"nutrifit/backend/internal/service"
	"nutrifit/backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles everything the router needs.
type Services struct {
	Auth         service.AuthService
	Client       service.ClientService
	Workout      service.WorkoutService
	Diet         service.DietService
	Protocol     service.ProtocolService
	Subscription service.SubscriptionService
	Notification service.NotificationService
	Settings     service.SettingsService
	Report       service.ReportService
}

func SetupRoutes(router *gin.Engine, cfg config.CORSConfig, services Services, hub *ws.Hub) {
	authHandler := NewAuthHandler(services.Auth)
	clientHandler := NewClientHandler(services.Client)
	workoutHandler := NewWorkoutHandler(services.Workout)
	dietHandler := NewDietHandler(services.Diet)
	protocolHandler := NewProtocolHandler(services.Protocol)
	subscriptionHandler := NewSubscriptionHandler(services.Subscription)
	notificationHandler := NewNotificationHandler(services.Notification)
	settingsHandler := NewSettingsHandler(services.Settings)
	reportHandler := NewReportHandler(services.Report)
	wsHandler := NewWSHandler(services.Auth, hub)

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Websocket auth happens via query token inside the handler.
		apiV1.GET("/ws/notifications", wsHandler.Serve)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		protected.GET("/me", authHandler.Me)

		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", clientHandler.Create)
			clientGroup.GET("", clientHandler.List)
			clientGroup.GET("/:id", clientHandler.Get)
			clientGroup.PUT("/:id", clientHandler.Update)
			clientGroup.DELETE("/:id", clientHandler.Delete)
		}
		protected.GET("/clients/:id/workout-logs", workoutHandler.ListLogs)

		workoutGroup := protected.Group("/workout-plans")
		{
			workoutGroup.POST("", workoutHandler.CreatePlan)
			workoutGroup.GET("", workoutHandler.ListPlans)
			workoutGroup.GET("/:id", workoutHandler.GetPlan)
			workoutGroup.PUT("/:id", workoutHandler.UpdatePlan)
			workoutGroup.DELETE("/:id", workoutHandler.DeletePlan)
			workoutGroup.POST("/:id/exercises", workoutHandler.AddExercise)
			workoutGroup.GET("/:id/exercises", workoutHandler.ListExercises)
			workoutGroup.DELETE("/:id/exercises/:exerciseId", workoutHandler.DeleteExercise)
		}
		protected.POST("/workout-logs", workoutHandler.CreateLog)

		dietGroup := protected.Group("/diet-plans")
		{
			dietGroup.POST("", dietHandler.CreatePlan)
			dietGroup.GET("", dietHandler.ListPlans)
			dietGroup.GET("/:id", dietHandler.GetPlan)
			dietGroup.PUT("/:id", dietHandler.UpdatePlan)
			dietGroup.DELETE("/:id", dietHandler.DeletePlan)
			dietGroup.POST("/:id/entries", dietHandler.AddEntry)
			dietGroup.GET("/:id/entries", dietHandler.ListEntries)
			dietGroup.DELETE("/:id/entries/:entryId", dietHandler.DeleteEntry)
		}

		foodGroup := protected.Group("/food-items")
		{
			foodGroup.POST("", dietHandler.CreateFoodItem)
			foodGroup.GET("", dietHandler.ListFoodItems)
		}

		goalGroup := protected.Group("/protocol-goals")
		{
			goalGroup.POST("", protocolHandler.CreateGoal)
			goalGroup.GET("", protocolHandler.ListGoals)
			goalGroup.GET("/:id", protocolHandler.GetGoal)
			goalGroup.PUT("/:id", protocolHandler.UpdateGoal)
			goalGroup.DELETE("/:id", protocolHandler.DeleteGoal)
			goalGroup.POST("/:id/progress", protocolHandler.AddProgress)
			goalGroup.GET("/:id/progress", protocolHandler.ListProgress)
			goalGroup.DELETE("/:id/progress/:progressId", protocolHandler.DeleteProgress)
			goalGroup.POST("/:id/progress/:progressId/photo", protocolHandler.RequestPhotoUpload)
			goalGroup.GET("/:id/progress/:progressId/photo", protocolHandler.GetPhotoURL)
		}

		subGroup := protected.Group("/subscriptions")
		{
			subGroup.GET("", subscriptionHandler.List)
			subGroup.POST("/checkout", subscriptionHandler.Checkout)
			subGroup.POST("/activate", subscriptionHandler.Activate)
			subGroup.GET("/current", subscriptionHandler.Current)
			subGroup.DELETE("/current", subscriptionHandler.Cancel)
		}

		notificationGroup := protected.Group("/notifications")
		{
			notificationGroup.POST("", notificationHandler.Create)
			notificationGroup.GET("", notificationHandler.List)
			notificationGroup.POST("/:id/read", notificationHandler.MarkRead)
			notificationGroup.DELETE("/:id", notificationHandler.Delete)
		}

		settingsGroup := protected.Group("/settings")
		{
			settingsGroup.GET("/me", settingsHandler.Get)
			settingsGroup.PUT("/me", settingsHandler.Update)
		}

		reportGroup := protected.Group("/reports")
		{
			reportGroup.GET("/counts", reportHandler.Counts)
			reportGroup.GET("/workout-trend", reportHandler.WorkoutTrend)
			reportGroup.GET("/diet-trend", reportHandler.DietTrend)
			reportGroup.GET("/client-breakdown", reportHandler.ClientBreakdown)
		}
	}
}
