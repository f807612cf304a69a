package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"
	"github.com/univdesk/helpdesk-api/internal/config"
	"github.com/univdesk/helpdesk-api/internal/database"
	"github.com/univdesk/helpdesk-api/internal/handlers"
	"github.com/univdesk/helpdesk-api/internal/middleware"
	"github.com/univdesk/helpdesk-api/internal/repository"
	"github.com/univdesk/helpdesk-api/internal/services"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Repositories and services are constructed once and injected; nothing
	// below reaches for the connection singleton.
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)

	var oracle services.Oracle
	if cfg.OpenAIAPIKey != "" {
		clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			clientConfig.BaseURL = cfg.OpenAIBaseURL
		}
		oracle = services.NewAIServiceWithConfig(clientConfig, cfg.OracleTimeout)
	} else {
		log.Println("OPENAI_API_KEY not set: AI enrichment disabled, fallbacks apply")
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(userRepo)
	complaintService := services.NewComplaintService(complaintRepo, userRepo, oracle)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	complaintHandler := handlers.NewComplaintHandler(complaintService)
	aiHandler := handlers.NewAIHandler(complaintService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Helpdesk API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			users.GET("", userHandler.ListUsers)
			users.PUT("/profile", userHandler.UpdateProfile)
		}

		// Complaint routes (protected)
		complaints := api.Group("/complaints")
		complaints.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			complaints.GET("", complaintHandler.ListComplaints)
			complaints.POST("", complaintHandler.CreateComplaint)
			complaints.GET("/:id", complaintHandler.GetComplaint)
			complaints.PUT("/:id", complaintHandler.UpdateComplaint)
			complaints.POST("/batch-generate-solutions", aiHandler.BatchGenerateSolutions)
			complaints.POST("/:id/generate-solution", aiHandler.GenerateSolution)
			complaints.POST("/:id/generate-student-recommendation", aiHandler.GenerateStudentRecommendation)
		}

		// Advisory AI routes (protected)
		ai := api.Group("/ai")
		ai.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			ai.POST("/suggest-department", aiHandler.SuggestDepartment)
		}
	}

	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
