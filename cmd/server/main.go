package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/ksc-migration/collections-api/internal/config"
	"github.com/ksc-migration/collections-api/internal/database"
	"github.com/ksc-migration/collections-api/internal/handlers"
	"github.com/ksc-migration/collections-api/internal/middleware"
	"github.com/ksc-migration/collections-api/internal/repository"
	"github.com/ksc-migration/collections-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	uploaderRepo := repository.NewUploaderRepository(db)
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	// Seed reference data and repair member sequence numbers
	if err := database.Bootstrap(db, memberRepo); err != nil {
		log.Fatalf("Failed to bootstrap database: %v", err)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, uploaderRepo)
	uploaderService := services.NewUploaderService(uploaderRepo)
	memberService := services.NewMemberService(memberRepo)
	ingestService := services.NewIngestService(orgRepo, collectionRepo)
	collectionService := services.NewCollectionService(collectionRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	uploaderHandler := handlers.NewUploaderHandler(uploaderService)
	orgHandler := handlers.NewOrganizationHandler(orgRepo)
	memberHandler := handlers.NewMemberHandler(memberService)
	ingestHandler := handlers.NewIngestHandler(ingestService)
	collectionHandler := handlers.NewCollectionHandler(collectionService, ingestService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Collections API is running",
		})
	})

	credentialed := middleware.RequireCredential(authService)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", middleware.OptionalCredential(authService), authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", credentialed, authHandler.Me)
	}

	// User administration (admin only)
	users := r.Group("/users")
	users.Use(credentialed, middleware.RequireAdmin())
	{
		users.GET("", authHandler.ListUsers)
		users.PUT("/:id", authHandler.UpdateUser)
	}

	// Uploader credentials (user accounts only)
	uploaders := r.Group("/uploaders")
	uploaders.Use(credentialed, middleware.RequireUser())
	{
		uploaders.GET("", uploaderHandler.ListUploaders)
		uploaders.POST("", uploaderHandler.CreateUploader)
		uploaders.GET("/:api_key", uploaderHandler.GetUploader)
	}

	// Ingestion pipeline (API key or bearer token)
	pipeline := r.Group("/")
	pipeline.Use(credentialed)
	{
		pipeline.POST("/upload", ingestHandler.Upload)
		pipeline.POST("/upload/headers", ingestHandler.UploadHeaders)

		pipeline.GET("/organizations", orgHandler.ListOrganizations)

		pipeline.GET("/members", memberHandler.ListMembers)
		pipeline.POST("/members", memberHandler.CreateMember)
		pipeline.PUT("/members/:id", memberHandler.UpdateMember)

		pipeline.POST("/collections", collectionHandler.CreateRecord)
		pipeline.POST("/collections/bulk", ingestHandler.BulkInsert)
		pipeline.POST("/collections/validate", ingestHandler.Validate)
		pipeline.PATCH("/collections/:id", collectionHandler.UpdateRecord)

		pipeline.GET("/collection-codes", collectionHandler.ListCodes)
		pipeline.POST("/collection-codes", collectionHandler.CreateCode)
		pipeline.PUT("/collection-codes/:id", collectionHandler.UpdateCode)

		pipeline.GET("/header-mappings", collectionHandler.GetHeaderMappings)
		pipeline.POST("/header-mappings", collectionHandler.SaveHeaderMappings)

		pipeline.GET("/reports/collections", collectionHandler.Report)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
