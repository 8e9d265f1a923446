package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ingestion-api/config"
	"ingestion-api/internal/clients"
	"ingestion-api/internal/handlers"
	"ingestion-api/internal/middleware"
	"ingestion-api/internal/repositories"
	"ingestion-api/internal/services"
	"ingestion-api/pkg/memorydb"
	"ingestion-api/pkg/mongodb"

	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load .env file
	envPaths := []string{
		"../../.env", // From cmd/api/ to repo root
		".env",       // Current directory
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded .env from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	ctx := context.Background()

	// Initialize Redis client (optional; status store falls back to an
	// in-process store when unset)
	var redisClient *memorydb.RedisClient
	if cfg.RedisURL != "" {
		log.Printf("Attempting to connect to Redis at: %s", cfg.RedisURL)
		var err error
		redisClient, err = memorydb.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Redis client: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	} else {
		log.Println("REDIS_URL not set, using in-memory status store")
	}

	// Initialize MongoDB (optional; document routes are skipped without it)
	var mongoDB *mongodb.DB
	if cfg.MongoURI != "" {
		log.Printf("Attempting to connect to MongoDB at: %s", cfg.MongoURI)
		var err error
		mongoDB, err = mongodb.NewDB(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB client: %v", err)
		}
		defer mongoDB.Close(context.Background())
		log.Println("MongoDB client initialized successfully")
	} else {
		log.Println("MONGO_URI not set - document routes will not be available")
	}

	// Select the status store implementation
	var statusStore repositories.StatusStore
	if redisClient != nil {
		statusStore = repositories.NewRedisStatusStore(redisClient)
	} else {
		statusStore = repositories.NewMemoryStatusStore()
	}

	// Select the ingestion backend client
	var ingestionClient clients.IngestionClient
	if cfg.IngestionMockClient || cfg.IngestionBackendURL == "" {
		ingestionClient = clients.NewMockClient()
		log.Println("Using mock ingestion client")
	} else {
		ingestionClient = clients.NewHTTPClient(cfg.IngestionBackendURL)
		log.Printf("Using HTTP ingestion client: %s", cfg.IngestionBackendURL)
	}

	// Initialize repositories and services
	var documentRepo *repositories.DocumentRepository
	if mongoDB != nil {
		documentRepo = repositories.NewDocumentRepository(mongoDB)
	}

	base := services.NewBaseService(statusStore, ingestionClient, redisClient, documentRepo)
	svcs := services.NewServices(base, cfg.StoragePath)
	svcs.Health = services.NewHealthService(mongoDB, redisClient)

	// Initialize handlers
	ingestionHandler := handlers.NewIngestionHandler(svcs.Ingestion)
	var documentHandler *handlers.DocumentHandler
	if svcs.Document != nil {
		documentHandler = handlers.NewDocumentHandler(svcs.Document)
	}

	// Setup router
	router := setupRouter(cfg, svcs.Health, ingestionHandler, documentHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func setupRouter(
	cfg *config.Config,
	healthService *services.HealthService,
	ingestionHandler *handlers.IngestionHandler,
	documentHandler *handlers.DocumentHandler, // Can be nil if MongoDB is not configured
) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.ErrorMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		checks := healthService.Check(c.Request.Context())
		status := http.StatusOK
		if !healthService.Healthy(c.Request.Context()) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"service": "ingestion-api",
			"checks":  checks,
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Ingestion job tracking
		ingestion := v1.Group("/ingestion")
		{
			ingestion.POST("/trigger", ingestionHandler.Trigger())
			ingestion.GET("/status/:jobId", ingestionHandler.GetStatus())
			ingestion.POST("/retry/:jobId", ingestionHandler.Retry())
			ingestion.GET("/embeddings/:documentId", ingestionHandler.Embeddings())
		}

		// Documents - only registered when MongoDB is configured
		if documentHandler != nil {
			documents := v1.Group("/documents")
			{
				documents.POST("", documentHandler.Create())
				documents.GET("", documentHandler.List())
				documents.GET("/:id", documentHandler.GetByID())
				documents.PUT("/:id", documentHandler.Update())
				documents.DELETE("/:id", documentHandler.Delete())
			}
			log.Println("Document routes registered: /api/v1/documents")
		} else {
			log.Println("Document routes NOT registered - MongoDB not configured")
		}
	}

	return router
}
