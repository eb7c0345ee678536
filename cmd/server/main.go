package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"slideforge/internal/config"
	"slideforge/internal/database"
	"slideforge/internal/handlers"
	"slideforge/internal/jobs"
	"slideforge/internal/logging"
	"slideforge/internal/middleware"
	"slideforge/internal/pipeline"
	"slideforge/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting SlideForge Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: %s, Output: %s)", cfg.Port, cfg.DatabasePath, cfg.OutputDir)

	if cfg.LLMAPIKey == "" {
		log.Fatal("❌ LLM_API_KEY environment variable is required")
	}

	// Initialize SQLite feedback store
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize metrics
	metrics := services.InitMetrics()
	log.Println("✅ Metrics initialized")

	// Initialize services
	feedbackService := services.NewFeedbackService(db)
	completionClient := services.NewCompletionClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	enricherService := services.NewEnricherService(completionClient, feedbackService, cfg.BodyConcurrency)
	log.Printf("✅ Enricher initialized (model: %s, timeout: %v)", cfg.LLMModel, cfg.LLMTimeout)

	// Initialize pipeline
	engine := pipeline.NewEngine(enricherService, feedbackService, pipeline.Options{
		OutputDir:       cfg.OutputDir,
		TitleFallback:   cfg.TitleFallback,
		BackgroundColor: cfg.BackgroundColor,
	})

	// Start background jobs
	jobScheduler := jobs.NewJobScheduler()
	jobScheduler.Register("retention_cleanup", jobs.NewRetentionCleanupJob(feedbackService, cfg.FeedbackRetentionDays))
	jobScheduler.Start()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SlideForge v1.0",
		ReadTimeout:  0,
		WriteTimeout: 0,
		BodyLimit:    1 * 1024 * 1024, // requests are small JSON payloads
		UnescapePath: true,            // topics in path params arrive URL-encoded
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("slideforge")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Generate=%d/min, Read=%d/min",
		rateLimitConfig.GenerateMax, rateLimitConfig.PublicReadMax)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	generateHandler := handlers.NewGenerateHandler(engine, metrics)
	artifactHandler := handlers.NewArtifactHandler(cfg.OutputDir)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, metrics)

	// Routes
	app.Get("/", healthHandler.Handle)
	app.Get("/health", healthHandler.Handle)

	app.Post("/generate_ppt", middleware.GenerateRateLimiter(rateLimitConfig), generateHandler.Generate)

	readLimiter := middleware.PublicReadRateLimiter(rateLimitConfig)
	app.Get("/preview_ppt/:filename", readLimiter, artifactHandler.Preview)
	app.Get("/download_ppt/:filename", readLimiter, artifactHandler.Download)

	app.Post("/feedback", readLimiter, feedbackHandler.Submit)
	app.Get("/preferences/:topic", readLimiter, feedbackHandler.Preferences)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("🕐 Background jobs: feedback retention cleanup (daily 2 AM UTC, %d-day window)", cfg.FeedbackRetentionDays)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
