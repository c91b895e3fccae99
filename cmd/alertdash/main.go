package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/alertdash/alertdash/internal/alerts/adapters"
	"github.com/alertdash/alertdash/internal/config"
	"github.com/alertdash/alertdash/internal/database"
	"github.com/alertdash/alertdash/internal/engine"
	"github.com/alertdash/alertdash/internal/handlers"
	"github.com/alertdash/alertdash/internal/middleware"
	"github.com/alertdash/alertdash/internal/simulator"
	slackutil "github.com/alertdash/alertdash/internal/slack"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting alertdash...")

	// Initialize database connection
	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database connection established")

	// Run database migrations
	if err := database.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// First boot seeds the settings row from the environment; a persisted
	// row wins on every later start
	settings, err := database.SeedEngineSettings(database.GetDB(),
		int(cfg.SuppressionWindow/time.Second), int(cfg.ActiveWindow/time.Minute))
	if err != nil {
		log.Fatalf("Failed to load engine settings: %v", err)
	}

	// Slack notifier for new high-severity alerts (nil when not configured)
	notifier := slackutil.NewNotifier(cfg.SlackBotToken, cfg.SlackChannel, engine.Severity(cfg.SlackMinSeverity))

	// Stream handler broadcasts every non-duplicate ingest to WebSocket clients
	streamHandler := handlers.NewStreamHandler()

	eng := engine.New(engine.Options{
		SuppressionWindow: settings.SuppressionWindow(),
		ActiveWindow:      settings.ActiveWindow(),
		OnIngest: func(result engine.IngestResult) {
			streamHandler.Broadcast(result)
			notifier.HandleIngest(result)
		},
	})
	log.Printf("Engine initialized: suppression=%s active=%s", settings.SuppressionWindow(), settings.ActiveWindow())

	// Register all alert adapters
	registry := adapters.DefaultRegistry()
	log.Printf("Alert adapters registered: %v", registry.Sources())

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(eng, database.GetDB())
	webhookHandler := handlers.NewWebhookHandler(eng, registry)
	httpHandler := handlers.NewHTTPHandler(apiHandler, webhookHandler, streamHandler)

	// Set up HTTP server routes
	mux := http.NewServeMux()
	httpHandler.SetupRoutes(mux)

	// Wrap routes with CORS, request ID and request logging
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORSAllowedOrigins...)
	handler := corsMiddleware.Wrap(middleware.RequestIDMiddleware(middleware.LoggingMiddleware(mux)))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: handler,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Start the stream simulator if enabled
	stopSimulator := make(chan struct{})
	if cfg.SimulatorEnabled {
		scenario := simulator.DefaultScenario()
		if cfg.SimulatorScenario != "" {
			scenario, err = simulator.LoadScenario(cfg.SimulatorScenario)
			if err != nil {
				log.Fatalf("Failed to load simulator scenario: %v", err)
			}
		}
		sim, err := simulator.NewSimulator(eng, scenario)
		if err != nil {
			log.Fatalf("Failed to create simulator: %v", err)
		}
		go sim.Start(stopSimulator)
	} else {
		log.Printf("Simulator disabled")
	}

	log.Printf("Alert webhook endpoint: http://localhost:%d/webhook/alert/{source}", cfg.HTTPPort)
	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)
	log.Printf("API base URL: http://localhost:%d/api", cfg.HTTPPort)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, cleaning up...")
	close(stopSimulator)

	log.Println("Shutting down HTTP server...")
	if err := httpServer.Close(); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Shutdown complete")
}
