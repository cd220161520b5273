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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/roastbattle/api"
	"github.com/xiaot623/roastbattle/battle"
	"github.com/xiaot623/roastbattle/config"
	"github.com/xiaot623/roastbattle/llm"
	"github.com/xiaot623/roastbattle/policy"
	"github.com/xiaot623/roastbattle/roast"
	"github.com/xiaot623/roastbattle/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting roast battle service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM URL: %s (model %s)", cfg.LLMBaseURL, cfg.LLMModel)

	if cfg.LLMAPIKey == "" && os.Getenv(llm.EnvRoastMode) != llm.ModeMock {
		log.Fatalf("LLM_API_KEY (or GROQ_API_KEY) is required; set ROAST_MODE=MOCK to run without a key")
	}

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize LLM client
	chatClient := llm.NewChatClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize battle service
	generator := roast.NewGenerator(chatClient, cfg.LLMModel, cfg.LLMMaxRetries)
	scorer := roast.NewScorer(chatClient, cfg.LLMModel)
	svc := battle.New(db, generator, scorer, policyEngine, cfg.LLMTimeout)

	// Initialize handler
	h := api.NewHandler(svc)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down roast battle service...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Roast battle service stopped")
}
