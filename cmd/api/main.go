// Health Equalizer API - health questions, nearby hospitals and voice queries
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthequalizer/api/internal/api"
	"github.com/healthequalizer/api/internal/config"
	"github.com/healthequalizer/api/internal/healthquery"
	"github.com/healthequalizer/api/internal/locator"
	"github.com/healthequalizer/api/internal/pkg/log"
	"github.com/healthequalizer/api/internal/platform/llm"
	"github.com/healthequalizer/api/internal/platform/places"
	"github.com/healthequalizer/api/internal/platform/speech"
	"github.com/healthequalizer/api/internal/transcription"
)

const (
	serviceName    = "health-equalizer-api"
	serviceVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: %v", err)
	}

	log.Info("Initializing completion provider: %s", cfg.LLM.CompletionProvider)
	completionModel, err := llm.NewCompletionModel(llm.ProviderConfig{
		Provider:        cfg.LLM.CompletionProvider,
		OpenAIAPIKey:    cfg.LLM.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.LLM.OpenAIBaseURL,
		CompletionModel: cfg.LLM.CompletionModel,
		GroqAPIKey:      cfg.LLM.GroqAPIKey,
		GroqModel:       cfg.LLM.GroqModel,
		OllamaBaseURL:   cfg.LLM.OllamaBaseURL,
		OllamaModel:     cfg.LLM.OllamaModel,
		Timeout:         cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create completion model: %v", err)
	}

	// Health check before startup
	log.Info("Performing health checks...")
	checkCtx, checkCancel := context.WithTimeout(context.Background(), 10*time.Second)
	supported, err := llm.CheckHealth(checkCtx, completionModel)
	checkCancel()
	switch {
	case !supported:
		log.Info("Completion provider %s has no health check, skipping", cfg.LLM.CompletionProvider)
	case err != nil:
		log.Warn("Completion provider health check failed: %v", err)
		log.Warn("Continuing startup, but health queries may fail")
	default:
		log.Info("Completion provider health check passed")
	}

	placesClient, err := places.NewClient(places.Config{
		APIKey:  cfg.Places.APIKey,
		BaseURL: cfg.Places.BaseURL,
		Timeout: cfg.Places.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create places client: %v", err)
	}

	speechClient, err := speech.NewClient(speech.Config{
		APIKey:   cfg.Speech.APIKey,
		BaseURL:  cfg.Speech.BaseURL,
		Model:    cfg.Speech.Model,
		Language: cfg.Speech.Language,
		Timeout:  cfg.Speech.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create speech client: %v", err)
	}

	queryService := healthquery.NewService(completionModel, healthquery.Config{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	locatorService := locator.NewService(placesClient)
	transcriptionService := transcription.NewService(speechClient)

	handler := api.NewHandler(queryService, locatorService, transcriptionService, map[string]string{
		"completion": cfg.LLM.CompletionProvider,
		"places":     "google_places",
		"speech":     cfg.Speech.Model,
	})

	app := api.Router(handler, api.RouterConfig{
		BodyLimitMB:  cfg.Server.BodyLimitMB,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	// Start server asynchronously
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Info("Starting %s %s on %s", serviceName, serviceVersion, addr)

		if err := app.Listen(addr); err != nil {
			log.Fatal("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
