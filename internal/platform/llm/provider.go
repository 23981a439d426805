package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ProviderConfig selects and configures the completion provider.
type ProviderConfig struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	CompletionModel string
	GroqAPIKey      string
	GroqModel       string
	OllamaBaseURL   string
	OllamaModel     string
	Timeout         time.Duration
}

// NewCompletionModel builds the llms.Model for the configured provider.
// openai goes through langchaingo directly; groq and ollama use the in-house
// clients behind LangChainAdapter.
func NewCompletionModel(config ProviderConfig) (llms.Model, error) {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	switch config.Provider {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(config.OpenAIAPIKey),
			openai.WithModel(config.CompletionModel),
			openai.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
		}
		if config.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.OpenAIBaseURL))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI completion client: %w", err)
		}
		return model, nil
	case "groq":
		client, err := NewGroqClient(GroqConfig{
			APIKey:          config.GroqAPIKey,
			CompletionModel: config.GroqModel,
			Timeout:         config.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Groq completion client: %w", err)
		}
		return NewLangChainAdapter(client), nil
	case "ollama":
		client := NewOllamaClient(OllamaConfig{
			BaseURL:         config.OllamaBaseURL,
			CompletionModel: config.OllamaModel,
			Timeout:         config.Timeout,
		})
		return NewLangChainAdapter(client), nil
	default:
		return nil, fmt.Errorf("invalid completion provider: %s (supported: openai, groq, ollama)", config.Provider)
	}
}

// CheckHealth checks model's backend. supported is false for models without
// a health check, such as the langchaingo OpenAI client.
func CheckHealth(ctx context.Context, model llms.Model) (supported bool, err error) {
	checker, ok := model.(HealthChecker)
	if !ok {
		return false, nil
	}
	return true, checker.Health(ctx)
}
