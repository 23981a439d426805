package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// OllamaClient generates completions on a local Ollama server.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ CompletionClient = (*OllamaClient)(nil)

// OllamaConfig contains Ollama client configuration
type OllamaConfig struct {
	BaseURL         string
	CompletionModel string
	Timeout         time.Duration
}

func NewOllamaClient(config OllamaConfig) *OllamaClient {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.CompletionModel == "" {
		config.CompletionModel = "llama3"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &OllamaClient{
		baseURL:    config.BaseURL,
		model:      config.CompletionModel,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type ollamaOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options *ollamaOptions `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateCompletion calls /api/generate without streaming.
func (c *OllamaClient) GenerateCompletion(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	payload := ollamaGenerateRequest{
		Model:  c.model,
		Prompt: prompt,
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		payload.Options = &ollamaOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		}
	}

	var resp ollamaGenerateResponse
	if err := postJSON(ctx, c.httpClient, "ollama", c.baseURL+"/api/generate", nil, payload, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Health lists local models via /api/tags.
func (c *OllamaClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create ollama health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not reachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Provider: "ollama", StatusCode: resp.StatusCode, Message: "health check failed"}
	}
	return nil
}
