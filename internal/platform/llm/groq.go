package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultGroqURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqClient talks to Groq's OpenAI-compatible chat completions endpoint.
type GroqClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
}

var _ CompletionClient = (*GroqClient)(nil)

// GroqConfig contains Groq client configuration
type GroqConfig struct {
	APIKey          string
	APIURL          string
	CompletionModel string
	Timeout         time.Duration
}

// NewGroqClient creates a new client for interacting with the Groq API.
func NewGroqClient(config GroqConfig) (*GroqClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Groq API key is required")
	}
	if config.APIURL == "" {
		config.APIURL = defaultGroqURL
	}
	if config.CompletionModel == "" {
		config.CompletionModel = "llama3-8b-8192"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &GroqClient{
		apiKey:     config.APIKey,
		apiURL:     config.APIURL,
		model:      config.CompletionModel,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateCompletion sends prompt as a single user message.
func (c *GroqClient) GenerateCompletion(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	var resp chatResponse
	err := postJSON(ctx, c.httpClient, "groq", c.apiURL, header, chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("received no choices from groq")
	}
	return resp.Choices[0].Message.Content, nil
}

// Health issues a one-token completion.
func (c *GroqClient) Health(ctx context.Context) error {
	if _, err := c.GenerateCompletion(ctx, "ping", CompletionOptions{MaxTokens: 1}); err != nil {
		return fmt.Errorf("groq health check failed: %w", err)
	}
	return nil
}
