package llm

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// LangChainAdapter adapts an in-house CompletionClient to the LangChainGo
// llms.Model interface so services only ever talk to llms.Model.
type LangChainAdapter struct {
	client CompletionClient
}

// Ensure LangChainAdapter implements llms.Model
var _ llms.Model = (*LangChainAdapter)(nil)

// NewLangChainAdapter creates a new adapter for a CompletionClient
func NewLangChainAdapter(client CompletionClient) *LangChainAdapter {
	return &LangChainAdapter{client: client}
}

// Health checks the wrapped client's backend.
func (a *LangChainAdapter) Health(ctx context.Context) error {
	return a.client.Health(ctx)
}

// Call implements the deprecated Call method for backwards compatibility
func (a *LangChainAdapter) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, a, prompt, options...)
}

// GenerateContent flattens the text parts into one prompt and forwards the
// max-token and temperature options.
func (a *LangChainAdapter) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	var parts []string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if textPart, ok := part.(llms.TextContent); ok {
				parts = append(parts, textPart.Text)
			}
		}
	}

	response, err := a.client.GenerateCompletion(ctx, strings.Join(parts, "\n"), CompletionOptions{
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: response,
			},
		},
	}, nil
}
