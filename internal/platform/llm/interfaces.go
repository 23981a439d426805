package llm

import "context"

// CompletionClient is responsible for generating text responses from a prompt.
type CompletionClient interface {
	GenerateCompletion(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
	Health(ctx context.Context) error
}

// HealthChecker is implemented by completion models that can check their
// backend.
type HealthChecker interface {
	Health(ctx context.Context) error
}
