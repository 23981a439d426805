// Package testutil holds testify mocks for the provider collaborators so
// service and handler tests can run without network access.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tmc/langchaingo/llms"

	"github.com/healthequalizer/api/internal/platform/places"
)

// MockCompletionModel is a mock for LangChainGo's llms.Model interface.
type MockCompletionModel struct {
	mock.Mock
}

var _ llms.Model = (*MockCompletionModel)(nil)

func (m *MockCompletionModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *MockCompletionModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	args := m.Called(ctx, messages, options)
	resp, _ := args.Get(0).(*llms.ContentResponse)
	return resp, args.Error(1)
}

// Completion builds a single-choice response carrying text.
func Completion(text string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	}
}

// PromptText joins the text parts of the messages sent to the model.
func PromptText(messages []llms.MessageContent) string {
	var text string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if textPart, ok := part.(llms.TextContent); ok {
				text += textPart.Text
			}
		}
	}
	return text
}

// AppliedOptions resolves call options into their final values.
func AppliedOptions(options []llms.CallOption) llms.CallOptions {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

// MockPlacesSearcher is a mock for the places nearby search.
type MockPlacesSearcher struct {
	mock.Mock
}

func (m *MockPlacesSearcher) SearchNearby(ctx context.Context, search places.SearchRequest) (*places.Envelope, error) {
	args := m.Called(ctx, search)
	envelope, _ := args.Get(0).(*places.Envelope)
	return envelope, args.Error(1)
}

// MockTranscriber is a mock for the speech-to-text provider.
type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	args := m.Called(ctx, audio, filename)
	return args.String(0), args.Error(1)
}
