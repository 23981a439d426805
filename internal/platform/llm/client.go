package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrRateLimited is matched by APIError for HTTP 429 responses.
var ErrRateLimited = errors.New("completion provider rate limit exceeded")

// langchaingo's openai client reports failures only as text, formatted as
// "API returned unexpected status code: <code>: <message>".
const (
	quotaExceededPhrase = "You exceeded your current quota"
	tooManyRequestsText = "status code: 429"
)

// CompletionOptions bounds a single completion request.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// APIError is a non-200 answer from a completion provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrRateLimited) match 429 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err signals a quota or rate-limit condition:
// a 429 from any provider or OpenAI's quota wording. The text checks are a
// heuristic over langchaingo error messages.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, tooManyRequestsText) || strings.Contains(msg, quotaExceededPhrase)
}

// postJSON sends payload to url and decodes a 200 body into out. Any other
// status becomes an *APIError carrying the provider's message.
func postJSON(ctx context.Context, httpClient *http.Client, provider, url string, header http.Header, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", provider, err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", provider, err)
	}
	return nil
}

// errorMessage pulls the message out of {"error":{"message":...}} (OpenAI
// style) or {"error":"..."} (Ollama style), falling back to the raw body.
func errorMessage(raw []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(envelope.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}
	return strings.TrimSpace(string(raw))
}
