package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const nearbySearchPath = "/maps/api/place/nearbysearch/json"

// Statuses reported in the Places envelope.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// Client calls the Google Places Nearby Search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the places client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SearchRequest describes one nearby search.
type SearchRequest struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Type         string
}

// Envelope is the full Nearby Search response. Results are kept as raw JSON
// so callers can relay them unmodified.
type Envelope struct {
	Results          []json.RawMessage `json:"results"`
	Status           string            `json:"status"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	NextPageToken    string            `json:"next_page_token,omitempty"`
	HTMLAttributions []string          `json:"html_attributions,omitempty"`
}

// NewClient creates a new places client instance
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Google Maps API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://maps.googleapis.com"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// SearchNearby runs a nearby search and returns the decoded envelope.
// Any status other than OK or ZERO_RESULTS is an error.
func (c *Client) SearchNearby(ctx context.Context, search SearchRequest) (*Envelope, error) {
	params := url.Values{}
	params.Set("location", formatDegrees(search.Lat)+","+formatDegrees(search.Lng))
	params.Set("radius", strconv.Itoa(search.RadiusMeters))
	if search.Type != "" {
		params.Set("type", search.Type)
	}
	params.Set("key", c.apiKey)

	reqURL := c.baseURL + nearbySearchPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create places request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Google Places API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Google Places API error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse Google Places response: %w", err)
	}

	switch envelope.Status {
	case StatusOK, StatusZeroResults:
	default:
		if envelope.ErrorMessage != "" {
			return nil, fmt.Errorf("google places status %s: %s", envelope.Status, envelope.ErrorMessage)
		}
		return nil, fmt.Errorf("google places status: %s", envelope.Status)
	}

	if envelope.Results == nil {
		envelope.Results = []json.RawMessage{}
	}

	return &envelope, nil
}

// formatDegrees keeps every significant digit of a coordinate.
func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
