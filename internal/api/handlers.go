package api

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/healthequalizer/api/internal/healthquery"
	"github.com/healthequalizer/api/internal/transcription"
)

const (
	welcomeMessage   = "Welcome to the Health Equalizer API!"
	emergencyMessage = "If you are experiencing a medical emergency, call your local emergency number (911 in the US, 112 in the EU) immediately."
)

// HealthQuerier answers a free-text health question.
type HealthQuerier interface {
	Ask(ctx context.Context, query string) (string, error)
}

// ProviderFinder lists healthcare providers near a "lat,lng" location.
type ProviderFinder interface {
	FindHospitals(ctx context.Context, location string) ([]json.RawMessage, error)
}

// SpeechTranscriber turns an audio upload into text.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Handler serves the Health Equalizer endpoints.
type Handler struct {
	queries     HealthQuerier
	providers   ProviderFinder
	transcriber SpeechTranscriber
	services    map[string]string
}

// NewHandler wires the handler to its services. services names the
// configured backends and is reported by the health endpoint.
func NewHandler(queries HealthQuerier, providers ProviderFinder, transcriber SpeechTranscriber, services map[string]string) *Handler {
	return &Handler{
		queries:     queries,
		providers:   providers,
		transcriber: transcriber,
		services:    services,
	}
}

type HealthQueryRequest struct {
	Query string `json:"query"`
}

type TranscriptResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

func (h *Handler) Home(c *fiber.Ctx) error {
	return c.SendString(welcomeMessage)
}

func (h *Handler) Emergency(c *fiber.Ctx) error {
	return c.SendString(emergencyMessage)
}

func (h *Handler) HealthQueriesInfo(c *fiber.Ctx) error {
	return c.SendString(healthquery.Instructions)
}

// AskHealthQuery answers a JSON {"query": ...} body with the answer encoded
// as a JSON string.
func (h *Handler) AskHealthQuery(c *fiber.Ctx) error {
	var req HealthQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return HandleValidationError(c, MsgQueryRequired)
	}

	answer, err := h.queries.Ask(c.UserContext(), req.Query)
	if err != nil {
		return HandleServiceError(c, err)
	}

	return c.JSON(answer)
}

// Providers relays the place records around the location query parameter.
func (h *Handler) Providers(c *fiber.Ctx) error {
	results, err := h.providers.FindHospitals(c.UserContext(), c.Query("location"))
	if err != nil {
		return HandleServiceError(c, err)
	}

	return c.JSON(results)
}

// TranscribeAudio transcribes the multipart "audio" field.
func (h *Handler) TranscribeAudio(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleServiceError(c, transcription.ErrMissingAudio)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleServiceError(c, err)
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return HandleServiceError(c, err)
	}

	text, err := h.transcriber.Transcribe(c.UserContext(), audio, fileHeader.Filename)
	if err != nil {
		return HandleServiceError(c, err)
	}

	return c.JSON(TranscriptResponse{Message: text})
}

// Health reports liveness without calling any provider.
func (h *Handler) Health(c *fiber.Ctx) error {
	services := map[string]string{"api": "healthy"}
	for name, backend := range h.services {
		services[name] = backend
	}

	return c.JSON(HealthResponse{
		Status:   "healthy",
		Services: services,
	})
}
