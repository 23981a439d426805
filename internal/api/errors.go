package api

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/healthequalizer/api/internal/healthquery"
	"github.com/healthequalizer/api/internal/locator"
	"github.com/healthequalizer/api/internal/pkg/log"
	"github.com/healthequalizer/api/internal/transcription"
)

// Client-facing error messages.
const (
	MsgQueryRequired      = "Query is required"
	MsgNotHealthRelated   = "Please ask a health-related question."
	MsgQuotaExceeded      = "The service is temporarily unavailable. Please try again later."
	MsgQueryFailed        = "An error occurred while processing your query."
	MsgLocationRequired   = "Location parameter is required"
	MsgInvalidLocation    = "Invalid location format. Expected 'lat,lng'"
	MsgProvidersFailed    = "Failed to fetch providers"
	MsgAudioRequired      = "Audio file is required"
	MsgSpeechUnrecognized = "Could not recognize speech"
	MsgInternal           = "Internal server error"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleServiceError maps service errors to HTTP responses. Client mistakes
// are logged as warnings and provider failures as errors, both with the
// request id.
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	ctx := c.UserContext()

	switch {
	case errors.Is(err, healthquery.ErrEmptyQuery):
		return HandleValidationError(c, MsgQueryRequired)
	case errors.Is(err, healthquery.ErrNotHealthRelated):
		return HandleValidationError(c, MsgNotHealthRelated)
	case errors.Is(err, healthquery.ErrQuotaExceeded):
		log.ErrorWithContext(ctx, "completion quota exceeded: %v", err)
		return c.Status(http.StatusTooManyRequests).JSON(ErrorResponse{Error: MsgQuotaExceeded})
	case errors.Is(err, healthquery.ErrProvider):
		log.ErrorWithContext(ctx, "completion request failed: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: MsgQueryFailed})

	case errors.Is(err, locator.ErrMissingLocation):
		return HandleValidationError(c, MsgLocationRequired)
	case errors.Is(err, locator.ErrInvalidLocation):
		return HandleValidationError(c, MsgInvalidLocation)
	case errors.Is(err, locator.ErrProvider):
		log.ErrorWithContext(ctx, "places search failed: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: MsgProvidersFailed})

	case errors.Is(err, transcription.ErrMissingAudio):
		return HandleValidationError(c, MsgAudioRequired)
	case errors.Is(err, transcription.ErrNoTranscript):
		log.WarnWithContext(ctx, "speech not recognized: %v", err)
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: MsgSpeechUnrecognized})

	default:
		log.ErrorWithContext(ctx, "unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{Error: MsgInternal})
	}
}

// HandleValidationError responds 400 with message.
func HandleValidationError(c *fiber.Ctx, message string) error {
	log.WarnWithContext(c.UserContext(), "rejected %s %s: %s", c.Method(), c.Path(), message)
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{Error: message})
}

// ErrorHandler renders errors that escape handlers, such as unknown routes
// or oversized bodies, in the ErrorResponse shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := MsgInternal

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		log.ErrorWithContext(c.UserContext(), "request %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}
