// Package transcription turns uploaded voice questions into text.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/healthequalizer/api/internal/platform/metrics"
)

var (
	ErrMissingAudio = errors.New("audio file is required")
	// ErrNoTranscript covers both an empty transcript and a failed provider
	// call. Callers cannot tell the two apart.
	ErrNoTranscript = errors.New("could not recognize speech")
)

// Transcriber converts an audio payload to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Service relays audio to a Transcriber.
type Service struct {
	transcriber Transcriber
}

// NewService creates a new transcription service instance
func NewService(transcriber Transcriber) *Service {
	return &Service{transcriber: transcriber}
}

// Transcribe returns the transcript for audio. An empty payload fails with
// ErrNoTranscript without contacting the provider.
func (s *Service) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoTranscript
	}

	start := time.Now()
	text, err := s.transcriber.Transcribe(ctx, audio, filename)
	metrics.ObserveProviderCall(metrics.ProviderSpeech, start, err)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoTranscript, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoTranscript
	}
	return text, nil
}
