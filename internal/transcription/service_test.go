package transcription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/healthequalizer/api/internal/testutil"
)

func TestTranscribe_Success(t *testing.T) {
	transcriber := new(testutil.MockTranscriber)
	transcriber.On("Transcribe", mock.Anything, []byte("audio-bytes"), "question.webm").
		Return(" What helps with a sore throat? ", nil)

	service := NewService(transcriber)

	text, err := service.Transcribe(context.Background(), []byte("audio-bytes"), "question.webm")

	require.NoError(t, err)
	assert.Equal(t, "What helps with a sore throat?", text)
	transcriber.AssertExpectations(t)
}

func TestTranscribe_EmptyTranscriptAndFailureCollapse(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{name: "empty transcript", text: ""},
		{name: "blank transcript", text: "  \n"},
		{name: "provider failure", err: errors.New("whisper transcription failed: status 500")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcriber := new(testutil.MockTranscriber)
			transcriber.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).Return(tt.text, tt.err)

			service := NewService(transcriber)

			_, err := service.Transcribe(context.Background(), []byte("audio-bytes"), "a.wav")

			assert.ErrorIs(t, err, ErrNoTranscript)
		})
	}
}

func TestTranscribe_EmptyPayload_NoProviderCall(t *testing.T) {
	transcriber := new(testutil.MockTranscriber)
	service := NewService(transcriber)

	_, err := service.Transcribe(context.Background(), nil, "a.wav")

	assert.ErrorIs(t, err, ErrNoTranscript)
	transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
}
