package healthquery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/healthequalizer/api/internal/platform/llm"
	"github.com/healthequalizer/api/internal/testutil"
)

func TestAsk_HealthRelated(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything,
		mock.MatchedBy(func(messages []llms.MessageContent) bool {
			return strings.Contains(testutil.PromptText(messages), "What causes migraines?")
		}),
		mock.MatchedBy(func(options []llms.CallOption) bool {
			opts := testutil.AppliedOptions(options)
			return opts.MaxTokens == 150 && opts.Temperature == 0.2
		}),
	).Return(testutil.Completion(`{"health_related": true, "answer": "  Triggers include stress and poor sleep.  "}`), nil)

	service := NewService(model, Config{MaxTokens: 150, Temperature: 0.2})

	answer, err := service.Ask(context.Background(), "What causes migraines?")

	require.NoError(t, err)
	assert.Equal(t, "Triggers include stress and poor sleep.", answer)
	model.AssertExpectations(t)
}

func TestAsk_EmptyQuery_NoProviderCall(t *testing.T) {
	for _, query := range []string{"", "   \n\t"} {
		model := new(testutil.MockCompletionModel)
		service := NewService(model, Config{})

		_, err := service.Ask(context.Background(), query)

		assert.ErrorIs(t, err, ErrEmptyQuery)
		model.AssertNotCalled(t, "GenerateContent", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestAsk_NotHealthRelated_FreeText(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.Completion("climate change is not related to health..."), nil)

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Tell me about climate change")

	assert.ErrorIs(t, err, ErrNotHealthRelated)
}

func TestAsk_NotHealthRelated_Structured(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.Completion(`{"health_related": false, "answer": "This query is not related to health."}`), nil)

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Who won the 1998 world cup?")

	assert.ErrorIs(t, err, ErrNotHealthRelated)
}

func TestAsk_QuotaExceeded(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("API returned unexpected status code: 429: You exceeded your current quota, please check your plan and billing details."))

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Is ibuprofen safe?")

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.NotErrorIs(t, err, ErrProvider)
}

func TestAsk_OpenAIRateLimit(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("API returned unexpected status code: 429: Rate limit reached for gpt-4o-mini on requests per min (RPM): Limit 3, Used 3, Requested 1."))

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Is ibuprofen safe?")

	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestAsk_RateLimitedSentinel(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, llm.ErrRateLimited)

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Is ibuprofen safe?")

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.ErrorIs(t, err, llm.ErrRateLimited)
}

func TestAsk_ProviderFailure(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Is ibuprofen safe?")

	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsk_EmptyAnswer(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.Completion("   "), nil)

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Is ibuprofen safe?")

	assert.ErrorIs(t, err, ErrProvider)
}

func TestAsk_TruncatedVerdict(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.Completion(`{"health_related": true, "answer": "Dehydration symptoms include thirst, dark urine, fatigue and`), nil)

	service := NewService(model, Config{})

	answer, err := service.Ask(context.Background(), "What are the symptoms of dehydration?")

	require.NoError(t, err)
	assert.Equal(t, "Dehydration symptoms include thirst, dark urine, fatigue and", answer)
	assert.NotContains(t, answer, "health_related")
}

func TestAsk_TruncatedRejection(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.Completion(`{"health_related": false, "answer": "This query is not related to he`), nil)

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Best pizza in town?")

	assert.ErrorIs(t, err, ErrNotHealthRelated)
}

func TestAsk_TruncatedWithoutAnswer(t *testing.T) {
	model := new(testutil.MockCompletionModel)
	model.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(testutil.Completion(`{"health_related": true, "ans`), nil)

	service := NewService(model, Config{})

	_, err := service.Ask(context.Background(), "Is ibuprofen safe?")

	assert.ErrorIs(t, err, ErrProvider)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Verdict
	}{
		{
			name:     "plain json",
			response: `{"health_related": true, "answer": "Drink water."}`,
			want:     Verdict{HealthRelated: true, Answer: "Drink water."},
		},
		{
			name:     "fenced json",
			response: "```json\n{\"health_related\": false, \"answer\": \"This query is not related to health.\"}\n```",
			want:     Verdict{HealthRelated: false, Answer: "This query is not related to health."},
		},
		{
			name:     "json with preamble",
			response: `Sure! {"health_related": true, "answer": "Rest."}`,
			want:     Verdict{HealthRelated: true, Answer: "Rest."},
		},
		{
			name:     "free text answer",
			response: "\n  Vitamin C may shorten colds slightly.  ",
			want:     Verdict{HealthRelated: true, Answer: "Vitamin C may shorten colds slightly."},
		},
		{
			name:     "free text rejection",
			response: "This query is Not Related To Health.",
			want:     Verdict{HealthRelated: false, Answer: "This query is Not Related To Health."},
		},
		{
			name:     "json without relevance flag uses answer text",
			response: `{"answer": "Sleep more."}`,
			want:     Verdict{HealthRelated: true, Answer: "Sleep more."},
		},
		{
			name:     "cut off at token limit",
			response: `{"health_related": true, "answer": "Dehydration symptoms include thirst, dark urine, fatigue and`,
			want:     Verdict{HealthRelated: true, Answer: "Dehydration symptoms include thirst, dark urine, fatigue and"},
		},
		{
			name:     "cut off rejection",
			response: `{"health_related": false, "answer": "This query is not related to he`,
			want:     Verdict{HealthRelated: false, Answer: "This query is not related to he"},
		},
		{
			name:     "cut off inside fence",
			response: "```json\n{\"health_related\": true, \"answer\": \"Line one.\nLine \\\"two",
			want:     Verdict{HealthRelated: true, Answer: "Line one.\nLine \"two"},
		},
		{
			name:     "cut off mid escape",
			response: `{"health_related": true, "answer": "Use caf\u00`,
			want:     Verdict{HealthRelated: true, Answer: "Use caf"},
		},
		{
			name:     "cut off before answer",
			response: `{"health_related": tr`,
			want:     Verdict{HealthRelated: true, Answer: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVerdict(tt.response))
		})
	}
}
