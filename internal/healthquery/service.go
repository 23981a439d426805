package healthquery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/healthequalizer/api/internal/platform/llm"
	"github.com/healthequalizer/api/internal/platform/metrics"
)

var (
	ErrEmptyQuery       = errors.New("query is required")
	ErrNotHealthRelated = errors.New("query is not related to health")
	ErrQuotaExceeded    = errors.New("completion provider quota exceeded")
	ErrProvider         = errors.New("completion provider failed")
)

// Instructions is returned on GET /health_queries.
const Instructions = `Send a POST request with a JSON body such as {"query": "What are the symptoms of dehydration?"} to ask a health-related question.`

// notHealthRelatedPhrase is matched against free-text completions when the
// model ignores the JSON format. It must stay in sync with the prompt below.
const notHealthRelatedPhrase = "not related to health"

const relevancePrompt = `You are a careful medical information assistant for the Health Equalizer service.

First decide whether the user's query is related to health, medicine, wellness or access to healthcare.
- If it is NOT related to health, set "health_related" to false and set "answer" to "This query is not related to health."
- If it is related to health, set "health_related" to true and put a concise, accurate answer in "answer". Recommend seeing a professional when symptoms sound serious.

You MUST respond with ONLY a valid JSON object in this exact format, with no additional text:
{"health_related": true or false, "answer": "your answer"}

Query:
"""
{{.query}}
"""`

// Config holds health query service configuration
type Config struct {
	MaxTokens   int
	Temperature float64
}

// Verdict is the structured answer requested from the completion provider.
type Verdict struct {
	HealthRelated bool   `json:"health_related"`
	Answer        string `json:"answer"`
}

type rawVerdict struct {
	HealthRelated *bool  `json:"health_related"`
	Answer        string `json:"answer"`
}

// Service answers health questions through a completion provider.
type Service struct {
	compClient  llms.Model
	prompt      prompts.PromptTemplate
	maxTokens   int
	temperature float64
}

// NewService creates a new health query service instance
func NewService(compClient llms.Model, config Config) *Service {
	if config.MaxTokens <= 0 {
		config.MaxTokens = 150
	}

	return &Service{
		compClient:  compClient,
		prompt:      prompts.NewPromptTemplate(relevancePrompt, []string{"query"}),
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
	}
}

// Ask wraps query in the relevance prompt and returns the answer. Blank
// queries fail before the provider is contacted.
func (s *Service) Ask(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}

	formattedPrompt, err := s.prompt.Format(map[string]any{
		"query": query,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format health query prompt: %w", err)
	}

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, s.compClient, formattedPrompt,
		llms.WithMaxTokens(s.maxTokens),
		llms.WithTemperature(s.temperature),
	)
	metrics.ObserveProviderCall(metrics.ProviderCompletion, start, err)
	if err != nil {
		if llm.IsRateLimited(err) {
			return "", fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}

	verdict := ParseVerdict(response)
	if !verdict.HealthRelated {
		return "", ErrNotHealthRelated
	}
	if verdict.Answer == "" {
		return "", fmt.Errorf("%w: empty answer", ErrProvider)
	}

	return verdict.Answer, nil
}

var (
	relevanceFlag = regexp.MustCompile(`"health_related"\s*:\s*(true|false)`)
	answerField   = regexp.MustCompile(`"answer"\s*:\s*"`)

	rawControlChars = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)
)

// ParseVerdict decodes the JSON verdict. A verdict cut off by the token
// limit is read field by field. When the model answered in free text
// instead, the answer is the trimmed text and relevance falls back to
// looking for the "not related to health" phrase. JSON text is never
// returned as the answer.
func ParseVerdict(response string) Verdict {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start >= 0 && end > start {
		var raw rawVerdict
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err == nil {
			if raw.HealthRelated != nil {
				return Verdict{
					HealthRelated: *raw.HealthRelated,
					Answer:        strings.TrimSpace(raw.Answer),
				}
			}
			if answer := strings.TrimSpace(raw.Answer); answer != "" {
				return freeTextVerdict(answer)
			}
		}
	}

	if strings.HasPrefix(cleaned, "{") {
		return fragmentVerdict(cleaned)
	}

	return freeTextVerdict(strings.TrimSpace(response))
}

func freeTextVerdict(text string) Verdict {
	return Verdict{
		HealthRelated: !strings.Contains(strings.ToLower(text), notHealthRelatedPhrase),
		Answer:        text,
	}
}

// fragmentVerdict reads an unterminated JSON verdict. A fragment with no
// readable answer yields an empty Answer.
func fragmentVerdict(fragment string) Verdict {
	var answer string
	if loc := answerField.FindStringIndex(fragment); loc != nil {
		answer = partialJSONString(fragment[loc[1]:])
	}

	if m := relevanceFlag.FindStringSubmatch(fragment); m != nil {
		return Verdict{HealthRelated: m[1] == "true", Answer: answer}
	}
	if answer == "" {
		return Verdict{HealthRelated: true}
	}
	return freeTextVerdict(answer)
}

// partialJSONString decodes the body of a JSON string literal whose closing
// quote may be missing. An escape sequence cut in half is dropped.
func partialJSONString(s string) string {
	end := len(s)
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			end = i
			break
		}
		if s[i] != '\\' {
			continue
		}
		width := 2
		if i+1 < len(s) && s[i+1] == 'u' {
			width = 6
		}
		if i+width > len(s) {
			end = i
			break
		}
		i += width - 1
	}

	body := rawControlChars.Replace(s[:end])

	var decoded string
	if err := json.Unmarshal([]byte(`"`+body+`"`), &decoded); err != nil {
		return ""
	}
	return strings.TrimSpace(decoded)
}
