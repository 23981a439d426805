package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/healthequalizer/api/internal/pkg/log"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	LLM      LLMConfig      `json:"llm"`
	Places   PlacesConfig   `json:"places"`
	Speech   SpeechConfig   `json:"speech"`
	Database DatabaseConfig `json:"database"`
}

type ServerConfig struct {
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	BodyLimitMB  int           `json:"body_limit_mb"`
}

type LLMConfig struct {
	CompletionProvider string        `json:"completion_provider"`
	OpenAIAPIKey       string        `json:"openai_api_key,omitempty"`
	OpenAIBaseURL      string        `json:"openai_base_url,omitempty"`
	CompletionModel    string        `json:"completion_model,omitempty"`
	GroqAPIKey         string        `json:"groq_api_key,omitempty"`
	GroqModel          string        `json:"groq_model,omitempty"`
	OllamaBaseURL      string        `json:"ollama_base_url,omitempty"`
	OllamaModel        string        `json:"ollama_model,omitempty"`
	MaxTokens          int           `json:"max_tokens"`
	Temperature        float64       `json:"temperature"`
	Timeout            time.Duration `json:"timeout"`
}

type PlacesConfig struct {
	APIKey  string        `json:"api_key,omitempty"`
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

type SpeechConfig struct {
	APIKey   string        `json:"api_key,omitempty"`
	BaseURL  string        `json:"base_url,omitempty"`
	Model    string        `json:"model"`
	Language string        `json:"language"`
	Timeout  time.Duration `json:"timeout"`
}

// DatabaseConfig is carried so deployments sharing one .env keep working.
// No handler reads or writes the database.
type DatabaseConfig struct {
	ConnectionString string `json:"connection_string,omitempty"`
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Variables already set in the process win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info(".env file not found, using environment variables and defaults")
	}

	v := newViper()
	v.AutomaticEnv()

	return fromViper(v)
}

// LoadFromMap builds the configuration from an in-memory map instead of the
// process environment, so tests never touch global state.
func LoadFromMap(envMap map[string]string) (*Config, error) {
	v := newViper()
	for key, value := range envMap {
		v.Set(key, value)
	}

	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "5000")
	v.SetDefault("READ_TIMEOUT", "30s")
	v.SetDefault("WRITE_TIMEOUT", "60s")
	v.SetDefault("BODY_LIMIT_MB", 25)

	v.SetDefault("COMPLETION_PROVIDER", "openai")
	v.SetDefault("COMPLETION_MODEL", "gpt-4o-mini")
	v.SetDefault("GROQ_MODEL", "llama3-8b-8192")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "llama3")
	v.SetDefault("COMPLETION_MAX_TOKENS", 150)
	v.SetDefault("COMPLETION_TEMPERATURE", 0.2)

	v.SetDefault("PLACES_BASE_URL", "https://maps.googleapis.com")
	v.SetDefault("PROVIDER_TIMEOUT", "30s")

	v.SetDefault("SPEECH_MODEL", "whisper-1")
	v.SetDefault("SPEECH_LANGUAGE", "en")

	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	providerTimeout := v.GetDuration("PROVIDER_TIMEOUT")

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Host:         v.GetString("HOST"),
			ReadTimeout:  v.GetDuration("READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("WRITE_TIMEOUT"),
			BodyLimitMB:  v.GetInt("BODY_LIMIT_MB"),
		},
		LLM: LLMConfig{
			CompletionProvider: v.GetString("COMPLETION_PROVIDER"),
			OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
			OpenAIBaseURL:      v.GetString("OPENAI_BASE_URL"),
			CompletionModel:    v.GetString("COMPLETION_MODEL"),
			GroqAPIKey:         v.GetString("GROQ_API_KEY"),
			GroqModel:          v.GetString("GROQ_MODEL"),
			OllamaBaseURL:      v.GetString("OLLAMA_BASE_URL"),
			OllamaModel:        v.GetString("OLLAMA_MODEL"),
			MaxTokens:          v.GetInt("COMPLETION_MAX_TOKENS"),
			Temperature:        v.GetFloat64("COMPLETION_TEMPERATURE"),
			Timeout:            providerTimeout,
		},
		Places: PlacesConfig{
			APIKey:  v.GetString("GOOGLE_MAPS_API_KEY"),
			BaseURL: v.GetString("PLACES_BASE_URL"),
			Timeout: providerTimeout,
		},
		Speech: SpeechConfig{
			APIKey:   v.GetString("OPENAI_API_KEY"),
			BaseURL:  v.GetString("OPENAI_BASE_URL"),
			Model:    v.GetString("SPEECH_MODEL"),
			Language: v.GetString("SPEECH_LANGUAGE"),
			Timeout:  providerTimeout,
		},
		Database: DatabaseConfig{
			ConnectionString: v.GetString("DB_CONNECTION_STRING"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.LLM.CompletionProvider {
	case "openai":
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when using OpenAI provider")
		}
	case "groq":
		if c.LLM.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when using Groq provider")
		}
	case "ollama":
		if c.LLM.OllamaBaseURL == "" {
			return fmt.Errorf("OLLAMA_BASE_URL is required when using Ollama provider")
		}
	default:
		return fmt.Errorf("unsupported completion provider: %s (supported: openai, groq, ollama)", c.LLM.CompletionProvider)
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("COMPLETION_MAX_TOKENS must be positive, got %d", c.LLM.MaxTokens)
	}

	if c.Places.APIKey == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}

	if c.Speech.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for speech transcription")
	}

	return nil
}
