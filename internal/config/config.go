package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Provider names for the hosted model APIs.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	OpenAIAPIKey string        `env:"OPENAI_API_KEY"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	Provider     string        `env:"BRIEFLY_PROVIDER"     envDefault:"openai"`
	Model        string        `env:"BRIEFLY_MODEL"`
	MaxAttempts  int           `env:"BRIEFLY_MAX_ATTEMPTS" envDefault:"5"`
	BaseDelay    time.Duration `env:"BRIEFLY_BASE_DELAY"   envDefault:"1s"`
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Validate checks that the chosen provider is known and has credentials.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("unknown provider %q (expected %s or %s)",
			c.Provider, ProviderOpenAI, ProviderGemini)
	}

	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.BaseDelay <= 0 {
		return fmt.Errorf("base delay must be positive, got %v", c.BaseDelay)
	}

	return nil
}
