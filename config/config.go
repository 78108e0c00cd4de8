// Package config provides environment-backed configuration for the
// concierge.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the concierge configuration.
type Config struct {
	// Server settings
	Port               int
	RateLimitPerMinute int

	// Database
	DatabaseDSN string

	// Assistant transport
	AssistantBaseURL string
	AssistantAPIKey  string
	AssistantID      string

	// Turn behavior
	PollInterval    time.Duration
	MaxPollAttempts int
	TopK            int

	// Semantic service
	SemanticURL string

	// Skill validation policy: "open" or "closed"
	SkillVocabularyMode string

	// Logging
	LogJSON bool
	Debug   bool
}

// Load reads configuration from environment variables, applying defaults for
// everything but the assistant credentials.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 3000)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 50)
	v.SetDefault("DATABASE_DSN", "file:concierge.db?cache=shared&mode=rwc")
	v.SetDefault("ASSISTANT_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("POLLING_INTERVAL_MS", 1000)
	v.SetDefault("MAX_POLL_ATTEMPTS", 60)
	v.SetDefault("TOP_K", 4)
	v.SetDefault("SEMANTIC_URL", "http://localhost:8000/search")
	v.SetDefault("SKILL_VOCABULARY_MODE", "open")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("DEBUG", false)

	cfg := &Config{
		Port:                v.GetInt("PORT"),
		RateLimitPerMinute:  v.GetInt("RATE_LIMIT_PER_MINUTE"),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		AssistantBaseURL:    v.GetString("ASSISTANT_BASE_URL"),
		AssistantAPIKey:     v.GetString("ASSISTANT_API_KEY"),
		AssistantID:         v.GetString("ASSISTANT_ID"),
		PollInterval:        time.Duration(v.GetInt("POLLING_INTERVAL_MS")) * time.Millisecond,
		MaxPollAttempts:     v.GetInt("MAX_POLL_ATTEMPTS"),
		TopK:                v.GetInt("TOP_K"),
		SemanticURL:         v.GetString("SEMANTIC_URL"),
		SkillVocabularyMode: v.GetString("SKILL_VOCABULARY_MODE"),
		LogJSON:             v.GetBool("LOG_JSON"),
		Debug:               v.GetBool("DEBUG"),
	}

	if cfg.AssistantAPIKey == "" {
		return nil, fmt.Errorf("ASSISTANT_API_KEY is required")
	}
	if cfg.AssistantID == "" {
		return nil, fmt.Errorf("ASSISTANT_ID is required")
	}
	if cfg.SkillVocabularyMode != "open" && cfg.SkillVocabularyMode != "closed" {
		return nil, fmt.Errorf("SKILL_VOCABULARY_MODE must be \"open\" or \"closed\", got %q", cfg.SkillVocabularyMode)
	}

	return cfg, nil
}
