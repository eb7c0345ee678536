package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port string

	// Storage
	DatabasePath string // SQLite file holding feedback and preference tables
	OutputDir    string // Directory generated .pptx artifacts are written to

	// LLM provider (OpenAI-compatible chat completions API)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Pipeline policy
	TitleFallback         bool // substitute placeholder titles when the model under-delivers
	BodyConcurrency       int  // bounded fan-out for per-slide body generation
	FeedbackRetentionDays int  // ai_feedback rows older than this are purged

	// Styling applied when a request carries no explicit values
	BackgroundColor string // flat slide background, hex
	AllowedOrigins  string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),

		DatabasePath: getEnv("DATABASE_PATH", "./database/feedback.db"),
		OutputDir:    getEnv("OUTPUT_DIR", "./output"),

		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o"),
		LLMTimeout: time.Duration(getIntEnv("LLM_TIMEOUT_SECONDS", 120)) * time.Second,

		TitleFallback:         getBoolEnv("TITLE_FALLBACK", true),
		BodyConcurrency:       getIntEnv("BODY_CONCURRENCY", 4),
		FeedbackRetentionDays: getIntEnv("FEEDBACK_RETENTION_DAYS", 90),

		BackgroundColor: getEnv("BACKGROUND_COLOR", "#FFFFFF"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:8501,http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
