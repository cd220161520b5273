// Package config provides configuration for the roast battle service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// LLM settings
	LLMBaseURL    string
	LLMAPIKey     string
	LLMModel      string
	LLMTimeout    time.Duration
	LLMMaxRetries int
}

// Load loads configuration from the environment, reading a .env file first
// when one exists. The default database DSN is a shared in-memory SQLite
// database: nothing survives a restart.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:   getEnv("DATABASE_URL", "file:roastbattle?mode=memory&cache=shared"),
		LLMBaseURL:    getEnv("LLM_BASE_URL", "https://api.groq.com/openai"),
		LLMAPIKey:     getEnv("LLM_API_KEY", os.Getenv("GROQ_API_KEY")),
		LLMModel:      getEnv("LLM_MODEL", "openai/gpt-oss-120b"),
		LLMTimeout:    time.Duration(getEnvInt("LLM_TIMEOUT_MS", 20000)) * time.Millisecond,
		LLMMaxRetries: getEnvInt("LLM_MAX_RETRIES", 1),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
