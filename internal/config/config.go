package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	minAITimeout = 5 * time.Second
	maxAITimeout = 30 * time.Second
)

// Config holds application configuration
type Config struct {
	// Server
	Port        string
	Env         string
	CORSOrigins []string

	// AI provider
	AIProvider     string
	AITimeout      time.Duration
	MistralAPIKey  string
	MistralModel   string
	MistralBaseURL string
	YandexAPIKey   string
	YandexFolderID string
	YandexModel    string
	YandexBaseURL  string
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:        getEnv("PORT", "5001"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		AIProvider:     strings.ToLower(getEnv("AI_PROVIDER", "mistral")),
		MistralAPIKey:  getEnv("MISTRAL_API_KEY", ""),
		MistralModel:   getEnv("MISTRAL_MODEL", "mistral-small-latest"),
		MistralBaseURL: getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		YandexAPIKey:   getEnv("YANDEX_API_KEY", ""),
		YandexFolderID: getEnv("YANDEX_FOLDER_ID", ""),
		YandexModel:    getEnv("YANDEX_MODEL", "yandexgpt-lite"),
		YandexBaseURL:  getEnv("YANDEX_BASE_URL", "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"),
	}

	timeoutStr := getEnv("AI_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Printf("Warning: invalid AI_TIMEOUT value '%s', falling back to 30s\n", timeoutStr)
		timeout = maxAITimeout
	}
	config.AITimeout = clampTimeout(timeout)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func clampTimeout(d time.Duration) time.Duration {
	if d < minAITimeout {
		return minAITimeout
	}
	if d > maxAITimeout {
		return maxAITimeout
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
