// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server       ServerConfig
	Cache        CacheConfig
	DocDB        DocDBConfig
	LLM          LLMConfig
	Entitlements EntitlementsConfig
	Consult      ConsultConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds session-cache configuration.
type CacheConfig struct {
	Type          string
	Host          string
	Port          string
	Password      string
	DB            int
	SessionTTL    time.Duration
	EncryptionKey string
}

// DocDBConfig holds the encounter-archive database configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// LLMConfig holds text-generation client configuration.
type LLMConfig struct {
	Type        string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// EntitlementsConfig holds the identity and billing gate configuration.
type EntitlementsConfig struct {
	URL        string
	ServiceKey string
	Timeout    time.Duration
}

// ConsultConfig holds the consultation tuning constants. These are arbitrary
// tuning values with no documented rationale, so they stay configurable
// rather than hard-coded.
type ConsultConfig struct {
	// ReinforcementInterval is the user-message modulus that triggers the
	// stay-in-character reinforcement message.
	ReinforcementInterval int
	// MinExamUserMessages is the minimum number of user turns before a
	// physical exam can be requested.
	MinExamUserMessages int
	// MinMessageLength is the minimum user-input length (in runes) before the
	// sanitizer substitutes the clarification prompt.
	MinMessageLength int
	// ExamContextMessages is how many recent user messages ground the exam.
	ExamContextMessages int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:    getEnvAsInt("SERVER_PORT", 8080),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Cache: CacheConfig{
			Type:          getEnv("CACHE_TYPE", "redis"),
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_SECONDS", 7200)) * time.Second,
			EncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", ""),
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "consultsim"),
		},
		LLM: LLMConfig{
			Type:        getEnv("LLM_TYPE", "openai"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4-turbo"),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.8),
			Timeout:     time.Duration(getEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Entitlements: EntitlementsConfig{
			URL:        getEnv("ENTITLEMENTS_SERVICE_URL", "http://localhost:8081"),
			ServiceKey: getEnv("ENTITLEMENTS_SERVICE_KEY", ""),
			Timeout:    time.Duration(getEnvAsInt("ENTITLEMENTS_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Consult: ConsultConfig{
			ReinforcementInterval: getEnvAsInt("CONSULT_REINFORCEMENT_INTERVAL", 3),
			MinExamUserMessages:   getEnvAsInt("CONSULT_MIN_EXAM_USER_MESSAGES", 2),
			MinMessageLength:      getEnvAsInt("CONSULT_MIN_MESSAGE_LENGTH", 3),
			ExamContextMessages:   getEnvAsInt("CONSULT_EXAM_CONTEXT_MESSAGES", 3),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat32 gets an environment variable as a float32 with a default value.
func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}
