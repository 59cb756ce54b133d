// Package config provides environment variable loading for the ConstructIQ clients.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the web client and the CLI.
type Config struct {
	// Backend API
	APIBaseURL string

	// Web client
	Addr          string
	BaseURL       string
	SessionSecret string
	PageSize      int

	// Optional Postgres session store
	DatabaseURL string

	// R2 storage for exports
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string

	// CLI
	CLIConfigPath string

	LogLevel string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (for local development).
func Load() *Config {
	// Load .env file if present (ignore errors - file may not exist in production)
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8001"), "/"),
		Addr:              getEnv("CLIENT_ADDR", ":8080"),
		BaseURL:           strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		PageSize:          getEnvInt("PAGE_SIZE", 10),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:          getEnv("R2_BUCKET", "constructiq-exports"),
		CLIConfigPath:     getEnv("CLI_CONFIG", defaultCLIConfigPath()),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

// R2Configured reports whether export storage credentials are present.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != ""
}

func defaultCLIConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".constructiq.yaml"
	}
	return filepath.Join(dir, "constructiq", "credentials.yaml")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

// SlogLevel parses LogLevel, falling back to info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
