package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Secrets   SecretsConfig
	Providers ProvidersConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// SecretsConfig holds the fernet key used to encrypt provider API keys at
// rest. When empty, keys are stored in plaintext.
type SecretsConfig struct {
	FernetKey string
}

// ProvidersConfig holds bootstrap API keys (used until the settings store
// has values) and the fetch budgets for the two quote providers.
type ProvidersConfig struct {
	FinnhubAPIKey      string
	AlphaVantageAPIKey string

	// Concurrent fetches allowed per provider during batch operations.
	PrimaryConcurrency   int
	SecondaryConcurrency int

	// Per-call timeout in seconds for provider HTTP requests.
	RequestTimeoutSeconds int
}

// SchedulerConfig holds the cron expressions for the background price jobs.
// Empty expressions disable the corresponding job.
type SchedulerConfig struct {
	RefreshCron  string
	BackfillCron string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5002"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/networth.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Secrets: SecretsConfig{
			FernetKey: getEnv("FERNET_KEY", ""),
		},
		Providers: ProvidersConfig{
			FinnhubAPIKey:         getEnv("FINNHUB_API_KEY", ""),
			AlphaVantageAPIKey:    getEnv("ALPHAVANTAGE_API_KEY", ""),
			PrimaryConcurrency:    getEnvInt("PRIMARY_CONCURRENCY", 4),
			SecondaryConcurrency:  getEnvInt("SECONDARY_CONCURRENCY", 1),
			RequestTimeoutSeconds: getEnvInt("PROVIDER_TIMEOUT_SECONDS", 15),
		},
		Scheduler: SchedulerConfig{
			RefreshCron:  getEnv("REFRESH_CRON", "0 6 * * *"),
			BackfillCron: getEnv("BACKFILL_CRON", "0 7 * * 1"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
