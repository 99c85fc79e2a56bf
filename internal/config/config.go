// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Model artifact
	ModelPath    string // serialized scorer (JSON)
	MetadataPath string // companion metadata document (JSON)

	// Decision policy
	FlagThreshold  float64 // scores strictly above this are flagged
	TopRiskFactors int     // how many factors the explainer returns

	// Batch limits
	MaxBatchSize int

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Rate limiting
	RateLimitRPM int

	// Tracing
	OTLPEndpoint string // OTLP gRPC endpoint (optional, tracing disabled if not set)
}

// Defaults
const (
	DefaultPort           = "8000"
	DefaultEnv            = "development"
	DefaultLogLevel       = "info"
	DefaultModelPath      = "models/fraud_model.json"
	DefaultMetadataPath   = "models/fraud_model_metadata.json"
	DefaultFlagThreshold  = 0.5
	DefaultTopRiskFactors = 5
	DefaultMaxBatchSize   = 500
	DefaultRateLimit      = 120
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", DefaultPort),
		Env:            getEnv("ENV", DefaultEnv),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		ModelPath:      getEnv("MODEL_PATH", DefaultModelPath),
		MetadataPath:   getEnv("METADATA_PATH", DefaultMetadataPath),
		FlagThreshold:  getEnvFloat("FLAG_THRESHOLD", DefaultFlagThreshold),
		TopRiskFactors: int(getEnvInt64("TOP_RISK_FACTORS", DefaultTopRiskFactors)),
		MaxBatchSize:   int(getEnvInt64("MAX_BATCH_SIZE", DefaultMaxBatchSize)),
		DatabaseURL:    os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		RateLimitRPM:   int(getEnvInt64("RATE_LIMIT_RPM", DefaultRateLimit)),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and sane
func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.MetadataPath == "" {
		return fmt.Errorf("METADATA_PATH is required")
	}
	if c.FlagThreshold <= 0 || c.FlagThreshold >= 1 {
		return fmt.Errorf("FLAG_THRESHOLD must be strictly between 0 and 1, got %g", c.FlagThreshold)
	}
	if c.TopRiskFactors < 1 {
		return fmt.Errorf("TOP_RISK_FACTORS must be at least 1, got %d", c.TopRiskFactors)
	}
	if c.MaxBatchSize < 1 {
		return fmt.Errorf("MAX_BATCH_SIZE must be at least 1, got %d", c.MaxBatchSize)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
