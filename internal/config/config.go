package config

import (
	"os"
	"strconv"

	"equipstats/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Upload    UploadConfig
	Retention RetentionConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// UploadConfig bounds what the upload endpoints accept.
type UploadConfig struct {
	MaxFileSize int64 // bytes
	PreviewRows int
}

// RetentionConfig holds the dataset history policy. MaxDatasets is injected
// here rather than living as a package constant so deployments can vary it.
type RetentionConfig struct {
	MaxDatasets int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Upload: UploadConfig{
			MaxFileSize: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 10*1024*1024)),
			PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 5),
		},
		Retention: RetentionConfig{
			MaxDatasets: getEnvIntOrDefault("MAX_DATASETS", 5),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Retention.MaxDatasets < 1 {
		return errors.ConfigInvalid("MAX_DATASETS must be at least 1")
	}
	if config.Upload.MaxFileSize <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
