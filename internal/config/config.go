package config

import (
	"os"
	"strconv"

	"gobias/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Figures FiguresConfig
	Limits  LimitsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// FiguresConfig holds figure generation settings
type FiguresConfig struct {
	OutputDir    string
	WorkbookName string
	Concurrency  int64
	ArchivePort  string
}

// LimitsConfig holds resource-management settings
type LimitsConfig struct {
	MaxTrials int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Figures: FiguresConfig{
			OutputDir:    getEnvOrDefault("FIGURES_DIR", "./figures"),
			WorkbookName: getEnvOrDefault("FIGURES_WORKBOOK", "binomial_bias.xlsx"),
			Concurrency:  int64(getEnvIntOrDefault("FIGURES_CONCURRENCY", 3)),
			ArchivePort:  getEnvOrDefault("ARCHIVE_PORT", "8081"),
		},
		Limits: LimitsConfig{
			MaxTrials: getEnvIntOrDefault("MAX_TRIALS", 1_000_000),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Figures.OutputDir == "" {
		return errors.ConfigInvalid("figures output directory is required")
	}
	if config.Figures.Concurrency < 1 {
		return errors.ConfigInvalid("figures concurrency must be at least 1")
	}
	if config.Limits.MaxTrials < 2 {
		return errors.ConfigInvalid("max trials must be at least 2")
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
