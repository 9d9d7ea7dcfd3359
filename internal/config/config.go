package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Catalog
	DatabaseURL string

	// Storage
	FileDir    string
	StagingDir string

	// Public URI prefix for registered artifacts
	FileServeURL string

	// External converters
	SofficeBin     string
	PdftocairoBin  string
	ConvertTimeout time.Duration

	// Logging
	LogFile string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		FileDir:    getEnv("FILE_DIR", "./public/"),
		StagingDir: getEnv("STAGING_DIR", "./staging/"),

		FileServeURL: getEnv("FILE_SERVE_URL", "/file/serve"),

		SofficeBin:     getEnv("SOFFICE_BIN", "soffice"),
		PdftocairoBin:  getEnv("PDFTOCAIRO_BIN", "/usr/bin/pdftocairo"),
		ConvertTimeout: getDurationEnv("CONVERT_TIMEOUT_SECONDS", 120*time.Second),

		LogFile: getEnv("LOG_FILE", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.FileDir == "" {
		return fmt.Errorf("FILE_DIR is required")
	}
	if c.StagingDir == "" {
		return fmt.Errorf("STAGING_DIR is required")
	}
	if c.ConvertTimeout <= 0 {
		return fmt.Errorf("CONVERT_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
