// Package config provides configuration loading and validation for the
// server and its collaborators.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration, loaded from environment
// variables. GEMINI_API_KEY and DATABASE_URL are required; everything else
// has a default or is optional.
type Config struct {
	Port        int
	DatabaseURL string

	GeminiAPIKey string

	// SerpAPIKey enables the real job-search provider. When empty the
	// server falls back to the simulated tool.
	SerpAPIKey string

	// S3 settings for profile file uploads. Uploads are disabled when the
	// bucket is empty.
	S3Bucket string
	S3Region string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		port = p
	}

	cfg := &Config{
		Port:         port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		SerpAPIKey:   os.Getenv("SERPAPI_API_KEY"),
		S3Bucket:     os.Getenv("S3_BUCKET"),
		S3Region:     os.Getenv("S3_REGION"),
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "us-east-1"
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *Config) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required but not set")
	}
	return nil
}
