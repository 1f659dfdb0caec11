package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	MaxRequestBodySize int64

	// Quiz settings
	ImagesDir        string
	DictionaryPath   string
	DefaultMode      string
	DefaultTimeLimit float64
	RoundTTL         time.Duration

	// Optional Azure blob source
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether the optional Azure blob source is configured.
func (c *Config) AzureEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != ""
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		ImagesDir:          getEnvOrDefault("IMAGES_DIR", "images"),
		DictionaryPath:     getEnvOrDefault("DICTIONARY_PATH", ""),
		DefaultMode:        getEnvOrDefault("DEFAULT_REVEAL_MODE", "blur"),
		DefaultTimeLimit:   parseFloatOrDefault("DEFAULT_TIME_LIMIT", 60.0),
		RoundTTL:           parseDurationOrDefault("ROUND_TTL", 10*time.Minute),
		AzureAccountName:   getEnvOrDefault("AZURE_STORAGE_ACCOUNT", ""),
		AzureAccountKey:    getEnvOrDefault("AZURE_STORAGE_KEY", ""),
	}

	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.ImageFetchTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			cfg.RequestTimeout, cfg.ImageFetchTimeout)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.DefaultMode)) {
	case "blur", "zoom", "hybrid":
	default:
		return nil, fmt.Errorf("invalid DEFAULT_REVEAL_MODE: %q", cfg.DefaultMode)
	}
	if cfg.DefaultTimeLimit <= 0 {
		return nil, fmt.Errorf("DEFAULT_TIME_LIMIT must be > 0 (got %g)", cfg.DefaultTimeLimit)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
