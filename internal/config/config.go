// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultTickers is the asset universe used until the user applies their own.
// Matches the backend's default universe.
var DefaultTickers = []string{"AAPL", "NVDA", "MSFT", "GOOG", "AMZN", "TSLA", "META", "AMD", "QCOM", "INTC"}

// Config holds application configuration
type Config struct {
	APIURL    string
	CachePath string
	LogFile   string
	LogLevel  string

	// Timers. The primary interval drives inference refreshes, the feed
	// interval drives news/log refreshes, the poll interval drives
	// training-status polling.
	RefreshInterval time.Duration
	FeedInterval    time.Duration
	PollInterval    time.Duration

	// Training episodes requested when the user starts a session.
	TrainingEpisodes int

	// Optional caps on the rendered dashboard size. Zero means use the
	// full terminal.
	MaxWidth  int
	MaxHeight int

	Tickers []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:           getEnv("CGPO_API_URL", "http://localhost:8000"),
		CachePath:        getEnv("CGPO_CACHE_PATH", "./data/terminal-cache.db"),
		LogFile:          getEnv("CGPO_LOG_FILE", "./cgpo-terminal.log"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		RefreshInterval:  getEnvAsDuration("CGPO_REFRESH_INTERVAL", 30*time.Second),
		FeedInterval:     getEnvAsDuration("CGPO_FEED_INTERVAL", 10*time.Second),
		PollInterval:     getEnvAsDuration("CGPO_POLL_INTERVAL", 2*time.Second),
		TrainingEpisodes: getEnvAsInt("CGPO_TRAINING_EPISODES", 50),
		MaxWidth:         getEnvAsInt("CGPO_MAX_WIDTH", 0),
		MaxHeight:        getEnvAsInt("CGPO_MAX_HEIGHT", 0),
		Tickers:          getEnvAsList("CGPO_TICKERS", DefaultTickers),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("CGPO_API_URL is required")
	}
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("CGPO_API_URL is not a valid URL: %w", err)
	}
	if len(c.Tickers) == 0 {
		return fmt.Errorf("ticker universe cannot be empty")
	}
	if c.RefreshInterval <= 0 || c.FeedInterval <= 0 || c.PollInterval <= 0 {
		return fmt.Errorf("refresh intervals must be positive")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(strings.ToUpper(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
