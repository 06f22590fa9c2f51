package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.FeedInterval)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 50, cfg.TrainingEpisodes)
	assert.Equal(t, DefaultTickers, cfg.Tickers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CGPO_API_URL", "http://backend:9090")
	t.Setenv("CGPO_REFRESH_INTERVAL", "45s")
	t.Setenv("CGPO_TICKERS", "aapl, nvda ,msft")
	t.Setenv("CGPO_TRAINING_EPISODES", "200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9090", cfg.APIURL)
	assert.Equal(t, 45*time.Second, cfg.RefreshInterval)
	assert.Equal(t, []string{"AAPL", "NVDA", "MSFT"}, cfg.Tickers)
	assert.Equal(t, 200, cfg.TrainingEpisodes)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("CGPO_REFRESH_INTERVAL", "not-a-duration")
	t.Setenv("CGPO_TRAINING_EPISODES", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 50, cfg.TrainingEpisodes)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"invalid url", func(c *Config) { c.APIURL = "://nope" }, "not a valid URL"},
		{"empty url", func(c *Config) { c.APIURL = "" }, "required"},
		{"empty universe", func(c *Config) { c.Tickers = nil }, "universe"},
		{"zero interval", func(c *Config) { c.PollInterval = 0 }, "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
