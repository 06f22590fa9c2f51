package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/cgpo-terminal/internal/api"
	"github.com/aristath/cgpo-terminal/internal/config"
	"github.com/aristath/cgpo-terminal/internal/store"
	"github.com/aristath/cgpo-terminal/internal/ui"
	"github.com/aristath/cgpo-terminal/pkg/logger"
)

func main() {
	apiURL := flag.String("api-url", "", "CGPO backend URL (overrides CGPO_API_URL)")
	logFile := flag.String("log-file", "", "Log file path (overrides CGPO_LOG_FILE)")
	maxWidth := flag.Int("max-width", 0, "Max columns (0 = no limit)")
	maxHeight := flag.Int("max-height", 0, "Max rows (0 = no limit)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *maxWidth > 0 {
		cfg.MaxWidth = *maxWidth
	}
	if *maxHeight > 0 {
		cfg.MaxHeight = *maxHeight
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// The terminal owns stdout, so logs go to a file.
	logOut, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logOut.Close()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Out: logOut})
	logger.SetGlobalLogger(log)
	log.Info().Str("api_url", cfg.APIURL).Msg("Starting CGPO terminal")

	cache, err := store.Open(cfg.CachePath, log)
	if err != nil {
		// The dashboard works without the cache, it just starts cold.
		log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		cache = nil
	} else {
		defer cache.Close()
	}

	client := api.NewClient(cfg.APIURL, log)
	m := ui.NewModel(cfg, client, cache, log)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
