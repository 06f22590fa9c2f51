// Package api is the typed request/response boundary to the CGPO backend.
// No business logic lives here; every operation is a single endpoint call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is a CGPO backend API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new backend client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "cgpo").Logger(),
	}
}

// SetBaseURL repoints the client at a different backend.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// BaseURL returns the backend the client is pointed at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Internal helpers

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, target any) error {
	u := c.baseURL + path
	if params != nil {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("Backend rejected request")
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, target)
}

func (c *Client) post(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, target)
}

// Endpoints

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	return h, c.get(ctx, "/health", nil, &h)
}

// Inference runs the full GNN + RL pipeline and returns the proposed
// weights, the correlation graph snapshot and the portfolio metrics.
func (c *Client) Inference(ctx context.Context) (InferenceResult, error) {
	var res InferenceResult
	return res, c.post(ctx, "/ai/inference", nil, &res)
}

// News fetches the multimodal signal feed.
func (c *Client) News(ctx context.Context) ([]Signal, error) {
	var s []Signal
	return s, c.get(ctx, "/market/news", nil, &s)
}

// Benchmark fetches benchmark performance curves for the given period.
// ticker is optional and narrows the response to one symbol.
func (c *Client) Benchmark(ctx context.Context, period, ticker string) (BenchmarkResult, error) {
	params := url.Values{"period": {period}}
	if ticker != "" {
		params.Set("ticker", ticker)
	}
	var res BenchmarkResult
	return res, c.get(ctx, "/market/benchmark", params, &res)
}

// SetTickers replaces the backend's asset universe.
func (c *Client) SetTickers(ctx context.Context, tickers []string) error {
	payload := struct {
		Tickers []string `json:"tickers"`
	}{Tickers: tickers}
	return c.post(ctx, "/config/tickers", payload, nil)
}

// StartTraining asks the backend to start a background training job.
func (c *Client) StartTraining(ctx context.Context, episodes int) error {
	payload := struct {
		Episodes int `json:"episodes"`
	}{Episodes: episodes}
	return c.post(ctx, "/ai/train", payload, nil)
}

// TrainingStatus reports the backend's current training job.
func (c *Client) TrainingStatus(ctx context.Context) (TrainingStatus, error) {
	var st TrainingStatus
	return st, c.get(ctx, "/ai/training-status", nil, &st)
}

// Logs fetches the most recent agent log entries.
func (c *Client) Logs(ctx context.Context, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	return entries, c.get(ctx, "/system/logs", params, &entries)
}
