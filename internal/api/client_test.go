package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zerolog.Nop())
}

func TestClient_Inference(t *testing.T) {
	var gotMethod, gotPath string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"tickers": []string{"AAPL", "MSFT"},
			"weights": map[string]float64{"AAPL": 0.6, "MSFT": 0.4},
			"graph": map[string]any{
				"nodes": []map[string]any{
					{"id": "AAPL", "return": 0.01},
					{"id": "MSFT", "return": -0.01},
				},
				"edges": []map[string]string{
					{"source": "AAPL", "target": "MSFT"},
				},
			},
			"metrics": map[string]float64{
				"expected_return": 0.12,
				"volatility":      0.2,
				"sharpe_ratio":    0.6,
			},
		})
	})

	res, err := c.Inference(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/ai/inference", gotPath)
	assert.Equal(t, []string{"AAPL", "MSFT"}, res.Tickers)
	assert.InDelta(t, 0.6, res.Weights["AAPL"], 1e-9)
	require.Len(t, res.Graph.Nodes, 2)
	assert.Equal(t, "AAPL", res.Graph.Nodes[0].ID)
	assert.InDelta(t, 0.01, res.Graph.Nodes[0].Return, 1e-9)
	require.Len(t, res.Graph.Edges, 1)
	assert.InDelta(t, 0.6, res.Metrics.SharpeRatio, 1e-9)
}

func TestClient_NonOKSurfacesBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"detail":"Failed to fetch live benchmark data"}`))
	})

	_, err := c.Benchmark(context.Background(), "1mo", "")
	require.Error(t, err)
	assert.True(t, IsApplicationError(err))
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "Failed to fetch live benchmark data")
}

func TestClient_ConnectivityErrorIsNotApplicationError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", zerolog.Nop())

	_, err := c.Inference(context.Background())
	require.Error(t, err)
	assert.False(t, IsApplicationError(err))
}

func TestClient_SetTickers(t *testing.T) {
	var gotBody struct {
		Tickers []string `json:"tickers"`
	}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/config/tickers", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"status": "updated"})
	})

	err := c.SetTickers(context.Background(), []string{"AAPL", "TSLA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "TSLA"}, gotBody.Tickers)
}

func TestClient_TrainingStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ai/training-status", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"is_training": true,
			"episode":     3,
			"total":       50,
			"last_reward": 1.25,
		})
	})

	st, err := c.TrainingStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, st.IsTraining)
	assert.Equal(t, 3, st.Episode)
	assert.Equal(t, 50, st.Total)
	assert.InDelta(t, 1.25, st.LastReward, 1e-9)
}

func TestClient_LogsAndNewsParams(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/system/logs":
			assert.Equal(t, "25", r.URL.Query().Get("limit"))
			json.NewEncoder(w).Encode([]map[string]string{
				{"id": "1", "timestamp": "12:00", "type": "INFO", "message": "ok"},
			})
		case "/market/news":
			json.NewEncoder(w).Encode([]map[string]string{
				{"ts": "14:05", "src": "EARNINGS", "title": "NVDA beats", "sent": "POS"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	logs, err := c.Logs(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "INFO", logs[0].Type)

	news, err := c.News(context.Background())
	require.NoError(t, err)
	require.Len(t, news, 1)
	// "title" fills in when "msg" is absent.
	assert.Equal(t, "NVDA beats", news[0].Text())
}

func TestClient_Health(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "online", "service": "cgpo"})
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "online", h.Status)
	assert.Equal(t, "cgpo", h.Service)
}
