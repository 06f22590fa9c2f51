package api

// Response types for the CGPO backend.

// GraphNode is one asset in the correlation graph. Return is the latest
// one-step return, used by the risk map for coloring.
type GraphNode struct {
	ID     string  `json:"id"`
	Return float64 `json:"return"`
}

// GraphEdge links two assets whose return correlation crossed the backend's
// threshold. Undirected; either endpoint ordering may appear.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a complete snapshot of the correlation network.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Metrics summarizes the proposed portfolio.
type Metrics struct {
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
}

// InferenceResult is the full GNN + RL pipeline output.
type InferenceResult struct {
	Tickers []string           `json:"tickers"`
	Weights map[string]float64 `json:"weights"`
	Graph   Graph              `json:"graph"`
	Metrics Metrics            `json:"metrics"`
}

// Signal is one multimodal intelligence feed item. The backend emits either
// "msg" or "title" depending on the upstream source.
type Signal struct {
	TS    string `json:"ts"`
	Src   string `json:"src"`
	Msg   string `json:"msg"`
	Title string `json:"title"`
	Sent  string `json:"sent"` // POS | NEG | NEU
}

// Text returns the signal body regardless of which field the backend used.
func (s Signal) Text() string {
	if s.Msg != "" {
		return s.Msg
	}
	return s.Title
}

// BenchmarkSeries is one benchmark's performance curve.
type BenchmarkSeries struct {
	TotalReturn float64   `json:"total_return"`
	Cumulative  []float64 `json:"cumulative"`
	Dates       []string  `json:"dates"`
}

// BenchmarkResult maps benchmark symbols to their curves.
type BenchmarkResult struct {
	Period     string                     `json:"period"`
	Benchmarks map[string]BenchmarkSeries `json:"benchmarks"`
}

// TrainingStatus reports the backend's background training job.
type TrainingStatus struct {
	IsTraining bool    `json:"is_training"`
	Episode    int     `json:"episode"`
	Total      int     `json:"total"`
	LastReward float64 `json:"last_reward"`
}

// LogEntry is one line of the agent command stream.
type LogEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"` // INFO | WARN | ERROR | SUCCESS | TRACE
	Message   string `json:"message"`
}

// Health is the backend liveness response.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
