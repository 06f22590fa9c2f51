package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/cgpo-terminal/internal/api"
)

func TestParseTickers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated", "aapl, nvda, msft", []string{"AAPL", "NVDA", "MSFT"}},
		{"space separated", "AAPL NVDA", []string{"AAPL", "NVDA"}},
		{"mixed separators", "AAPL,  NVDA\tMSFT", []string{"AAPL", "NVDA", "MSFT"}},
		{"duplicates collapsed", "AAPL, aapl, AAPL", []string{"AAPL"}},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTickers(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "hell…", truncate("hello world", 5))
	assert.Equal(t, "", truncate("anything", 0))
	assert.Equal(t, "exact", truncate("exact", 5))
}

func TestToSnapshot(t *testing.T) {
	g := api.Graph{
		Nodes: []api.GraphNode{{ID: "AAPL", Return: 0.01}, {ID: "MSFT", Return: -0.02}},
		Edges: []api.GraphEdge{{Source: "AAPL", Target: "MSFT"}},
	}
	s := toSnapshot(g)
	assert.Len(t, s.Nodes, 2)
	assert.Equal(t, "AAPL", s.Nodes[0].ID)
	assert.InDelta(t, -0.02, s.Nodes[1].Return, 1e-12)
	assert.Len(t, s.Edges, 1)
	assert.Equal(t, "MSFT", s.Edges[0].Target)
}

func TestBenchmarkSymbolsStableOrder(t *testing.T) {
	res := &api.BenchmarkResult{
		Period: "3mo",
		Benchmarks: map[string]api.BenchmarkSeries{
			"QQQ": {}, "SPY": {}, "DIA": {},
		},
	}
	assert.Equal(t, []string{"DIA", "QQQ", "SPY"}, benchmarkSymbols(res))
	assert.Nil(t, benchmarkSymbols(nil))
}

func TestResample(t *testing.T) {
	// Fewer points than columns: passthrough copy.
	in := []float64{1, 2, 3}
	out := resample(in, 10)
	assert.Equal(t, in, out)

	// More points than columns: bucket averages.
	out = resample([]float64{1, 1, 3, 3}, 2)
	assert.Equal(t, []float64{1, 3}, out)
}

func TestRenderAreaChartFixedHeight(t *testing.T) {
	series := []float64{1.0, 1.1, 0.9, 1.2, 1.05}
	out := renderAreaChart(series, 20, 4)
	assert.Equal(t, 4, len(strings.Split(out, "\n")))

	assert.Equal(t, "", renderAreaChart(nil, 20, 4))
	assert.Equal(t, "", renderAreaChart(series, 0, 4))
}

func TestPanelLayoutGeometry(t *testing.T) {
	m := Model{width: 160, height: 48, heroH: 5}
	l := m.panelLayout()

	assert.Equal(t, 7, l.headerH)
	assert.Equal(t, 160, l.feedW+l.graphW+l.logsW)
	assert.Equal(t, 48, l.headerH+l.mainH+l.infoH+statusBarRows)

	// The mouse routing origin sits just inside the graph panel border,
	// below the title line.
	assert.Equal(t, l.feedW+1, l.graphInnerX)
	assert.Equal(t, l.headerH+2, l.graphInnerY)
	assert.Equal(t, l.graphW-2, l.graphInnerW)
	assert.Equal(t, l.mainH-3, l.graphInnerH)
}

func TestPanelLayoutClampsSmallTerminals(t *testing.T) {
	m := Model{width: 40, height: 12, heroH: 5}
	l := m.panelLayout()
	assert.GreaterOrEqual(t, l.graphW, 20)
	assert.GreaterOrEqual(t, l.mainH, 8)
	assert.GreaterOrEqual(t, l.graphInnerW, 1)
	assert.GreaterOrEqual(t, l.graphInnerH, 1)
}
