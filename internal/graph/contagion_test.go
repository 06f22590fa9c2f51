package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeighbors(t *testing.T) {
	edges := []Edge{
		{Source: "AAPL", Target: "MSFT"},
		{Source: "NVDA", Target: "AAPL"},
		{Source: "TSLA", Target: "META"},
	}

	tests := []struct {
		name string
		id   string
		want []string
	}{
		{
			name: "collects both edge orientations",
			id:   "AAPL",
			want: []string{"MSFT", "NVDA"},
		},
		{
			name: "single neighbor",
			id:   "META",
			want: []string{"TSLA"},
		},
		{
			name: "absent id yields empty set",
			id:   "INTC",
			want: nil,
		},
		{
			name: "empty id yields empty set",
			id:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Neighbors(edges, tt.id)
			assert.Len(t, got, len(tt.want))
			for _, id := range tt.want {
				assert.Contains(t, got, id)
			}
			// The node is never its own neighbor.
			assert.NotContains(t, got, tt.id)
		})
	}
}

func TestNeighborsSelfLoopExcluded(t *testing.T) {
	edges := []Edge{
		{Source: "AAPL", Target: "AAPL"},
		{Source: "AAPL", Target: "MSFT"},
	}
	got := Neighbors(edges, "AAPL")
	assert.Len(t, got, 1)
	assert.Contains(t, got, "MSFT")
}
