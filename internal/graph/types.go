// Package graph owns the asset-correlation network: force-directed layout,
// selection state and one-hop contagion analysis.
package graph

import (
	"sort"
	"strings"
)

// Node is one asset in a snapshot. Return is the latest one-step return used
// for classification; simulation attributes live inside the engine and never
// leave it.
type Node struct {
	ID     string
	Return float64
}

// Edge links two correlated assets. Undirected: (a,b) and (b,a) are the same
// edge and consumers must normalize before comparison.
type Edge struct {
	Source string
	Target string
}

// Key returns the order-independent identity of the edge.
func (e Edge) Key() string {
	if e.Source <= e.Target {
		return e.Source + "|" + e.Target
	}
	return e.Target + "|" + e.Source
}

// Snapshot is a complete replacement of the node/edge set. Snapshots are
// ingested atomically; there is no incremental diffing.
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// topologyKey builds a canonical identity string for a snapshot's node and
// edge sets, ignoring ordering and edge direction.
func topologyKey(s Snapshot) string {
	ids := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		ids = append(ids, n.ID)
	}
	keys := make([]string, 0, len(s.Edges))
	for _, e := range s.Edges {
		keys = append(keys, e.Key())
	}
	sort.Strings(ids)
	sort.Strings(keys)
	return strings.Join(ids, ",") + ";" + strings.Join(keys, ",")
}
