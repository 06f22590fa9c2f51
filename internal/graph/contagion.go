package graph

// Neighbors returns the ids one edge away from id, treating edges as
// undirected. The scan is O(E) and runs once per selection-changing event;
// snapshots are small enough that no adjacency index is kept.
//
// Returns an empty set when id is empty or touches no edge. The id itself is
// never a member of its own neighbor set.
func Neighbors(edges []Edge, id string) map[string]struct{} {
	out := make(map[string]struct{})
	if id == "" {
		return out
	}
	for _, e := range edges {
		switch id {
		case e.Source:
			if e.Target != id {
				out[e.Target] = struct{}{}
			}
		case e.Target:
			if e.Source != id {
				out[e.Source] = struct{}{}
			}
		}
	}
	return out
}
