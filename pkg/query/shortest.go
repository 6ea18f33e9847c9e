package query

import "gonum.org/v1/gonum/graph/path"

// shortestTo adapts gonum's Shortest.To, which returns a []graph.Node, into
// a plain node-id slice the rest of this package works with.
func shortestTo(shortest path.Shortest, to int64) ([]int64, float64) {
	nodes, weight := shortest.To(to)
	if nodes == nil {
		return nil, weight
	}
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return ids, weight
}

// shortestWeightTo adapts Shortest.WeightTo for callers that only need the
// cost, not the path (the OD cost matrix).
func shortestWeightTo(shortest path.Shortest, to int64) float64 {
	return shortest.WeightTo(to)
}
