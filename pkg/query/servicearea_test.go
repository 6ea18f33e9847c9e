package query

import (
	"testing"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildChainGraph is a 4-node path 1->2->3->4 with unit weights, so the
// number of edges whose source is reachable grows one at a time as the
// break distance increases.
func buildChainGraph(t *testing.T) *graph.Compiled {
	t.Helper()
	edges := []network.Edge{
		{Source: 1, Target: 2, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0}, {X: 1}}}},
		{Source: 2, Target: 3, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 1}, {X: 2}}}},
		{Source: 3, Target: 4, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 2}, {X: 3}}}},
	}
	c, err := graph.Build(edges, nil, nil, true, 1000)
	require.NoError(t, err)
	return c
}

func TestServiceAreaReturnsEdgesWithinBreak(t *testing.T) {
	c := buildChainGraph(t)
	rows, err := ServiceArea(c, []Point{{NodeID: 1, UserID: "o"}}, []float64{1}, false, geometry.Planar{}, nil)
	require.NoError(t, err)
	// reachable within break 1: edge 1->2 (source dist 0) and edge 2->3
	// (source dist 1); edge 3->4 (source dist 2) is not.
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, 1.0, r.Break)
	}
}

func TestServiceAreaLargerBreakIncludesMoreEdges(t *testing.T) {
	c := buildChainGraph(t)
	rows, err := ServiceArea(c, []Point{{NodeID: 1, UserID: "o"}}, []float64{1, 2}, false, geometry.Planar{}, nil)
	require.NoError(t, err)

	countForBreak := map[float64]int{}
	for _, r := range rows {
		countForBreak[r.Break]++
	}
	assert.Greater(t, countForBreak[2], countForBreak[1])
}

func TestServiceAreaDissolveProducesOneRowPerBreak(t *testing.T) {
	c := buildChainGraph(t)
	rows, err := ServiceArea(c, []Point{{NodeID: 1, UserID: "o"}}, []float64{1, 2}, true, geometry.Planar{}, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestServiceAreaRejectsDecreasingBreaks(t *testing.T) {
	c := buildChainGraph(t)
	_, err := ServiceArea(c, []Point{{NodeID: 1, UserID: "o"}}, []float64{2, 1}, false, geometry.Planar{}, nil)
	assert.ErrorIs(t, err, ErrArgumentRange)
}

// buildUndirectedFarEdgeGraph is a single edge whose From/To distances from
// the origin differ (5 vs 0): an undirected compiled graph stores this edge
// under both (1,2) and (2,1) in its edge index, so the result must not
// depend on Go's randomized map iteration order picking one over the other.
func buildUndirectedFarEdgeGraph(t *testing.T) *graph.Compiled {
	t.Helper()
	edges := []network.Edge{
		{Source: 1, Target: 2, Weight: 5, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0}, {X: 5}}}},
	}
	c, err := graph.Build(edges, nil, nil, false, 1000)
	require.NoError(t, err)
	return c
}

func TestServiceAreaUsesNearerEndpointRegardlessOfEdgeDirection(t *testing.T) {
	c := buildUndirectedFarEdgeGraph(t)
	// Origin at node 2: dist(node2) = 0, dist(node1) = 5 (via this edge).
	// The edge's reachable-endpoint distance is min(0, 5) = 0, so it must be
	// included even for a break far smaller than the edge's own weight.
	rows, err := ServiceArea(c, []Point{{NodeID: 2, UserID: "o"}}, []float64{0}, false, geometry.Planar{}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	for i := 0; i < 20; i++ {
		repeat, err := ServiceArea(c, []Point{{NodeID: 2, UserID: "o"}}, []float64{0}, false, geometry.Planar{}, nil)
		require.NoError(t, err)
		assert.Equal(t, rows, repeat, "result must be bit-reproducible across repeated calls on the same compiled graph")
	}
}
