package query

import (
	"testing"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLineGraph is a three-node path graph: 1 -> 2 -> 3, plus a direct but
// pricier 1 -> 3 edge, used across this package's tests.
func buildLineGraph(t *testing.T) *graph.Compiled {
	t.Helper()
	edges := []network.Edge{
		{Source: 1, Target: 2, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0}, {X: 1}}}},
		{Source: 2, Target: 3, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 1}, {X: 2}}}},
		{Source: 1, Target: 3, Weight: 10, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0}, {X: 2}}}},
	}
	c, err := graph.Build(edges, nil, nil, true, 1000)
	require.NoError(t, err)
	return c
}

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(inf+1))
	assert.False(t, isMissing(5))
}

func TestRouteEdgesFindsCheaperPath(t *testing.T) {
	c := buildLineGraph(t)
	edges, cost, found := routeEdges(c, 1, 3, rules.RuleSet{})
	require.True(t, found)
	assert.Equal(t, 2.0, cost)
	assert.Len(t, edges, 2)
}

func TestRouteEdgesUnreachableNode(t *testing.T) {
	c := buildLineGraph(t)
	_, _, found := routeEdges(c, 1, 99, rules.RuleSet{})
	assert.False(t, found)
}

func TestRouteEdgesExcludesConnectorWeightByDefault(t *testing.T) {
	edges := []network.Edge{
		{Source: 100, Target: 1, Weight: 5, Connector: true, Geometry: geometry.LineString{Points: []geometry.Point{{X: -1}, {X: 0}}}},
		{Source: 1, Target: 2, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0}, {X: 1}}}},
	}
	c, err := graph.Build(edges, nil, nil, true, 1000)
	require.NoError(t, err)

	kept, cost, found := routeEdges(c, 100, 2, rules.RuleSet{NodeWeightRule: rules.ConnectorWeightRule{Kind: rules.ConnectorZero}})
	require.True(t, found)
	assert.Equal(t, 1.0, cost, "connector edge weight should be excluded")
	assert.Len(t, kept, 1, "connector edge should not be part of the route's edges")
}
