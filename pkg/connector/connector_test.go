package connector

import (
	"testing"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"github.com/statisticsnorway/sgis-go/pkg/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNet() network.Network {
	edges := []network.Edge{
		{Geometry: geometry.LineString{Points: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}},
	}
	withIDs, nodes := network.AssignNodeIDs(edges)
	return network.Network{Edges: withIDs, Nodes: nodes}
}

func nodePoints(net network.Network) []geometry.Point {
	pts := make([]geometry.Point, len(net.Nodes))
	for i, n := range net.Nodes {
		pts[i] = n.Point
	}
	return pts
}

func TestConnectEndpointAttachWithinTolerance(t *testing.T) {
	net := buildNet()
	index := spatial.NewQuadTree(nodePoints(net))
	ruleSet := rules.RuleSet{SearchTolerance: 5, SearchFactor: 10}

	result := Connect(net, []geometry.Point{{X: 0, Y: 1}}, []string{"p1"}, ruleSet, index, geometry.Planar{}, 1000, false)

	require.Len(t, result.Points, 1)
	assert.Equal(t, int64(1000), result.Points[0].TempNodeID)
	require.NotEmpty(t, result.ConnectorEdges)
	for _, e := range result.ConnectorEdges {
		assert.True(t, e.Connector)
		assert.Equal(t, int64(1000), e.Source)
	}
}

func TestConnectEndpointAttachBeyondToleranceYieldsNoEdge(t *testing.T) {
	net := buildNet()
	index := spatial.NewQuadTree(nodePoints(net))
	ruleSet := rules.RuleSet{SearchTolerance: 1, SearchFactor: 0}

	result := Connect(net, []geometry.Point{{X: 0, Y: 100}}, []string{"p1"}, ruleSet, index, geometry.Planar{}, 1000, false)
	assert.Empty(t, result.ConnectorEdges)
}

func TestConnectSplitLinesMode(t *testing.T) {
	net := buildNet()
	index := spatial.NewQuadTree(nodePoints(net))
	ruleSet := rules.RuleSet{SearchTolerance: 5, SplitLines: true}

	result := Connect(net, []geometry.Point{{X: 5, Y: 1}}, []string{"p1"}, ruleSet, index, geometry.Planar{}, 1000, false)

	require.Len(t, result.SplitFragments, 2)
	require.Len(t, result.ConnectorEdges, 1)
	assert.True(t, result.ReplacedEdgeIndices[0])
	for _, f := range result.SplitFragments {
		assert.False(t, f.Connector)
	}
	assert.True(t, result.ConnectorEdges[0].Connector)
}

func TestConnectBothDirectionsEmitsReverseEdge(t *testing.T) {
	net := buildNet()
	index := spatial.NewQuadTree(nodePoints(net))
	ruleSet := rules.RuleSet{SearchTolerance: 5, SearchFactor: 10}

	result := Connect(net, []geometry.Point{{X: 0, Y: 1}}, []string{"p1"}, ruleSet, index, geometry.Planar{}, 1000, true)

	var forward, backward bool
	for _, e := range result.ConnectorEdges {
		if e.Source == 1000 {
			forward = true
		}
		if e.Target == 1000 {
			backward = true
		}
	}
	assert.True(t, forward)
	assert.True(t, backward)
}
