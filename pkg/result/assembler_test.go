package result

import (
	"testing"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEdgeIndexSnapshotsCompiledGraph(t *testing.T) {
	edges := []network.Edge{
		{Source: 1, Target: 2, Weight: 4, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0}, {X: 1}}}},
	}
	c, err := graph.Build(edges, nil, nil, true, 1000)
	require.NoError(t, err)

	idx := BuildEdgeIndex(c)
	require.Len(t, idx, 1)
	for _, rec := range idx {
		assert.Equal(t, 4.0, rec.Weight)
	}
}

func TestDissolveConcatenatesLines(t *testing.T) {
	lines := []geometry.LineString{
		{Points: []geometry.Point{{X: 0}, {X: 1}}},
		{Points: []geometry.Point{{X: 1}, {X: 2}}},
	}
	dissolved := Dissolve(geometry.Planar{}, lines)
	assert.Len(t, dissolved.Points, 4)
}

func TestResolveUserIDFallsBackToInternalID(t *testing.T) {
	assert.Equal(t, "abc", ResolveUserID("abc", 42))
	assert.Equal(t, int64(42), ResolveUserID(nil, 42))
}
