package spatial

import (
	"testing"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadTreeKNearestPoints(t *testing.T) {
	corpus := []geometry.Point{{0, 0}, {10, 0}, {0, 10}, {5, 5}, {100, 100}}
	qt := NewQuadTree(corpus)

	distances, indices := qt.KNearestPoints([]geometry.Point{{1, 1}}, corpus, 2)
	require.Len(t, distances, 1)
	require.Len(t, indices[0], 2)
	// {0,0} and {5,5} should be the two closest to (1,1).
	assert.Contains(t, indices[0], 0)
	assert.Contains(t, indices[0], 3)
	assert.Less(t, distances[0][0], distances[0][1])
}

func TestQuadTreeKNearestPointsFewerThanK(t *testing.T) {
	corpus := []geometry.Point{{0, 0}, {1, 1}}
	qt := NewQuadTree(corpus)
	distances, indices := qt.KNearestPoints([]geometry.Point{{0, 0}}, corpus, 10)
	assert.Len(t, distances[0], 2)
	assert.Len(t, indices[0], 2)
}

func TestQuadTreeEmptyCorpus(t *testing.T) {
	qt := NewQuadTree(nil)
	distances, indices := qt.KNearestPoints([]geometry.Point{{0, 0}}, nil, 5)
	assert.Empty(t, distances[0])
	assert.Empty(t, indices[0])
}

func TestQuadTreeNearestLine(t *testing.T) {
	lines := []geometry.LineString{
		{Points: []geometry.Point{{0, 0}, {10, 0}}},
		{Points: []geometry.Point{{0, 5}, {10, 5}}},
	}
	qt := NewQuadTree(nil)
	idx, dist, ok := qt.NearestLine(geometry.Point{5, 1}, lines, 10)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.InDelta(t, 1, dist, 1e-9)
}

func TestQuadTreeNearestLineBeyondMaxDistance(t *testing.T) {
	lines := []geometry.LineString{{Points: []geometry.Point{{0, 0}, {10, 0}}}}
	qt := NewQuadTree(nil)
	_, _, ok := qt.NearestLine(geometry.Point{5, 100}, lines, 1)
	assert.False(t, ok)
}
