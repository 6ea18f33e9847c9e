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

// buildDiamondGraph gives two distinct 1 -> 4 paths of equal cost, two
// edges each. A two-edge route is too short for dropMiddleEdges to remove
// anything, so each iteration returns one of the two tied paths.
func buildDiamondGraph(t *testing.T) *graph.Compiled {
	t.Helper()
	edges := []network.Edge{
		{Source: 1, Target: 2, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
		{Source: 2, Target: 4, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 1, Y: 1}, {X: 2, Y: 0}}}},
		{Source: 1, Target: 3, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: -1}}}},
		{Source: 3, Target: 4, Weight: 1, Geometry: geometry.LineString{Points: []geometry.Point{{X: 1, Y: -1}, {X: 2, Y: 0}}}},
	}
	c, err := graph.Build(edges, nil, nil, true, 1000)
	require.NoError(t, err)
	return c
}

func TestGetKRoutesNumbersEachIteration(t *testing.T) {
	c := buildDiamondGraph(t)
	rows, err := GetKRoutes(c, []Point{{NodeID: 1, UserID: "o"}}, []Point{{NodeID: 4, UserID: "d"}}, 2, 100, rules.RuleSet{}, geometry.Planar{}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].K)
	assert.Equal(t, 2, rows[1].K)
	assert.Equal(t, 2.0, rows[0].Weight)
	assert.Equal(t, 2.0, rows[1].Weight)
}

func TestGetKRoutesValidatesDropMiddlePercent(t *testing.T) {
	c := buildDiamondGraph(t)
	_, err := GetKRoutes(c, nil, nil, 2, 0, rules.RuleSet{}, geometry.Planar{}, nil)
	assert.ErrorIs(t, err, ErrArgumentRange)

	_, err = GetKRoutes(c, nil, nil, 2, 101, rules.RuleSet{}, geometry.Planar{}, nil)
	assert.ErrorIs(t, err, ErrArgumentRange)
}

func TestGetKRoutesRepeatsWhenNothingToDrop(t *testing.T) {
	// A 2-edge shortest path is too short for dropMiddleEdges to remove
	// anything (it always keeps at least one edge at each end), so every
	// iteration finds the same cheapest path again.
	c := buildLineGraph(t)
	rows, err := GetKRoutes(c, []Point{{NodeID: 1, UserID: "o"}}, []Point{{NodeID: 3, UserID: "d"}}, 3, 100, rules.RuleSet{}, geometry.Planar{}, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, 2.0, row.Weight)
	}
}
