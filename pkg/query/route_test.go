package query

import (
	"testing"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestGetRouteDissolvesGeometry(t *testing.T) {
	c := buildLineGraph(t)
	rows, warnings := GetRoute(c, []Point{{NodeID: 1, UserID: "o"}}, []Point{{NodeID: 3, UserID: "d"}}, rules.RuleSet{}, geometry.Planar{}, nil)
	require.Len(t, rows, 1)
	assert.NoError(t, warnings)
	assert.Equal(t, 2.0, rows[0].Weight)
	require.NotNil(t, rows[0].Geometry)
	assert.Len(t, rows[0].Geometry.Points, 4) // two 2-point segments dissolved
}

func TestGetRouteCountsUnreachablePairs(t *testing.T) {
	c := buildLineGraph(t)
	rows, warnings := GetRoute(c, []Point{{NodeID: 1, UserID: "o"}}, []Point{{NodeID: 99, UserID: "d"}}, rules.RuleSet{}, geometry.Planar{}, nil)
	assert.Empty(t, rows)
	require.Error(t, warnings)
	assert.Len(t, multierr.Errors(warnings), 1)
}
