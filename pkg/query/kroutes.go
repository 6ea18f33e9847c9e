package query

import (
	"fmt"
	"math"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/result"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"go.uber.org/zap"
)

// GetKRoutes implements K Routes (§4.7.3): iteratively run Route on a
// working copy of the graph, then delete the middle slice of the found
// route's edges before rerunning, up to k times per pair.
func GetKRoutes(compiled *graph.Compiled, origins, destinations []Point, k int, dropMiddlePercent float64, rule rules.RuleSet, kernel geometry.Kernel, logger *zap.Logger) ([]Row, error) {
	logger = nopLogger(logger)

	if dropMiddlePercent <= 0 || dropMiddlePercent > 100 {
		return nil, fmt.Errorf("query: drop_middle_percent must be in (0,100]: %w", ErrArgumentRange)
	}

	var rows []Row
	for _, o := range origins {
		for _, d := range destinations {
			working := compiled.Clone()
			for i := 0; i < k; i++ {
				edges, cost, found := routeEdges(working, o.NodeID, d.NodeID, rule)
				if !found {
					break
				}
				lines := make([]geometry.LineString, len(edges))
				for j, e := range edges {
					lines[j] = e.Geometry
				}
				dissolved := result.Dissolve(kernel, lines)
				rows = append(rows, Row{
					OriginID: o.UserID, DestinationID: d.UserID,
					Weight: cost, Geometry: &dissolved, K: i + 1,
				})

				dropMiddleEdges(working, edges, dropMiddlePercent)
			}
		}
	}
	sortRows(rows)
	logger.Debug("get_k_routes", zap.Int("k", k), zap.Float64("drop_middle_percent", dropMiddlePercent))
	return rows, nil
}

// dropMiddleEdges deletes the middle slice of edges (centered on the
// midpoint) from the working graph, keeping round((n - n*dropMiddlePercent/100)/2)
// edges (at least one) at each end, per the loop-k-routes algorithm.
func dropMiddleEdges(working *graph.Compiled, edges []RouteEdge, dropMiddlePercent float64) {
	n := len(edges)
	if n == 0 {
		return
	}
	keep := int(math.Round((float64(n) - float64(n)*dropMiddlePercent/100) / 2))
	if keep < 1 {
		keep = 1
	}
	if 2*keep >= n {
		return // nothing left to drop
	}
	for _, e := range edges[keep : n-keep] {
		working.RemoveEdge(e.From, e.To)
	}
}
