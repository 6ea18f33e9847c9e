package query

import (
	"fmt"
	"sort"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/result"
	"go.uber.org/zap"
)

// ServiceAreaRow is one result row: the edges reachable from an origin
// within a break, optionally dissolved into one geometry per
// (origin, break).
type ServiceAreaRow struct {
	OriginID any
	Break    float64
	Geometry geometry.LineString
	EdgeIDs  []string
}

// ServiceArea implements the Service Area / isochrone query (§4.7.5).
// breaks must be non-decreasing; results are ordered from the largest break
// to the smallest so smaller regions plot on top.
func ServiceArea(compiled *graph.Compiled, origins []Point, breaks []float64, dissolve bool, kernel geometry.Kernel, logger *zap.Logger) ([]ServiceAreaRow, error) {
	logger = nopLogger(logger)

	for i := 1; i < len(breaks); i++ {
		if breaks[i] < breaks[i-1] {
			return nil, fmt.Errorf("query: breaks must be non-decreasing: %w", ErrArgumentRange)
		}
	}

	sortedBreaks := append([]float64{}, breaks...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sortedBreaks)))

	var rows []ServiceAreaRow
	for _, o := range origins {
		if !compiled.HasNode(o.NodeID) {
			continue
		}
		shortest := compiled.ShortestFrom(o.NodeID)
		allEdges := compiled.AllEdges()

		// A physical edge appears once per direction in an undirected
		// graph's edge index; its reachable-endpoint distance is
		// min(dist(u), dist(v)), not whichever direction the (randomized)
		// map iteration over allEdges happens to visit first.
		bestDist := make(map[string]float64)
		bestLine := make(map[string]geometry.LineString)
		for _, e := range allEdges {
			if e.Meta.Connector {
				continue
			}
			dist := shortestWeightTo(shortest, e.From)
			if isMissing(dist) {
				continue
			}
			if cur, ok := bestDist[e.Meta.EdgeID]; !ok || dist < cur {
				bestDist[e.Meta.EdgeID] = dist
				bestLine[e.Meta.EdgeID] = e.Meta.Geometry
			}
		}

		for _, b := range sortedBreaks {
			var lines []geometry.LineString
			var ids []string
			for id, dist := range bestDist {
				if dist > b {
					continue
				}
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				lines = append(lines, bestLine[id])
			}
			if dissolve {
				rows = append(rows, ServiceAreaRow{
					OriginID: o.UserID, Break: b, EdgeIDs: ids,
					Geometry: result.Dissolve(kernel, lines),
				})
				continue
			}
			for i, line := range lines {
				rows = append(rows, ServiceAreaRow{
					OriginID: o.UserID, Break: b, EdgeIDs: []string{ids[i]},
					Geometry: line,
				})
			}
		}
	}

	logger.Debug("service_area", zap.Int("n_origins", len(origins)), zap.Int("n_breaks", len(breaks)))
	return rows, nil
}
