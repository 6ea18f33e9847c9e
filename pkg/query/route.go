package query

import (
	"fmt"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/result"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// GetRoute implements the Route query (§4.7.2): Dijkstra with edge-path
// recovery per (origin, destination) pair, connector edges dropped,
// remaining edges dissolved into one geometry per pair. Pairs with no path
// are omitted from rows; warnings aggregates one error per omitted pair
// with multierr, following zap's own dependency on that package, so the
// caller can log or inspect each unreachable pair individually instead of
// just a count.
func GetRoute(compiled *graph.Compiled, origins, destinations []Point, rule rules.RuleSet, kernel geometry.Kernel, logger *zap.Logger) (rows []Row, warnings error) {
	logger = nopLogger(logger)

	for _, o := range origins {
		for _, d := range destinations {
			edges, cost, found := routeEdges(compiled, o.NodeID, d.NodeID, rule)
			if !found {
				warnings = multierr.Append(warnings, fmt.Errorf("query: no path from %v to %v", o.UserID, d.UserID))
				continue
			}
			lines := make([]geometry.LineString, len(edges))
			for i, e := range edges {
				lines[i] = e.Geometry
			}
			dissolved := result.Dissolve(kernel, lines)
			rows = append(rows, Row{
				OriginID: o.UserID, DestinationID: d.UserID,
				Weight: cost, Geometry: &dissolved,
			})
		}
	}
	sortRows(rows)

	noPathCount := len(multierr.Errors(warnings))
	logger.Debug("get_route", zap.Int("n_origins", len(origins)), zap.Int("n_destinations", len(destinations)), zap.Int("no_path", noPathCount))
	return rows, warnings
}
