package query

import (
	"fmt"
	"sort"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"gonum.org/v1/gonum/graph/path"
	"go.uber.org/zap"
)

// ErrArgumentRange mirrors rules.ErrArgumentRange for call-site arguments
// specific to the Query Engine (rowwise length mismatch).
var ErrArgumentRange = rules.ErrArgumentRange

// ODOptions controls the OD Cost Matrix's optional behaviors (§4.7.1).
type ODOptions struct {
	Cutoff           float64 // 0 means unbounded
	DestinationCount int     // 0 means keep all
	Rowwise          bool
	Lines            bool
	EqualCoordTol    float64 // tolerance for the "origin == destination -> 0" rule
}

// ODCostMatrix implements the OD Cost Matrix (§4.7.1): Dijkstra from every
// origin, weight-only lookup to every destination.
func ODCostMatrix(compiled *graph.Compiled, origins, destinations []Point, opts ODOptions, kernel geometry.Kernel, logger *zap.Logger) ([]Row, error) {
	logger = nopLogger(logger)

	if opts.Rowwise && len(origins) != len(destinations) {
		return nil, fmt.Errorf("query: rowwise requires equal-length origins and destinations: %w", ErrArgumentRange)
	}
	if opts.EqualCoordTol == 0 {
		opts.EqualCoordTol = 1e-9
	}

	var rows []Row
	missing := 0

	odRow := func(o, d Point, shortest *path.Shortest) Row {
		var w float64
		switch {
		case kernel.Equals2D(o.Coord, d.Coord, opts.EqualCoordTol):
			w = 0
		case !compiled.HasNode(o.NodeID) || !compiled.HasNode(d.NodeID):
			w = inf
		default:
			w = shortestWeightTo(*shortest, d.NodeID)
		}
		row := Row{OriginID: o.UserID, DestinationID: d.UserID}
		if isMissing(w) {
			row.Missing = true
			missing++
			return row
		}
		row.Weight = w
		if opts.Lines {
			line := kernel.LineBetween(o.Coord, d.Coord)
			row.Geometry = &line
		}
		return row
	}

	if opts.Rowwise {
		for i := range origins {
			shortest := compiled.ShortestFrom(origins[i].NodeID)
			row := odRow(origins[i], destinations[i], &shortest)
			if !row.Missing && opts.Cutoff > 0 && row.Weight > opts.Cutoff {
				continue
			}
			rows = append(rows, row)
		}
	} else {
		for _, o := range origins {
			shortest := compiled.ShortestFrom(o.NodeID)
			byOrigin := make([]Row, 0, len(destinations))
			for _, d := range destinations {
				row := odRow(o, d, &shortest)
				if !row.Missing && opts.Cutoff > 0 && row.Weight > opts.Cutoff {
					continue
				}
				byOrigin = append(byOrigin, row)
			}
			if opts.DestinationCount > 0 {
				byOrigin = keepCheapest(byOrigin, opts.DestinationCount)
			}
			rows = append(rows, byOrigin...)
		}
	}

	sortRows(rows)

	n := len(origins) * len(destinations)
	percentMissing := 0.0
	if n > 0 {
		percentMissing = float64(missing) / float64(n) * 100
	}
	logger.Debug("od_cost_matrix",
		zap.Int("n_origins", len(origins)),
		zap.Int("n_destinations", len(destinations)),
		zap.Float64("percent_missing", percentMissing),
	)

	return rows, nil
}

// keepCheapest keeps the k rows with the lowest weight, ties broken by
// destination id.
func keepCheapest(rows []Row, k int) []Row {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Missing != rows[j].Missing {
			return !rows[i].Missing
		}
		if rows[i].Weight != rows[j].Weight {
			return rows[i].Weight < rows[j].Weight
		}
		return fmt.Sprint(rows[i].DestinationID) < fmt.Sprint(rows[j].DestinationID)
	})
	if len(rows) > k {
		rows = rows[:k]
	}
	return rows
}
