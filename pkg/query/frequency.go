package query

import (
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"go.uber.org/zap"
)

// FrequencyEdge is one network edge with its accumulated route frequency.
type FrequencyEdge struct {
	graph.EdgeMeta
	Frequency float64
}

// GetRouteFrequencies implements Route Frequencies (§4.7.4): run Route for
// every (origin, destination) pair, incrementing each kept edge's counter
// by a caller-supplied multiplier (default 1). weights, if non-nil, maps an
// {origin index, destination index} pair to its multiplier.
func GetRouteFrequencies(compiled *graph.Compiled, origins, destinations []Point, rule rules.RuleSet, weights map[[2]int]float64, logger *zap.Logger) []FrequencyEdge {
	logger = nopLogger(logger)

	totals := make(map[string]FrequencyEdge)
	for oi, o := range origins {
		for di, d := range destinations {
			edges, _, found := routeEdges(compiled, o.NodeID, d.NodeID, rule)
			if !found {
				continue
			}
			multiplier := 1.0
			if weights != nil {
				if m, ok := weights[[2]int{oi, di}]; ok {
					multiplier = m
				}
			}
			for _, e := range edges {
				cur := totals[e.EdgeID]
				cur.EdgeMeta = e.EdgeMeta
				cur.Frequency += multiplier
				totals[e.EdgeID] = cur
			}
		}
	}

	out := make([]FrequencyEdge, 0, len(totals))
	for _, fe := range totals {
		if fe.Frequency > 0 {
			out = append(out, fe)
		}
	}
	logger.Debug("get_route_frequencies", zap.Int("edges_with_frequency", len(out)))
	return out
}
