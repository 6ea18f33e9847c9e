package network

import (
	"math"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/spatial"
	"go.uber.org/zap"
)

// HoleCloserOptions are the C3 Hole Closer's tunable distance/angle
// parameters.
type HoleCloserOptions struct {
	MaxDistance float64
	MaxAngle    float64 // degrees, in [0, 180]
	// DeadEndsOnly restricts candidate targets to other dead-ends, using the
	// stricter k=2 / strict-inequality variant from the source algorithm.
	DeadEndsOnly bool
}

// findIncidentEdge returns the single edge touching a degree-1 node and the
// index of its other endpoint.
func findIncidentEdge(edges []Edge, nodeID int64) (Edge, int64, bool) {
	for _, e := range edges {
		if e.Source == nodeID {
			return e, e.Target, true
		}
		if e.Target == nodeID {
			return e, e.Source, true
		}
	}
	return Edge{}, 0, false
}

// CloseHoles implements the Hole Closer (C3): it synthesizes straight-line
// edges between dead-ends that satisfy the distance/angle rules, bumping
// the network's revision when it adds any; with none added the network is
// returned unchanged. Weight on new edges is left as NaN; the caller
// (Rule Set & Weight Validator) is responsible for imputing it.
func CloseHoles(net Network, opts HoleCloserOptions, index spatial.Index, kernel geometry.Kernel, logger *zap.Logger) Network {
	if logger == nil {
		logger = zap.NewNop()
	}

	deadEnds := make([]Node, 0)
	for _, n := range net.Nodes {
		if n.Degree == 1 {
			deadEnds = append(deadEnds, n)
		}
	}

	allPoints := make([]geometry.Point, len(net.Nodes))
	for i, n := range net.Nodes {
		allPoints[i] = n.Point
	}

	k := 50
	if opts.DeadEndsOnly {
		k = 2
	}
	if k > len(net.Nodes) {
		k = len(net.Nodes)
	}

	deadEndPoints := make([]geometry.Point, len(deadEnds))
	for i, n := range deadEnds {
		deadEndPoints[i] = n.Point
	}

	corpus := allPoints
	queryPts := deadEndPoints
	if opts.DeadEndsOnly {
		corpus = deadEndPoints
	}

	distances, indices := index.KNearestPoints(queryPts, corpus, k)

	newSources := make(map[int64]bool)
	var newEdges []Edge
	closed := 0

	for qi, dead := range deadEnds {
		incidentEdge, otherID, ok := findIncidentEdge(net.Edges, dead.ID)
		if !ok {
			continue
		}
		otherNode, _ := net.NodeByID(otherID)
		incoming := kernel.AngleDegrees(otherNode.Point, dead.Point)

		if newSources[dead.ID] {
			continue
		}

		for j, idx := range indices[qi] {
			var candidate Node
			if opts.DeadEndsOnly {
				candidate = deadEnds[idx]
			} else {
				candidate = net.Nodes[idx]
			}
			if candidate.ID == dead.ID || candidate.ID == otherID {
				continue
			}
			d := distances[qi][j]
			if opts.DeadEndsOnly {
				if d >= opts.MaxDistance {
					continue
				}
			} else {
				if d > opts.MaxDistance {
					break // distances are ascending; no closer candidate remains
				}
			}
			outgoing := kernel.AngleDegrees(dead.Point, candidate.Point)
			diff := angularDifference(incoming, outgoing)
			if diff > opts.MaxAngle {
				continue
			}

			newEdges = append(newEdges, Edge{
				Source:    dead.ID,
				Target:    candidate.ID,
				Weight:    math.NaN(),
				Geometry:  kernel.LineBetween(dead.Point, candidate.Point),
				Synthetic: true,
			})
			newSources[dead.ID] = true
			closed++
			_ = incidentEdge
			break
		}
	}

	logger.Debug("hole closer", zap.Int("dead_ends", len(deadEnds)), zap.Int("closed", closed))

	if len(newEdges) == 0 {
		return net
	}
	edges := append(append([]Edge{}, net.Edges...), newEdges...)
	return net.withEdges(edges)
}

// angularDifference returns the absolute difference between two bearings in
// degrees, wrapped into [0, 180] to account for orientation.
func angularDifference(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
