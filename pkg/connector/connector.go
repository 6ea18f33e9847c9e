// Package connector implements the Point Connector (C5): attaching query
// points to a prepared network through a tolerance/factor window, either by
// linking to nearby nodes or by splitting the nearest line at the
// projection point.
package connector

import (
	"sort"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"github.com/statisticsnorway/sgis-go/pkg/spatial"
)

// QueryPoint is an origin or destination point with an optional caller id
// and the temporary node id assigned to it for this query.
type QueryPoint struct {
	ID         string
	UserID     any
	Point      geometry.Point
	TempNodeID int64
}

// Result is the Point Connector's output: the input points with temp ids
// assigned, the connector edges linking them to the network, and — in
// split-lines mode — the base-network edge indices to exclude from this
// query's compiled graph plus the fragment edges that replace them.
type Result struct {
	Points              []QueryPoint
	ConnectorEdges      []network.Edge
	ReplacedEdgeIndices map[int]bool
	SplitFragments      []network.Edge
}

// Connect runs the C5 contract for one batch of points (origins or
// destinations — callers run this twice with disjoint idOffset ranges).
// bothDirections controls whether connector edges are emitted one-way
// (false: point -> node, for origins on a directed graph) or in both
// directions (true: undirected graphs, or destinations, which need
// node -> point).
func Connect(
	net network.Network,
	points []geometry.Point,
	pointIDs []string,
	ruleSet rules.RuleSet,
	index spatial.Index,
	kernel geometry.Kernel,
	idOffset int64,
	bothDirections bool,
) Result {
	qps := make([]QueryPoint, len(points))
	for i, p := range points {
		id := ""
		if i < len(pointIDs) {
			id = pointIDs[i]
		}
		qps[i] = QueryPoint{ID: id, Point: p, TempNodeID: idOffset + int64(i)}
	}
	nextID := idOffset + int64(len(points))

	result := Result{Points: qps, ReplacedEdgeIndices: map[int]bool{}}

	if ruleSet.SplitLines {
		lineCorpus := make([]geometry.LineString, len(net.Edges))
		for i, e := range net.Edges {
			lineCorpus[i] = e.Geometry
		}
		for i := range result.Points {
			qp := &result.Points[i]
			edgeIdx, _, ok := index.NearestLine(qp.Point, lineCorpus, ruleSet.SearchTolerance)
			if !ok {
				continue // isolated vertex; no connector
			}
			base := net.Edges[edgeIdx]
			onLine, fraction := kernel.Project(qp.Point, base.Geometry)
			before, after := kernel.Split(base.Geometry, fraction)

			splitNodeID := nextID
			nextID++

			result.ReplacedEdgeIndices[edgeIdx] = true
			result.SplitFragments = append(result.SplitFragments,
				network.Edge{Source: base.Source, Target: splitNodeID, Weight: base.Weight * fraction, Geometry: before, RowOrig: base.RowOrig},
				network.Edge{Source: splitNodeID, Target: base.Target, Weight: base.Weight * (1 - fraction), Geometry: after, RowOrig: base.RowOrig},
			)
			result.ConnectorEdges = append(result.ConnectorEdges, network.Edge{
				Source: qp.TempNodeID, Target: splitNodeID, Weight: 0,
				Geometry: kernel.LineBetween(qp.Point, onLine), Connector: true,
			})
			if bothDirections {
				result.ConnectorEdges = append(result.ConnectorEdges, network.Edge{
					Source: splitNodeID, Target: qp.TempNodeID, Weight: 0,
					Geometry: kernel.LineBetween(onLine, qp.Point), Connector: true,
				})
			}
		}
		return result
	}

	// Mode A: endpoint attach.
	nodePoints := make([]geometry.Point, len(net.Nodes))
	for i, n := range net.Nodes {
		nodePoints[i] = n.Point
	}
	k := len(net.Nodes)
	queryCoords := make([]geometry.Point, len(result.Points))
	for i, qp := range result.Points {
		queryCoords[i] = qp.Point
	}
	distances, indices := index.KNearestPoints(queryCoords, nodePoints, k)

	for i := range result.Points {
		qp := &result.Points[i]
		ds, ids := distances[i], indices[i]
		if len(ds) == 0 {
			continue
		}
		dStar := ds[0]
		window := dStar*(1+ruleSet.SearchFactor/100) + ruleSet.SearchFactor

		order := make([]int, len(ds))
		for j := range order {
			order[j] = j
		}
		sort.Slice(order, func(a, b int) bool { return ds[order[a]] < ds[order[b]] })

		for _, j := range order {
			d := ds[j]
			if d > ruleSet.SearchTolerance || d > window {
				continue
			}
			nodeID := net.Nodes[ids[j]].ID
			w := ruleSet.ConnectorWeight(d)
			result.ConnectorEdges = append(result.ConnectorEdges, network.Edge{
				Source: qp.TempNodeID, Target: nodeID, Weight: w,
				Geometry: kernel.LineBetween(qp.Point, net.Nodes[ids[j]].Point), Connector: true,
			})
			if bothDirections {
				result.ConnectorEdges = append(result.ConnectorEdges, network.Edge{
					Source: nodeID, Target: qp.TempNodeID, Weight: w,
					Geometry: kernel.LineBetween(net.Nodes[ids[j]].Point, qp.Point), Connector: true,
				})
			}
		}
	}

	return result
}
