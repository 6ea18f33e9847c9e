// Package query implements the Query Engine (C7): OD cost matrices, route
// geometries, k-alternative routes, route frequencies and service areas,
// all run against a compiled graph from pkg/graph.
package query

import (
	"fmt"
	"sort"

	"github.com/statisticsnorway/sgis-go/pkg/connector"
	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"go.uber.org/zap"
)

// Row is one result row shared by every query family; fields not
// applicable to a given call are left at their zero value.
type Row struct {
	OriginID      any
	DestinationID any
	Weight        float64
	Missing       bool
	Geometry      *geometry.LineString
	K             int
}

// Point is the minimal view of a connector.QueryPoint the query engine
// needs: its assigned graph node id and the caller-facing id to report.
type Point struct {
	NodeID int64
	UserID any
	Coord  geometry.Point
}

func fromQueryPoints(qps []connector.QueryPoint) []Point {
	out := make([]Point, len(qps))
	for i, qp := range qps {
		id := qp.UserID
		if id == nil {
			id = qp.ID
		}
		out[i] = Point{NodeID: qp.TempNodeID, UserID: id, Coord: qp.Point}
	}
	return out
}

// FromQueryPoints exposes fromQueryPoints to callers assembling engine-level
// request plumbing.
func FromQueryPoints(qps []connector.QueryPoint) []Point { return fromQueryPoints(qps) }

const inf = 1.0e308 // gonum reports unreachable nodes with math.Inf(1); treat any huge weight as missing too.

func isMissing(w float64) bool {
	return w >= inf || w != w // NaN or effectively infinite
}

// RouteEdge is one hop of a recovered path: the edge metadata plus the
// (from, to) node pair gonum's node-only path loses, needed to remove a
// specific edge from a working graph copy (K Routes).
type RouteEdge struct {
	graph.EdgeMeta
	From, To int64
}

// recoverPath walks a Dijkstra node path and returns the edge metadata for
// each hop, in path order.
func recoverPath(compiled *graph.Compiled, nodes []int64) []RouteEdge {
	var edges []RouteEdge
	for i := 1; i < len(nodes); i++ {
		if meta, ok := compiled.EdgeMetaBetween(nodes[i-1], nodes[i]); ok {
			edges = append(edges, RouteEdge{EdgeMeta: meta, From: nodes[i-1], To: nodes[i]})
		}
	}
	return edges
}

// routeEdges runs Dijkstra with path recovery for one (origin, destination)
// pair and returns the non-connector edges on the path plus the route's
// total cost accounted per the weight rule (connector weight only counts
// when NodeWeightRule is non-zero).
func routeEdges(compiled *graph.Compiled, origin, destination int64, rule rules.RuleSet) (edges []RouteEdge, cost float64, found bool) {
	if !compiled.HasNode(origin) || !compiled.HasNode(destination) {
		return nil, 0, false
	}
	shortest := compiled.ShortestFrom(origin)
	nodes, weight := shortestTo(shortest, destination)
	if nodes == nil || isMissing(weight) {
		return nil, 0, false
	}
	hops := recoverPath(compiled, nodes)

	total := 0.0
	kept := make([]RouteEdge, 0, len(hops))
	for _, h := range hops {
		if h.Connector {
			if rule.NodeWeightRule.Kind != rules.ConnectorZero {
				total += h.Weight
			}
			continue
		}
		total += h.Weight
		kept = append(kept, h)
	}
	return kept, total, true
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := fmt.Sprint(rows[i].OriginID), fmt.Sprint(rows[j].OriginID)
		if oi != oj {
			return oi < oj
		}
		return fmt.Sprint(rows[i].DestinationID) < fmt.Sprint(rows[j].DestinationID)
	})
}

func nopLogger(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
