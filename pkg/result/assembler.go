// Package result implements the Result Assembler (C9): joining recovered
// edge ids back to line geometries, dissolving per (origin, destination[,
// k]), and substituting caller-supplied user ids for temporary node ids.
package result

import (
	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/graph"
)

// EdgeRecord is the weight/geometry pair the assembler keeps per edge id,
// mirroring the Data Model's "edge_id → (weight, geometry)" map.
type EdgeRecord struct {
	Weight   float64
	Geometry geometry.LineString
}

// EdgeIndex maps an edge id to its weight and geometry.
type EdgeIndex map[string]EdgeRecord

// BuildEdgeIndex snapshots a compiled graph's edges into an EdgeIndex, for
// callers that need to look geometry up by id rather than walk a
// recovered path directly (e.g. assembling a route from an externally
// recorded edge-id list).
func BuildEdgeIndex(compiled *graph.Compiled) EdgeIndex {
	idx := make(EdgeIndex)
	for _, e := range compiled.AllEdges() {
		idx[e.Meta.EdgeID] = EdgeRecord{Weight: e.Meta.Weight, Geometry: e.Meta.Geometry}
	}
	return idx
}

// Dissolve unions a set of line geometries into one multi-line, the final
// step of assembling a route, k-route, or service-area result.
func Dissolve(kernel geometry.Kernel, lines []geometry.LineString) geometry.LineString {
	return kernel.Union(lines)
}

// ResolveUserID substitutes a caller-supplied user id for an internal
// identifier when one was provided, falling back to the internal id
// otherwise. The mapping is 1:1 within a query, per the Query Points data
// model.
func ResolveUserID(userID any, fallback int64) any {
	if userID != nil {
		return userID
	}
	return fallback
}
