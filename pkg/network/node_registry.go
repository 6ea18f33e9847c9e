package network

import (
	"math"
	"sort"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
)

// coordinatePrecision is the implementation-chosen rounding precision (in
// CRS units) used to canonicalize endpoints before deduplication. Fixed and
// applied identically to every edge, per C1's determinism requirement.
const coordinatePrecision = 1e-6

func round(v float64) float64 {
	return math.Round(v/coordinatePrecision) * coordinatePrecision
}

func canonical(p geometry.Point) geometry.Point {
	return geometry.Point{X: round(p.X), Y: round(p.Y)}
}

// BuildNodes implements the node-table half of the Node Registry (C1): it
// assigns stable integer node ids to the unique canonical endpoints of
// edges and returns the derived node table sorted by (x, y) for
// determinism.
//
// edgesWithIDs is read, not mutated, and BuildNodes does not write
// Source/Target; use AssignNodeIDs to get the Source/Target-populated copy.
func BuildNodes(edgesWithIDs []Edge) []Node {
	degree := make(map[geometry.Point]int)
	seen := make(map[geometry.Point]bool)
	var uniq []geometry.Point

	for _, e := range edgesWithIDs {
		start := canonical(e.Geometry.Start())
		end := canonical(e.Geometry.End())
		for _, p := range []geometry.Point{start, end} {
			degree[p]++
			if !seen[p] {
				seen[p] = true
				uniq = append(uniq, p)
			}
		}
	}

	sort.Slice(uniq, func(i, j int) bool {
		if uniq[i].X != uniq[j].X {
			return uniq[i].X < uniq[j].X
		}
		return uniq[i].Y < uniq[j].Y
	})

	nodes := make([]Node, len(uniq))
	for i, p := range uniq {
		nodes[i] = Node{ID: int64(i), Point: p, Degree: degree[p]}
	}
	return nodes
}

// AssignNodeIDs runs the full C1 contract: make_node_ids(edges) →
// (edges_with_source_target, nodes). It is the entry point used by the
// Network Preparer and Hole Closer whenever topology changes and node ids
// must be recomputed from scratch.
func AssignNodeIDs(edges []Edge) ([]Edge, []Node) {
	nodes := BuildNodes(edges)
	lookup := make(map[geometry.Point]int64, len(nodes))
	for _, n := range nodes {
		lookup[n.Point] = n.ID
	}

	out := make([]Edge, len(edges))
	for i, e := range edges {
		start := canonical(e.Geometry.Start())
		end := canonical(e.Geometry.End())
		e.Source = lookup[start]
		e.Target = lookup[end]
		out[i] = e
	}
	return out, nodes
}
