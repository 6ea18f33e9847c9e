// Package network implements the Node Registry, Network Preparer, Hole
// Closer and Direction Builder: the plumbing that turns a raw table of line
// geometries into a stable, directed (or undirected) edge list ready for
// graph compilation.
package network

import (
	"fmt"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
)

// Edge is a directed edge in the prepared network. Weight is meaningful
// only after the Rule Set & Weight Validator has resolved a weight column
// (pkg/rules); a freshly-prepared or hole-closed network may carry NaN
// weight on synthetic edges until then.
type Edge struct {
	Source, Target int64
	Weight         float64
	Geometry       geometry.LineString
	RowOrig        int
	Synthetic      bool
	// Connector marks a query-time edge attaching a point to the network
	// (C5). Connector edges carry real weight under some node_weight_rule
	// settings but are never part of the routed geometry or the network
	// itself.
	Connector bool
}

// ID is the opaque row identifier used to join edges back to geometry,
// matching the "{src}_{tgt}_{weight}" convention from the data model.
func (e Edge) ID() string {
	return fmt.Sprintf("%d_%d_%v", e.Source, e.Target, e.Weight)
}

// Node is a unique line endpoint with a stable id within one revision.
type Node struct {
	ID     int64
	Point  geometry.Point
	Degree int
}

// Network is an immutable value: an edge list plus its derived node table
// and a revision counter. CloseHoles returns a new Network with Revision
// incremented when it adds edges; Direct and the weight validator return
// edge slices, not Networks, and bump no revision. Nothing here is ever
// mutated in place.
type Network struct {
	Edges    []Edge
	Nodes    []Node
	Revision uint64
}

// NodeByID returns the node with the given id, or false if absent.
func (n Network) NodeByID(id int64) (Node, bool) {
	for _, node := range n.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return Node{}, false
}

// MaxNodeID returns the largest node id in the network, or -1 if empty.
// Query Points are assigned temporary ids starting above this value, per
// the Design Notes' "fresh range per query" rule.
func (n Network) MaxNodeID() int64 {
	max := int64(-1)
	for _, node := range n.Nodes {
		if node.ID > max {
			max = node.ID
		}
	}
	return max
}

// withEdges returns a new Network carrying edges, a freshly rebuilt node
// table, and the next revision.
func (n Network) withEdges(edges []Edge) Network {
	nodes := BuildNodes(edges)
	return Network{Edges: edges, Nodes: nodes, Revision: n.Revision + 1}
}
