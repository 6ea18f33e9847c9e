// Package graph implements the Graph Compiler (C6): assembling base and
// connector edges into a gonum weighted graph ready for Dijkstra, with a
// fingerprint-keyed cache so repeated identical queries skip rebuilding.
package graph

import (
	"fmt"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// ErrInvalidWeight is raised if a negative weight reaches compilation; this
// should never happen downstream of the Weight Validator and Direction
// Builder, which drop negative rows earlier, so it signals a programming
// error in the caller rather than bad input data.
var ErrInvalidWeight = fmt.Errorf("graph: negative weight edge reached compilation")

// EdgeMeta is everything the Query Engine and Result Assembler need to
// recover a shortest path's geometry: gonum's Dijkstra returns only a node
// sequence, so the compiled graph keeps a parallel edge-id index exactly as
// a node-path-to-edge-path adapter.
type EdgeMeta struct {
	EdgeID    string
	Weight    float64
	Geometry  geometry.LineString
	RowOrig   int
	Synthetic bool
	Connector bool
}

// Compiled is the C6 output: a gonum graph plus the edge index needed to
// reconstruct paths, and the threshold above which node ids belong to this
// query's temporary points rather than the stored network.
type Compiled struct {
	Directed        bool
	directedG       *simple.WeightedDirectedGraph
	undirectedG     *simple.WeightedUndirectedGraph
	edgeIndex       map[int64]map[int64]EdgeMeta
	FirstTempNodeID int64
}

// Build implements the C6 Assembly algorithm: start from the base edge
// list, append connector edges, add isolated query points, and validate
// non-negative weights. directed selects WeightedDirectedGraph vs
// WeightedUndirectedGraph.
func Build(baseEdges []network.Edge, connectorEdges []network.Edge, isolatedNodeIDs []int64, directed bool, firstTempNodeID int64) (*Compiled, error) {
	c := &Compiled{
		Directed:        directed,
		edgeIndex:       make(map[int64]map[int64]EdgeMeta),
		FirstTempNodeID: firstTempNodeID,
	}
	if directed {
		c.directedG = simple.NewWeightedDirectedGraph(0, 0)
	} else {
		c.undirectedG = simple.NewWeightedUndirectedGraph(0, 0)
	}

	for _, e := range baseEdges {
		if err := c.addEdge(e); err != nil {
			return nil, err
		}
	}
	for _, e := range connectorEdges {
		if err := c.addEdge(e); err != nil {
			return nil, err
		}
	}
	for _, id := range isolatedNodeIDs {
		c.addNode(id)
	}

	return c, nil
}

func (c *Compiled) addNode(id int64) {
	n := simple.Node(id)
	if c.Directed {
		if !c.directedG.Has(n) {
			c.directedG.AddNode(n)
		}
	} else {
		if !c.undirectedG.Has(n) {
			c.undirectedG.AddNode(n)
		}
	}
}

func (c *Compiled) addEdge(e network.Edge) error {
	if e.Weight < 0 {
		return ErrInvalidWeight
	}
	from, to := simple.Node(e.Source), simple.Node(e.Target)
	if c.Directed {
		c.directedG.SetWeightedEdge(c.directedG.NewWeightedEdge(from, to, e.Weight))
	} else {
		c.undirectedG.SetWeightedEdge(c.undirectedG.NewWeightedEdge(from, to, e.Weight))
	}

	if c.edgeIndex[e.Source] == nil {
		c.edgeIndex[e.Source] = make(map[int64]EdgeMeta)
	}
	meta := EdgeMeta{EdgeID: e.ID(), Weight: e.Weight, Geometry: e.Geometry, RowOrig: e.RowOrig, Synthetic: e.Synthetic, Connector: e.Connector}
	c.edgeIndex[e.Source][e.Target] = meta
	if !c.Directed {
		if c.edgeIndex[e.Target] == nil {
			c.edgeIndex[e.Target] = make(map[int64]EdgeMeta)
		}
		c.edgeIndex[e.Target][e.Source] = meta
	}
	return nil
}

// RemoveEdge deletes the edge between from and to from a working copy,
// used by the K Routes algorithm to forbid a previously-used edge.
func (c *Compiled) RemoveEdge(from, to int64) {
	e := simple.Edge{F: simple.Node(from), T: simple.Node(to)}
	if c.Directed {
		c.directedG.RemoveEdge(e)
	} else {
		c.undirectedG.RemoveEdge(e)
	}
}

// Clone returns a deep-enough copy of the compiled graph for K Routes'
// "delete edges from a working copy, rerun" loop: node and edge sets are
// copied; EdgeMeta values are immutable and shared.
func (c *Compiled) Clone() *Compiled {
	clone := &Compiled{Directed: c.Directed, edgeIndex: make(map[int64]map[int64]EdgeMeta, len(c.edgeIndex)), FirstTempNodeID: c.FirstTempNodeID}
	for k, v := range c.edgeIndex {
		inner := make(map[int64]EdgeMeta, len(v))
		for k2, v2 := range v {
			inner[k2] = v2
		}
		clone.edgeIndex[k] = inner
	}
	if c.Directed {
		clone.directedG = simple.NewWeightedDirectedGraph(0, 0)
		for _, n := range c.directedG.Nodes() {
			clone.directedG.AddNode(n)
		}
		for _, e := range c.directedG.WeightedEdges() {
			clone.directedG.SetWeightedEdge(e)
		}
	} else {
		clone.undirectedG = simple.NewWeightedUndirectedGraph(0, 0)
		for _, n := range c.undirectedG.Nodes() {
			clone.undirectedG.AddNode(n)
		}
		for _, e := range c.undirectedG.WeightedEdges() {
			clone.undirectedG.SetWeightedEdge(e)
		}
	}
	return clone
}

// ShortestFrom runs Dijkstra from the given node id over whichever concrete
// gonum graph backs this Compiled instance.
func (c *Compiled) ShortestFrom(from int64) path.Shortest {
	if c.Directed {
		return path.DijkstraFrom(simple.Node(from), c.directedG)
	}
	return path.DijkstraFrom(simple.Node(from), c.undirectedG)
}

// EdgeMetaBetween returns the edge metadata for the directed hop (from, to)
// recovered from a Dijkstra node path.
func (c *Compiled) EdgeMetaBetween(from, to int64) (EdgeMeta, bool) {
	inner, ok := c.edgeIndex[from]
	if !ok {
		return EdgeMeta{}, false
	}
	meta, ok := inner[to]
	return meta, ok
}

// IsConnectorNode reports whether id belongs to this query's temporary
// point range rather than the stored network.
func (c *Compiled) IsConnectorNode(id int64) bool {
	return id >= c.FirstTempNodeID
}

// AllEdgesFrom is a (from, to, meta) triple used by callers that need to
// walk every edge in the compiled graph, such as the Service Area query.
type AllEdgesFrom struct {
	From, To int64
	Meta     EdgeMeta
}

// AllEdges returns every directed hop in the compiled graph's edge index.
// For an undirected graph each physical edge appears twice (once per
// direction); callers that need one row per edge should dedupe by
// Meta.EdgeID.
func (c *Compiled) AllEdges() []AllEdgesFrom {
	var out []AllEdgesFrom
	for from, inner := range c.edgeIndex {
		for to, meta := range inner {
			out = append(out, AllEdgesFrom{From: from, To: to, Meta: meta})
		}
	}
	return out
}

// HasNode reports whether id is present in the compiled graph.
func (c *Compiled) HasNode(id int64) bool {
	n := simple.Node(id)
	if c.Directed {
		return c.directedG.Has(n)
	}
	return c.undirectedG.Has(n)
}
