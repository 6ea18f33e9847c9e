package internal

import (
	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"github.com/statisticsnorway/sgis-go/pkg/spatial"
	"go.uber.org/zap"
)

// DirectionFor maps a prepared, node-id-assigned edge to its directionality
// and per-direction weight inputs, supplying the oneway/weight columns the
// Direction Builder needs but that Prepare's output does not carry. For a
// synthetic edge (from the Hole Closer) both weight pointers should be
// non-nil placeholders — the Weight Validator recomputes synthetic weight
// from geometry regardless of what is supplied here, but a nil pointer
// would make the Direction Builder drop the edge before it gets there.
type DirectionFor func(edge network.Edge) network.DirectedRow

// BuildNetwork runs the full ingestion pipeline — Network Preparer, Node
// Registry, optional Hole Closer, Direction Builder, then the Weight
// Validator — turning raw line rows into the Network an Engine can query.
// The stage order matches the component design: geometry is cleaned and
// node ids assigned before direction is applied, because the Direction
// Builder needs stable Source/Target ids to reverse backward rows.
func BuildNetwork(
	rawRows []network.RawLine,
	directionFor DirectionFor,
	weightSpec rules.WeightSpec,
	rawColumn map[int]float64,
	holes *network.HoleCloserOptions,
	cfg EngineConfig,
	kernel geometry.Kernel,
) (network.Network, error) {
	if kernel == nil {
		kernel = geometry.Planar{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	prepared, err := network.Prepare(rawRows, cfg.Prepare, kernel, logger)
	if err != nil {
		return network.Network{}, err
	}

	withIDs, nodes := network.AssignNodeIDs(prepared)
	net := network.Network{Edges: withIDs, Nodes: nodes}

	if holes != nil {
		index := spatial.NewQuadTree(pointsOf(net.Nodes))
		net = network.CloseHoles(net, *holes, index, kernel, logger)
	}

	directed := make([]network.DirectedRow, len(net.Edges))
	for i, e := range net.Edges {
		directed[i] = directionFor(e)
	}
	directedEdges := network.Direct(directed, logger)

	weighted, err := rules.ResolveWeights(directedEdges, weightSpec, rawColumn, kernel, logger)
	if err != nil {
		return network.Network{}, err
	}

	finalNodes := network.BuildNodes(weighted)
	return network.Network{Edges: weighted, Nodes: finalNodes, Revision: 0}, nil
}

func pointsOf(nodes []network.Node) []geometry.Point {
	out := make([]geometry.Point, len(nodes))
	for i, n := range nodes {
		out[i] = n.Point
	}
	return out
}
