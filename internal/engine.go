// Package internal hosts the Engine: the coordinator that wires the Node
// Registry, Network Preparer, Hole Closer, Direction Builder, Point
// Connector, Graph Compiler, Query Engine and Result Assembler into the
// single API surface callers see. It owns the compiled-graph cache and the
// observable query log; nothing here is safe for concurrent mutation.
package internal

import (
	"fmt"

	"github.com/statisticsnorway/sgis-go/pkg/connector"
	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	sgraph "github.com/statisticsnorway/sgis-go/pkg/graph"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/statisticsnorway/sgis-go/pkg/query"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
	"github.com/statisticsnorway/sgis-go/pkg/spatial"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// PointInput is a caller-supplied origin or destination: a point with an
// optional id. The Engine assigns the temporary node id.
type PointInput struct {
	ID     string
	UserID any
	Point  geometry.Point
}

// Engine is the host API described by the routing engine's external
// interfaces: Engine::new, od_cost_matrix, get_route, get_k_routes,
// get_route_frequencies, service_area, log.
type Engine struct {
	net     network.Network
	rules   rules.RuleSet
	kernel  geometry.Kernel
	logger  *zap.Logger
	cache   *sgraph.Cache
	log     *engineLog
	nodeIdx spatial.Index
	nodeRev uint64
}

// NewEngine wires a prepared network and a rule set into a queryable
// engine. kernel is the Geometry Kernel collaborator (§6); callers that do
// not have their own CRS-aware kernel can pass geometry.Planar{}.
func NewEngine(net network.Network, ruleSet rules.RuleSet, kernel geometry.Kernel, cfg EngineConfig) (*Engine, error) {
	if kernel == nil {
		kernel = geometry.Planar{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if err := ruleSet.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		net:    net,
		rules:  ruleSet,
		kernel: kernel,
		logger: cfg.Logger,
		cache:  sgraph.NewCache(cfg.CacheCapacity),
		log:    newEngineLog(256),
	}
	e.refreshNodeIndex()
	return e, nil
}

// CloseHoles returns a new Engine over the network with holes closed,
// leaving the receiver untouched — Network is a value type; the Design
// Notes call for "never mutate the stored network in place".
func (e *Engine) CloseHoles(opts network.HoleCloserOptions) *Engine {
	closed := network.CloseHoles(e.net, opts, e.nodeIdx, e.kernel, e.logger)
	clone := *e
	clone.net = closed
	clone.refreshNodeIndex()
	clone.cache = sgraph.NewCache(4)
	return &clone
}

func (e *Engine) refreshNodeIndex() {
	points := make([]geometry.Point, len(e.net.Nodes))
	for i, n := range e.net.Nodes {
		points[i] = n.Point
	}
	e.nodeIdx = spatial.NewQuadTree(points)
	e.nodeRev = e.net.Revision
}

// Log returns a read-only snapshot of the engine's observable query log.
func (e *Engine) Log() LogView {
	return e.log.view()
}

// compileFor runs C5 (Point Connector) and C6 (Graph Compiler) for one pair
// of origin/destination batches, consulting the fingerprint cache first.
func (e *Engine) compileFor(origins, destinations []PointInput, directed bool) (*sgraph.Compiled, []connector.QueryPoint, []connector.QueryPoint, error) {
	originPoints := make([]geometry.Point, len(origins))
	originIDs := make([]string, len(origins))
	for i, o := range origins {
		originPoints[i] = o.Point
		originIDs[i] = o.ID
	}
	destPoints := make([]geometry.Point, len(destinations))
	destIDs := make([]string, len(destinations))
	for i, d := range destinations {
		destPoints[i] = d.Point
		destIDs[i] = d.ID
	}

	firstTemp := e.net.MaxNodeID() + 1
	originOffset := firstTemp
	destOffset := firstTemp + int64(len(origins))*1_000_000 // disjoint range, generous headroom for split-fragment ids

	originResult := connector.Connect(e.net, originPoints, originIDs, e.rules, e.nodeIdx, e.kernel, originOffset, !directed)
	destResult := connector.Connect(e.net, destPoints, destIDs, e.rules, e.nodeIdx, e.kernel, destOffset, true)

	allPoints := append(append([]geometry.Point{}, originPoints...), destPoints...)
	fp := sgraph.Fingerprint{
		NetworkRevision: e.net.Revision,
		RuleHash:        e.rules.Fingerprint(),
		PointsHash:      sgraph.HashPoints(allPoints),
	}
	if cached, ok := e.cache.Get(fp); ok {
		return cached, setUserIDs(originResult.Points, origins), setUserIDs(destResult.Points, destinations), nil
	}

	replaced := make(map[int]bool, len(originResult.ReplacedEdgeIndices)+len(destResult.ReplacedEdgeIndices))
	for i := range originResult.ReplacedEdgeIndices {
		replaced[i] = true
	}
	for i := range destResult.ReplacedEdgeIndices {
		replaced[i] = true
	}

	baseEdges := make([]network.Edge, 0, len(e.net.Edges))
	for i, edge := range e.net.Edges {
		if replaced[i] {
			continue
		}
		baseEdges = append(baseEdges, edge)
	}
	baseEdges = append(baseEdges, originResult.SplitFragments...)
	baseEdges = append(baseEdges, destResult.SplitFragments...)

	connectorEdges := append(append([]network.Edge{}, originResult.ConnectorEdges...), destResult.ConnectorEdges...)

	isolated := make([]int64, 0)
	for _, qp := range originResult.Points {
		isolated = append(isolated, qp.TempNodeID)
	}
	for _, qp := range destResult.Points {
		isolated = append(isolated, qp.TempNodeID)
	}

	compiled, err := sgraph.Build(baseEdges, connectorEdges, isolated, directed, firstTemp)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("engine: compile graph: %w", err)
	}
	e.cache.Put(fp, compiled)

	return compiled, setUserIDs(originResult.Points, origins), setUserIDs(destResult.Points, destinations), nil
}

func setUserIDs(qps []connector.QueryPoint, inputs []PointInput) []connector.QueryPoint {
	for i := range qps {
		if i < len(inputs) {
			qps[i].UserID = inputs[i].UserID
		}
	}
	return qps
}

// ODCostMatrix implements Engine::od_cost_matrix (§4.7.1).
func (e *Engine) ODCostMatrix(origins, destinations []PointInput, opts query.ODOptions, directed bool) ([]query.Row, error) {
	compiled, originQPs, destQPs, err := e.compileFor(origins, destinations, directed)
	if err != nil {
		return nil, err
	}
	rows, err := query.ODCostMatrix(compiled, query.FromQueryPoints(originQPs), query.FromQueryPoints(destQPs), opts, e.kernel, e.logger)
	if err != nil {
		return nil, err
	}
	e.recordLog("od_cost_matrix", len(origins), len(destinations), rows)
	return rows, nil
}

// GetRoute implements Engine::get_route (§4.7.2).
func (e *Engine) GetRoute(origins, destinations []PointInput, directed bool) ([]query.Row, error) {
	compiled, originQPs, destQPs, err := e.compileFor(origins, destinations, directed)
	if err != nil {
		return nil, err
	}
	rows, warnings := query.GetRoute(compiled, query.FromQueryPoints(originQPs), query.FromQueryPoints(destQPs), e.rules, e.kernel, e.logger)
	if warnings != nil {
		for _, w := range multierr.Errors(warnings) {
			e.logger.Warn("get_route", zap.Error(w))
		}
	}
	e.recordLog("get_route", len(origins), len(destinations), rows)
	return rows, nil
}

// GetKRoutes implements Engine::get_k_routes (§4.7.3).
func (e *Engine) GetKRoutes(origins, destinations []PointInput, k int, dropMiddlePercent float64, directed bool) ([]query.Row, error) {
	compiled, originQPs, destQPs, err := e.compileFor(origins, destinations, directed)
	if err != nil {
		return nil, err
	}
	rows, err := query.GetKRoutes(compiled, query.FromQueryPoints(originQPs), query.FromQueryPoints(destQPs), k, dropMiddlePercent, e.rules, e.kernel, e.logger)
	if err != nil {
		return nil, err
	}
	e.recordLog("get_k_routes", len(origins), len(destinations), rows)
	return rows, nil
}

// GetRouteFrequencies implements Engine::get_route_frequencies (§4.7.4).
func (e *Engine) GetRouteFrequencies(origins, destinations []PointInput, weights map[[2]int]float64, directed bool) ([]query.FrequencyEdge, error) {
	compiled, originQPs, destQPs, err := e.compileFor(origins, destinations, directed)
	if err != nil {
		return nil, err
	}
	edges := query.GetRouteFrequencies(compiled, query.FromQueryPoints(originQPs), query.FromQueryPoints(destQPs), e.rules, weights, e.logger)
	e.log.append(LogEntry{Method: "get_route_frequencies", RuleSnapshot: e.rules.Weight.String(), NOrigins: len(origins), NDestinations: len(destinations)})
	return edges, nil
}

// ServiceArea implements Engine::service_area (§4.7.5).
func (e *Engine) ServiceArea(origins []PointInput, breaks []float64, dissolve bool, directed bool) ([]query.ServiceAreaRow, error) {
	compiled, originQPs, _, err := e.compileFor(origins, nil, directed)
	if err != nil {
		return nil, err
	}
	rows, err := query.ServiceArea(compiled, query.FromQueryPoints(originQPs), breaks, dissolve, e.kernel, e.logger)
	if err != nil {
		return nil, err
	}
	e.log.append(LogEntry{Method: "service_area", RuleSnapshot: e.rules.Weight.String(), NOrigins: len(origins)})
	return rows, nil
}

func (e *Engine) recordLog(method string, nOrigins, nDestinations int, rows []query.Row) {
	total, missing := 0.0, 0
	for _, r := range rows {
		if r.Missing {
			missing++
			continue
		}
		total += r.Weight
	}
	mean := 0.0
	if len(rows) > missing {
		mean = total / float64(len(rows)-missing)
	}
	percentMissing := 0.0
	if len(rows) > 0 {
		percentMissing = float64(missing) / float64(len(rows)) * 100
	}
	e.log.append(LogEntry{
		Method: method, RuleSnapshot: e.rules.Weight.String(),
		NOrigins: nOrigins, NDestinations: nDestinations,
		CostMean: mean, PercentMissing: percentMissing,
	})
}
