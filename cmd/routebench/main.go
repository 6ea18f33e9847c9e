// routebench builds a synthetic grid network and exercises the Engine's
// route queries concurrently, reporting latency
// percentiles — the same shape of harness the benchmarks in this repo have
// always used, pointed at road routing instead of a service mesh.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/statisticsnorway/sgis-go/internal"
	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"github.com/statisticsnorway/sgis-go/pkg/rules"
)

const (
	gridSize          = 20 // gridSize x gridSize nodes
	cellSize          = 100.0
	testRequests      = 2000
	concurrentWorkers = 8
)

type benchResult struct {
	averageLatency time.Duration
	p50, p90, p99  time.Duration
	requestsPerSec float64
	noPathRate     float64
}

func main() {
	log.Printf("building synthetic grid network (%dx%d nodes)", gridSize, gridSize)
	eng, nodeIDs := buildGridEngine(gridSize, cellSize)

	log.Printf("warming up")
	warmup(eng, nodeIDs)

	log.Printf("running %d route lookups across %d workers", testRequests, concurrentWorkers)
	result := runBench(eng, nodeIDs)

	displayResult(result)

	view := eng.Log()
	log.Printf("engine log retained %d entries, most recent method=%s mean_cost=%.2f",
		len(view.Entries), view.Entries[len(view.Entries)-1].Method, view.Entries[len(view.Entries)-1].CostMean)
}

// buildGridEngine lays out a gridSize x gridSize mesh of unit cells (two
// diagonals per cell dropped, matching a street grid rather than a full
// mesh) and wires it through the full ingestion pipeline into an Engine.
func buildGridEngine(n int, cell float64) (*internal.Engine, []internal.PointInput) {
	var rows []network.RawLine
	pointAt := func(i, j int) geometry.Point {
		return geometry.Point{X: float64(i) * cell, Y: float64(j) * cell}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i+1 < n {
				rows = append(rows, network.RawLine{Parts: []geometry.LineString{
					{Points: []geometry.Point{pointAt(i, j), pointAt(i+1, j)}},
				}})
			}
			if j+1 < n {
				rows = append(rows, network.RawLine{Parts: []geometry.LineString{
					{Points: []geometry.Point{pointAt(i, j), pointAt(i, j+1)}},
				}})
			}
		}
	}

	cfg := internal.DefaultEngineConfig()
	directionFor := func(e network.Edge) network.DirectedRow {
		both := 1.0
		return network.DirectedRow{Edge: e, OneWay: network.Both, WeightFW: &both, WeightBW: &both}
	}

	net, err := internal.BuildNetwork(rows, directionFor, rules.WeightSpec{Kind: rules.WeightLength}, nil, nil, cfg, geometry.Planar{})
	if err != nil {
		log.Fatalf("build network: %v", err)
	}

	ruleSet := rules.RuleSet{
		Weight:          rules.WeightSpec{Kind: rules.WeightLength},
		SearchTolerance: cell,
		SearchFactor:    10,
		SplitLines:      false,
	}
	eng, err := internal.NewEngine(net, ruleSet, geometry.Planar{}, cfg)
	if err != nil {
		log.Fatalf("new engine: %v", err)
	}

	points := make([]internal.PointInput, 0, len(net.Nodes))
	for _, node := range net.Nodes {
		points = append(points, internal.PointInput{ID: fmt.Sprint(node.ID), UserID: node.ID, Point: node.Point})
	}
	return eng, points
}

func warmup(eng *internal.Engine, points []internal.PointInput) {
	for i := 0; i < 100; i++ {
		o, d := randomPair(points)
		eng.GetRoute([]internal.PointInput{o}, []internal.PointInput{d}, true)
	}
}

func runBench(eng *internal.Engine, points []internal.PointInput) benchResult {
	var mu sync.Mutex
	var wg sync.WaitGroup
	latencies := make([]time.Duration, 0, testRequests)
	noPath := 0

	perWorker := testRequests / concurrentWorkers
	start := time.Now()

	for w := 0; w < concurrentWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]time.Duration, 0, perWorker)
			localNoPath := 0
			for i := 0; i < perWorker; i++ {
				o, d := randomPair(points)
				t0 := time.Now()
				rows, err := eng.GetRoute([]internal.PointInput{o}, []internal.PointInput{d}, true)
				local = append(local, time.Since(t0))
				if err != nil || len(rows) == 0 {
					localNoPath++
				}
			}
			mu.Lock()
			latencies = append(latencies, local...)
			noPath += localNoPath
			mu.Unlock()
		}()
	}
	wg.Wait()
	elapsed := time.Since(start).Seconds()

	sortDurations(latencies)
	n := len(latencies)
	pick := func(p float64) time.Duration {
		if n == 0 {
			return 0
		}
		idx := int(float64(n) * p)
		if idx >= n {
			idx = n - 1
		}
		return latencies[idx]
	}

	total := time.Duration(0)
	for _, l := range latencies {
		total += l
	}
	avg := time.Duration(0)
	if n > 0 {
		avg = total / time.Duration(n)
	}

	return benchResult{
		averageLatency: avg,
		p50:            pick(0.50),
		p90:            pick(0.90),
		p99:            pick(0.99),
		requestsPerSec: float64(n) / elapsed,
		noPathRate:     float64(noPath) / float64(testRequests) * 100,
	}
}

func randomPair(points []internal.PointInput) (internal.PointInput, internal.PointInput) {
	o := points[rand.Intn(len(points))]
	d := points[rand.Intn(len(points))]
	return o, d
}

func sortDurations(d []time.Duration) {
	for i := 0; i < len(d)-1; i++ {
		for j := 0; j < len(d)-i-1; j++ {
			if d[j] > d[j+1] {
				d[j], d[j+1] = d[j+1], d[j]
			}
		}
	}
}

func displayResult(r benchResult) {
	fmt.Println("ROUTE BENCHMARK RESULTS")
	fmt.Printf("  Average Latency:   %v\n", r.averageLatency)
	fmt.Printf("  P50 Latency:       %v\n", r.p50)
	fmt.Printf("  P90 Latency:       %v\n", r.p90)
	fmt.Printf("  P99 Latency:       %v\n", r.p99)
	fmt.Printf("  Requests/Second:   %.0f\n", r.requestsPerSec)
	fmt.Printf("  No-Path Rate:      %.2f%%\n", r.noPathRate)
}
