package network

import (
	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"go.uber.org/zap"
)

// OneWay is the normalized directionality of a line row. Callers are
// responsible for normalizing source encodings ("B"/"FT"/"TF", boolean
// columns) to one of these three values before calling Direct.
type OneWay int

const (
	Both OneWay = iota
	Forward
	Backward
)

// DirectedRow is one input row to the Direction Builder: an undirected base
// edge plus its oneway flag and optional forward/backward weights.
type DirectedRow struct {
	Edge      Edge
	OneWay    OneWay
	WeightFW  *float64
	WeightBW  *float64
}

// Direct implements the Direction Builder (C4): it expands undirected rows
// into one or two directed edges using oneway flags and fw/bw weights. Rows
// where both weights are null are dropped entirely; a row where the
// direction-specific weight is negative drops just that direction.
func Direct(rows []DirectedRow, logger *zap.Logger) []Edge {
	if logger == nil {
		logger = zap.NewNop()
	}

	var edges []Edge
	droppedNull, droppedNegative := 0, 0

	for _, r := range rows {
		if r.WeightFW == nil && r.WeightBW == nil {
			droppedNull++
			continue
		}

		start, end := r.Edge.Geometry.Start(), r.Edge.Geometry.End()

		emitForward := func() {
			if r.WeightFW == nil {
				return
			}
			if *r.WeightFW < 0 {
				droppedNegative++
				return
			}
			edges = append(edges, Edge{
				Source: r.Edge.Source, Target: r.Edge.Target,
				Weight: *r.WeightFW, Geometry: r.Edge.Geometry, RowOrig: r.Edge.RowOrig,
				Synthetic: r.Edge.Synthetic,
			})
		}
		emitBackward := func() {
			if r.WeightBW == nil {
				return
			}
			if *r.WeightBW < 0 {
				droppedNegative++
				return
			}
			edges = append(edges, Edge{
				Source: r.Edge.Target, Target: r.Edge.Source,
				Weight: *r.WeightBW, Geometry: reverseLine(r.Edge.Geometry), RowOrig: r.Edge.RowOrig,
				Synthetic: r.Edge.Synthetic,
			})
		}

		switch r.OneWay {
		case Both:
			emitForward()
			emitBackward()
		case Forward:
			emitForward()
		case Backward:
			emitBackward()
		}
		_ = start
		_ = end
	}

	logger.Debug("direction builder",
		zap.Int("input_rows", len(rows)),
		zap.Int("dropped_null_weight", droppedNull),
		zap.Int("dropped_negative_weight", droppedNegative),
		zap.Int("output_edges", len(edges)),
	)
	return edges
}

func reverseLine(l geometry.LineString) geometry.LineString {
	pts := make([]geometry.Point, len(l.Points))
	for i, p := range l.Points {
		pts[len(l.Points)-1-i] = p
	}
	return geometry.LineString{Points: pts}
}
