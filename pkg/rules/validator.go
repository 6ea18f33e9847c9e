package rules

import (
	"fmt"
	"math"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"github.com/statisticsnorway/sgis-go/pkg/network"
	"go.uber.org/zap"
)

// ResolveWeights implements the weight-column half of C8: it produces a new
// edge slice with Weight populated according to spec, dropping rows that
// fail validation with a structured warning rather than failing the call.
//
// rawColumn supplies the named/minutes column value per edge's RowOrig, for
// WeightNamed and WeightMinutes specs; it is ignored for WeightLength.
// Synthetic edges (from the Hole Closer) always fall back to geometric
// length, since they have no originating row.
func ResolveWeights(edges []network.Edge, spec WeightSpec, rawColumn map[int]float64, kernel geometry.Kernel, logger *zap.Logger) ([]network.Edge, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spec.Kind != WeightLength && rawColumn == nil {
		return nil, fmt.Errorf("rules: named/minutes weight requires a column: %w", ErrWeightColumnMissing)
	}

	out := make([]network.Edge, 0, len(edges))
	droppedNaN, droppedNegative := 0, 0

	for _, e := range edges {
		w, ok := resolveOne(e, spec, rawColumn, kernel)
		if !ok {
			droppedNaN++
			continue
		}
		if w < 0 {
			droppedNegative++
			continue
		}
		e.Weight = w
		out = append(out, e)
	}

	logger.Debug("weight validator",
		zap.String("weight", spec.String()),
		zap.Int("dropped_nan", droppedNaN),
		zap.Int("dropped_negative", droppedNegative),
		zap.Int("kept", len(out)),
	)

	if len(out) == 0 {
		return nil, ErrInvalidWeight
	}
	return out, nil
}

func resolveOne(e network.Edge, spec WeightSpec, rawColumn map[int]float64, kernel geometry.Kernel) (float64, bool) {
	if e.Synthetic {
		return kernel.Length(e.Geometry), true
	}
	switch spec.Kind {
	case WeightLength:
		return kernel.Length(e.Geometry), true
	default: // WeightMinutes, WeightNamed
		v, ok := rawColumn[e.RowOrig]
		if !ok || math.IsNaN(v) {
			return 0, false
		}
		return v, true
	}
}
