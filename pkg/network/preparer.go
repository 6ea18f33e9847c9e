package network

import (
	"fmt"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
	"go.uber.org/zap"
)

// RawLine is one input row to the Network Preparer: a possibly multi-part
// line geometry plus a marker for rows that are not line-shaped at all
// (points, polygons) so C2 can fail fast on mixed geometry types rather
// than silently coercing them.
type RawLine struct {
	Parts     []geometry.LineString
	NonLinear bool
}

func (r RawLine) empty() bool {
	if r.NonLinear {
		return false
	}
	for _, p := range r.Parts {
		if len(p.Points) >= 2 {
			return false
		}
	}
	return true
}

// PrepareOptions controls the C2 Network Preparer's optional steps.
type PrepareOptions struct {
	// MergeLines runs a row-wise line-merge pass before exploding, fusing
	// multi-part rows into one LineString where parts connect end-to-end.
	MergeLines bool
	RingTol    float64
}

// Prepare implements the Network Preparer (C2): clean a raw line table into
// an edge list ready for the Node Registry. Geometry survives in row order;
// RowOrig on each returned Edge lets callers re-join original attributes.
func Prepare(rows []RawLine, opts PrepareOptions, kernel geometry.Kernel, logger *zap.Logger) ([]Edge, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RingTol == 0 {
		opts.RingTol = 1e-9
	}

	for _, r := range rows {
		if r.NonLinear {
			return nil, fmt.Errorf("network: row has non-line geometry: %w", ErrInvalidGeometry)
		}
	}

	droppedEmpty := 0
	cleaned := make([]RawLine, 0, len(rows))
	for _, r := range rows {
		if r.empty() {
			droppedEmpty++
			continue
		}
		cleaned = append(cleaned, r)
	}

	merged := 0
	if opts.MergeLines {
		for i, r := range cleaned {
			if fused, ok := mergeParts(r.Parts, kernel, opts.RingTol); ok {
				cleaned[i].Parts = fused
				merged++
			}
		}
	}

	droppedRings := 0
	var edges []Edge
	rowOrig := 0
	for _, r := range cleaned {
		origIdx := rowOrig
		rowOrig++
		for _, part := range r.Parts {
			if len(part.Points) < 2 {
				continue
			}
			if (geometry.LineString{Points: part.Points}).IsRing(opts.RingTol) {
				droppedRings++
				continue
			}
			edges = append(edges, Edge{Geometry: part, RowOrig: origIdx})
		}
	}

	logger.Debug("network prepared",
		zap.Int("input_rows", len(rows)),
		zap.Int("dropped_empty", droppedEmpty),
		zap.Int("merged_rows", merged),
		zap.Int("dropped_rings", droppedRings),
		zap.Int("output_edges", len(edges)),
	)

	if len(edges) == 0 {
		return nil, ErrEmptyNetwork
	}
	return edges, nil
}

// mergeParts fuses parts that connect end-to-end into a single LineString,
// in encounter order, when every part chains onto the previous one's end
// within tol. ok is false if the parts do not form one connected chain, in
// which case the caller keeps the original multi-part row for exploding.
func mergeParts(parts []geometry.LineString, kernel geometry.Kernel, tol float64) ([]geometry.LineString, bool) {
	if len(parts) <= 1 {
		return parts, false
	}
	fused := append([]geometry.Point{}, parts[0].Points...)
	for _, part := range parts[1:] {
		last := fused[len(fused)-1]
		if kernel.Equals2D(last, part.Start(), tol) {
			fused = append(fused, part.Points[1:]...)
			continue
		}
		if kernel.Equals2D(last, part.End(), tol) {
			rev := reversed(part.Points)
			fused = append(fused, rev[1:]...)
			continue
		}
		return parts, false
	}
	return []geometry.LineString{{Points: fused}}, true
}

func reversed(pts []geometry.Point) []geometry.Point {
	out := make([]geometry.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}
