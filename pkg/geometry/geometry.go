// Package geometry defines the abstract geometry collaborator the core
// depends on, plus a planar reference implementation good enough to exercise
// the routing engine end to end. No vector I/O, buffering, or projection
// logic lives here — callers wire in their own kernel for production CRS
// handling.
package geometry

import "math"

// Point is a 2-D coordinate in a projected, units-in-meters CRS.
type Point struct {
	X, Y float64
}

// LineString is an ordered, non-empty sequence of distinct vertices.
type LineString struct {
	Points []Point
}

// Start returns the first vertex.
func (l LineString) Start() Point { return l.Points[0] }

// End returns the last vertex.
func (l LineString) End() Point { return l.Points[len(l.Points)-1] }

// IsRing reports whether the line is closed (start == end) with no other
// distinct endpoint, i.e. a LinearRing in disguise.
func (l LineString) IsRing(tol float64) bool {
	if len(l.Points) < 2 {
		return true
	}
	return equals2D(l.Start(), l.End(), tol)
}

// Kernel is the geometry collaborator described by the routing engine's
// external interfaces. Implementations must be side-effect free.
type Kernel interface {
	Endpoints(line LineString) (start, end Point)
	Length(line LineString) float64
	Project(point Point, line LineString) (onLine Point, fraction float64)
	Split(line LineString, fraction float64) (before, after LineString)
	LineBetween(p, q Point) LineString
	Bounds(line LineString) (minX, minY, maxX, maxY float64)
	Union(lines []LineString) LineString
	Equals2D(p, q Point, tol float64) bool
	AngleDegrees(from, to Point) float64
}

// Planar is the reference Kernel: Euclidean distance, linear interpolation,
// no reprojection. Suitable for any CRS whose units are already linear
// (e.g. UTM meters), which is the routing engine's only supported input per
// its weight-column contract.
type Planar struct{}

var _ Kernel = Planar{}

func (Planar) Endpoints(line LineString) (Point, Point) {
	return line.Start(), line.End()
}

func (Planar) Length(line LineString) float64 {
	total := 0.0
	for i := 1; i < len(line.Points); i++ {
		total += dist(line.Points[i-1], line.Points[i])
	}
	return total
}

// Project returns the closest point on the line to point, and the fraction
// of the line's total length at which that point lies (0 at start, 1 at
// end). Ties among coincident segments resolve to the first encountered.
func (Planar) Project(point Point, line LineString) (Point, float64) {
	total := Planar{}.Length(line)
	if total == 0 {
		return line.Start(), 0
	}

	bestDist := math.Inf(1)
	var bestPoint Point
	travelled := 0.0
	bestAlong := 0.0

	for i := 1; i < len(line.Points); i++ {
		a, b := line.Points[i-1], line.Points[i]
		segLen := dist(a, b)
		proj, t := projectOntoSegment(point, a, b)
		d := dist(point, proj)
		if d < bestDist {
			bestDist = d
			bestPoint = proj
			bestAlong = travelled + t*segLen
		}
		travelled += segLen
	}
	return bestPoint, bestAlong / total
}

func (p Planar) Split(line LineString, fraction float64) (LineString, LineString) {
	if fraction <= 0 {
		return LineString{Points: []Point{line.Start(), line.Start()}}, line
	}
	if fraction >= 1 {
		return line, LineString{Points: []Point{line.End(), line.End()}}
	}

	total := p.Length(line)
	target := fraction * total
	travelled := 0.0

	before := []Point{line.Points[0]}
	for i := 1; i < len(line.Points); i++ {
		a, b := line.Points[i-1], line.Points[i]
		segLen := dist(a, b)
		if travelled+segLen >= target {
			t := 0.0
			if segLen > 0 {
				t = (target - travelled) / segLen
			}
			split := lerp(a, b, t)
			before = append(before, split)
			after := append([]Point{split}, line.Points[i:]...)
			return LineString{Points: before}, LineString{Points: after}
		}
		before = append(before, b)
		travelled += segLen
	}
	return line, LineString{Points: []Point{line.End(), line.End()}}
}

func (Planar) LineBetween(p, q Point) LineString {
	return LineString{Points: []Point{p, q}}
}

func (Planar) Bounds(line LineString) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, pt := range line.Points {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return
}

// Union concatenates lines into a single multi-vertex polyline used as the
// dissolve target for route/OD/service-area geometries. It does not attempt
// topological merging: the caller (Result Assembler) is responsible for
// ordering edges into a connected sequence before calling Union.
func (Planar) Union(lines []LineString) LineString {
	var out []Point
	for _, l := range lines {
		out = append(out, l.Points...)
	}
	return LineString{Points: out}
}

func (Planar) Equals2D(p, q Point, tol float64) bool {
	return equals2D(p, q, tol)
}

// AngleDegrees returns the bearing from p_from to p_to using the dx-major
// atan2 convention, in (-180, 180].
func (Planar) AngleDegrees(from, to Point) float64 {
	dx := to.X - from.X
	dy := to.Y - from.Y
	return math.Atan2(dx, dy) * 180 / math.Pi
}

func equals2D(p, q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func projectOntoSegment(p, a, b Point) (Point, float64) {
	abx, aby := b.X-a.X, b.Y-a.Y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return a, 0
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{X: a.X + t*abx, Y: a.Y + t*aby}, t
}
