// Package spatial defines the k-nearest-neighbor collaborator the routing
// engine depends on, plus a quadtree reference implementation adapted from
// a lat/lng service-mesh spatial index to planar, units-in-meters
// coordinates.
package spatial

import (
	"math"
	"sort"

	"github.com/statisticsnorway/sgis-go/pkg/geometry"
)

// Index is the spatial collaborator described by the routing engine's
// external interfaces.
type Index interface {
	// KNearestPoints returns, for each query point, the k closest corpus
	// points by Euclidean distance, nearest first. If the corpus has fewer
	// than k points, fewer are returned for that query.
	KNearestPoints(queries []geometry.Point, corpus []geometry.Point, k int) (distances [][]float64, indices [][]int)

	// NearestLine returns the index of the closest line in lineCorpus to
	// query, and the perpendicular distance to it, provided the distance is
	// within maxDistance. ok is false if no line qualifies.
	NearestLine(query geometry.Point, lineCorpus []geometry.LineString, maxDistance float64) (index int, distance float64, ok bool)
}

// maxNodesPerLeaf and maxDepth bound quadtree subdivision, matching the
// teacher's spatial index tuning.
const (
	maxNodesPerLeaf = 10
	maxDepth        = 8
)

type indexedPoint struct {
	point geometry.Point
	idx   int
}

type quadNode struct {
	minX, minY, maxX, maxY float64
	points                 []indexedPoint
	nw, ne, sw, se         *quadNode
	depth                  int
}

// QuadTree is the reference Index implementation: a simple region quadtree
// over planar coordinates, queried by radius-expansion + sort for k-nearest
// and by brute-force perpendicular distance for nearest-line.
type QuadTree struct {
	root   *quadNode
	corpus []geometry.Point
}

var _ Index = (*QuadTree)(nil)

// NewQuadTree builds an index over corpus. An empty corpus is valid; all
// queries against it simply return no results.
func NewQuadTree(corpus []geometry.Point) *QuadTree {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corpus {
		minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
		maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
	}
	if len(corpus) == 0 {
		minX, minY, maxX, maxY = -1, -1, 1, 1
	}
	// pad the bounds so points exactly on the boundary are contained.
	padX, padY := (maxX-minX)*0.01+1, (maxY-minY)*0.01+1
	root := &quadNode{minX: minX - padX, minY: minY - padY, maxX: maxX + padX, maxY: maxY + padY}
	qt := &QuadTree{root: root, corpus: corpus}
	for i, p := range corpus {
		root.insert(indexedPoint{point: p, idx: i})
	}
	return qt
}

func (n *quadNode) contains(p geometry.Point) bool {
	return p.X >= n.minX && p.X <= n.maxX && p.Y >= n.minY && p.Y <= n.maxY
}

func (n *quadNode) hasChildren() bool { return n.nw != nil }

func (n *quadNode) subdivide() {
	midX := (n.minX + n.maxX) / 2
	midY := (n.minY + n.maxY) / 2
	n.nw = &quadNode{minX: n.minX, minY: midY, maxX: midX, maxY: n.maxY, depth: n.depth + 1}
	n.ne = &quadNode{minX: midX, minY: midY, maxX: n.maxX, maxY: n.maxY, depth: n.depth + 1}
	n.sw = &quadNode{minX: n.minX, minY: n.minY, maxX: midX, maxY: midY, depth: n.depth + 1}
	n.se = &quadNode{minX: midX, minY: n.minY, maxX: n.maxX, maxY: midY, depth: n.depth + 1}

	rest := n.points
	n.points = nil
	for _, ip := range rest {
		n.insertIntoChild(ip)
	}
}

func (n *quadNode) insertIntoChild(ip indexedPoint) {
	for _, child := range []*quadNode{n.nw, n.ne, n.sw, n.se} {
		if child.contains(ip.point) {
			child.insert(ip)
			return
		}
	}
}

func (n *quadNode) insert(ip indexedPoint) {
	if !n.contains(ip.point) {
		return
	}
	if n.hasChildren() {
		n.insertIntoChild(ip)
		return
	}
	if len(n.points) < maxNodesPerLeaf || n.depth >= maxDepth {
		n.points = append(n.points, ip)
		return
	}
	n.subdivide()
	n.insertIntoChild(ip)
}

func (n *quadNode) intersectsCircle(center geometry.Point, radius float64) bool {
	closestX := clamp(center.X, n.minX, n.maxX)
	closestY := clamp(center.Y, n.minY, n.maxY)
	return math.Hypot(center.X-closestX, center.Y-closestY) <= radius
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (n *quadNode) query(center geometry.Point, radius float64, out *[]indexedPoint) {
	if !n.intersectsCircle(center, radius) {
		return
	}
	*out = append(*out, n.points...)
	if n.hasChildren() {
		n.nw.query(center, radius, out)
		n.ne.query(center, radius, out)
		n.sw.query(center, radius, out)
		n.se.query(center, radius, out)
	}
}

// KNearestPoints implements Index.KNearestPoints by expanding a search
// radius from each query point until at least k candidates are gathered,
// then sorting by true distance. The radius doubles each round, seeded from
// the quadtree's overall extent so a single pass usually suffices.
func (qt *QuadTree) KNearestPoints(queries []geometry.Point, corpus []geometry.Point, k int) ([][]float64, [][]int) {
	// A corpus other than the one this tree was built from is answered by a
	// tree built over that corpus, so indices always refer to corpus.
	same := len(corpus) == len(qt.corpus)
	for i := 0; same && i < len(corpus); i++ {
		same = corpus[i] == qt.corpus[i]
	}
	if !same {
		return NewQuadTree(corpus).KNearestPoints(queries, corpus, k)
	}
	distances := make([][]float64, len(queries))
	indices := make([][]int, len(queries))

	span := math.Hypot(qt.root.maxX-qt.root.minX, qt.root.maxY-qt.root.minY)
	for qi, q := range queries {
		radius := span / 32
		if radius <= 0 {
			radius = 1
		}
		var candidates []indexedPoint
		for round := 0; round < 12; round++ {
			candidates = candidates[:0]
			qt.root.query(q, radius, &candidates)
			if len(candidates) >= k || radius >= span*2 {
				break
			}
			radius *= 2
		}
		sort.Slice(candidates, func(i, j int) bool {
			di := math.Hypot(q.X-candidates[i].point.X, q.Y-candidates[i].point.Y)
			dj := math.Hypot(q.X-candidates[j].point.X, q.Y-candidates[j].point.Y)
			return di < dj
		})
		n := k
		if n > len(candidates) {
			n = len(candidates)
		}
		ds := make([]float64, n)
		is := make([]int, n)
		for i := 0; i < n; i++ {
			ds[i] = math.Hypot(q.X-candidates[i].point.X, q.Y-candidates[i].point.Y)
			is[i] = candidates[i].idx
		}
		distances[qi] = ds
		indices[qi] = is
	}
	return distances, indices
}

// NearestLine brute-forces the closest line by perpendicular distance. Line
// corpora in practice are the network's edge set, for which a dedicated
// spatial structure would pay off at scale; the routing engine's Design
// Notes do not mandate one, and the quadtree above already covers the
// points side of the Spatial Index contract.
func (qt *QuadTree) NearestLine(query geometry.Point, lineCorpus []geometry.LineString, maxDistance float64) (int, float64, bool) {
	kernel := geometry.Planar{}
	best := -1
	bestDist := math.Inf(1)
	for i, line := range lineCorpus {
		onLine, _ := kernel.Project(query, line)
		d := math.Hypot(query.X-onLine.X, query.Y-onLine.Y)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best == -1 || bestDist > maxDistance {
		return 0, 0, false
	}
	return best, bestDist, true
}
