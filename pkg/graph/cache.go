package graph

import (
	"hash/fnv"
	"math"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/statisticsnorway/sgis-go/pkg/geometry"
)

// Fingerprint is the Graph Compiler's cache key: network.revision, a hash
// of the rule set fields, and a hash of the origin/destination point
// sequence. Equal fingerprints mean the compiled graph can be reused
// as-is (Design Notes §9: fingerprint-keyed cache over manual
// graph_is_up_to_date bookkeeping).
type Fingerprint struct {
	NetworkRevision uint64
	RuleHash        uint64
	PointsHash      uint64
}

// HashPoints folds a sequence of points into a single value for the
// fingerprint. The hash is sensitive to point order (OD calls bind points to
// specific roles, so order is load-bearing and preserved here, unlike a set
// hash).
func HashPoints(points []geometry.Point) uint64 {
	h := fnv.New64a()
	for _, p := range points {
		var buf [16]byte
		putFloat64(buf[0:8], p.X)
		putFloat64(buf[8:16], p.Y)
		h.Write(buf[:])
	}
	return h.Sum64()
}

func putFloat64(b []byte, v float64) {
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(bits >> (8 * i))
	}
}

// Cache is a fingerprint-keyed LRU over compiled graphs. The Query Engine
// consults it before every call; a capacity of a handful of entries absorbs
// engines that alternate between a couple of rule sets, while a single
// active rule set — the common case — only ever occupies one slot.
type Cache struct {
	arc *lru.ARCCache
	mu  sync.Mutex
}

// NewCache builds a cache of the given capacity (>=1).
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	arc, _ := lru.NewARC(capacity)
	return &Cache{arc: arc}
}

// Get returns the compiled graph for fp, if present.
func (c *Cache) Get(fp Fingerprint) (*Compiled, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.arc.Get(fp)
	if !ok {
		return nil, false
	}
	return v.(*Compiled), true
}

// Put stores the compiled graph under fp.
func (c *Cache) Put(fp Fingerprint, compiled *Compiled) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arc.Add(fp, compiled)
}
