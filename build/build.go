// Package build implements the HierBuilder collaborator (spec §4.6):
// random level assignment, entry-point promotion, per-level descent,
// delegation to Pruner, and coordination under PerNodeLocks and a global
// R/W lock.
package build

import (
	"math"
	"math/rand"
	"sync"

	"github.com/vectorshelf/hgraph/codec"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/graphcell"
	"github.com/vectorshelf/hgraph/internal/nodelocks"
	"github.com/vectorshelf/hgraph/internal/visitedpool"
	"github.com/vectorshelf/hgraph/prune"
	"github.com/vectorshelf/hgraph/search"
)

// Logger is the narrow slice of the facade's logger that the builder
// needs, kept local to avoid an import cycle back to the root package.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}

// Builder owns the bottom graph, the route graphs above it, and the entry
// point, and serializes concurrent insertion per spec §5.
type Builder struct {
	globalMu sync.RWMutex // global_mutex
	addMu    sync.Mutex   // add_mutex

	locks *nodelocks.Locks
	pool  *visitedpool.Pool

	bottom *graphcell.Dense
	routes []*graphcell.Sparse // routes[i] is layer i+1

	bottomDegree int
	upperDegree  int
	efConstruct  int

	base       codec.Codec
	precise    codec.Codec // nil unless useReorder
	useReorder bool

	maxLevel   int
	entryPoint core.InnerID
	empty      bool

	rngMu sync.Mutex
	rng   *rand.Rand
	mult  float64

	logger Logger
}

// Config bundles the construction-time parameters needed to open a
// Builder over an already-capacity-sized bottom graph.
type Config struct {
	Capacity     int
	BottomDegree int
	EfConstruct  int
	Base         codec.Codec
	Precise      codec.Codec // nil unless UseReorder
	UseReorder   bool
	Seed         int64
	Logger       Logger
}

// New creates an empty Builder.
func New(cfg Config) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	upperDegree := cfg.BottomDegree / 2
	if upperDegree < 1 {
		upperDegree = 1
	}
	return &Builder{
		locks:        nodelocks.New(cfg.Capacity),
		pool:         visitedpool.New(cfg.Capacity),
		bottom:       graphcell.NewDense(cfg.Capacity, cfg.BottomDegree),
		bottomDegree: cfg.BottomDegree,
		upperDegree:  upperDegree,
		efConstruct:  cfg.EfConstruct,
		base:         cfg.Base,
		precise:      cfg.Precise,
		useReorder:   cfg.UseReorder,
		empty:        true,
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		mult:         1 / math.Log(float64(cfg.BottomDegree)),
		logger:       logger,
	}
}

// MaxLevel returns the current highest populated layer.
func (b *Builder) MaxLevel() int {
	b.globalMu.RLock()
	defer b.globalMu.RUnlock()
	return b.maxLevel
}

// EntryPoint returns the current global entry point.
func (b *Builder) EntryPoint() core.InnerID {
	b.globalMu.RLock()
	defer b.globalMu.RUnlock()
	return b.entryPoint
}

// Bottom returns the bottom-layer graph cell, e.g. for bottom-layer
// Searcher calls from the facade's KnnSearch/RangeSearch.
func (b *Builder) Bottom() *graphcell.Dense { return b.bottom }

// RouteGraph returns the sparse cell for layer (1-indexed from the
// bottom), or nil if that layer doesn't exist yet.
func (b *Builder) RouteGraph(level int) *graphcell.Sparse {
	b.globalMu.RLock()
	defer b.globalMu.RUnlock()
	idx := level - 1
	if idx < 0 || idx >= len(b.routes) {
		return nil
	}
	return b.routes[idx]
}

// Locks exposes the shared PerNodeLocks table, e.g. for the facade's
// bottom-layer query-time Searcher calls.
func (b *Builder) Locks() *nodelocks.Locks { return b.locks }

// Pool exposes the shared VisitedPool, e.g. for the facade's query-time
// Searcher calls.
func (b *Builder) Pool() *visitedpool.Pool { return b.pool }

// EfConstruct returns the beam width used during construction, for the
// façade's serialization header (spec §6 field 1).
func (b *Builder) EfConstruct() int { return b.efConstruct }

// Mult returns the level-assignment multiplier (spec §3: `1/ln(M)`), for
// the façade's serialization header.
func (b *Builder) Mult() float64 { return b.mult }

// Capacity returns the current max_capacity, mirroring the bottom graph's.
func (b *Builder) Capacity() int { return b.bottom.MaxCapacity() }

// RouteCount returns the number of populated route-graph levels
// (levels 1..RouteCount, 1-indexed), for the façade's serialize loop.
func (b *Builder) RouteCount() int {
	b.globalMu.RLock()
	defer b.globalMu.RUnlock()
	return len(b.routes)
}

// SetConstructionParams overrides ef_construct and mult from a deserialized
// header, so subsequent Add calls after a Deserialize behave exactly as
// they would have under the original build parameters.
func (b *Builder) SetConstructionParams(efConstruct int, mult float64) {
	b.globalMu.Lock()
	defer b.globalMu.Unlock()
	b.efConstruct = efConstruct
	b.mult = mult
}

// LoadState reconstructs the builder's structural fields (everything but
// the codecs, which the façade deserializes separately) from a stream
// written by the façade's Serialize. levels is max_level from the header;
// bottom and each route graph must already have been Deserialize'd by the
// caller onto the cells returned by Bottom()/RouteGraph() before calling
// LoadState, since those calls need the final capacity/maxDegree that only
// the stream itself carries.
func (b *Builder) LoadState(maxLevel int, entryPoint core.InnerID, empty bool) {
	b.globalMu.Lock()
	defer b.globalMu.Unlock()
	b.maxLevel = maxLevel
	b.entryPoint = entryPoint
	b.empty = empty
}

// GrowRoutesForLoad pre-allocates levels empty sparse cells so Deserialize
// has somewhere to write; each cell's real capacity/maxDegree is restored
// from its own stream segment immediately after.
func (b *Builder) GrowRoutesForLoad(levels int) {
	b.globalMu.Lock()
	defer b.globalMu.Unlock()
	b.routes = b.routes[:0]
	for i := 0; i < levels; i++ {
		b.routes = append(b.routes, graphcell.NewSparse(1, b.upperDegree))
	}
}

func (b *Builder) drawLevel() int {
	b.rngMu.Lock()
	u := b.rng.Float64()
	b.rngMu.Unlock()
	if u <= 0 {
		u = 1e-300
	}
	return int(math.Floor(-math.Log(u) * b.mult))
}

// degreeForLayer returns the layer's maximum_degree (spec §3).
func (b *Builder) degreeForLayer(level int) int {
	if level == 0 {
		return b.bottomDegree
	}
	return b.upperDegree
}

func (b *Builder) cellAt(level int) graphcell.Cell {
	if level == 0 {
		return b.bottom
	}
	return b.routes[level-1]
}

// growRouteGraphsTo ensures routes has an entry for every layer up to and
// including level. Caller holds globalMu for writing.
func (b *Builder) growRouteGraphsTo(level int) {
	for len(b.routes) < level {
		b.routes = append(b.routes, graphcell.NewSparse(b.bottom.MaxCapacity(), b.upperDegree))
	}
}

// AddOne inserts one already-deduplicated point, whose code is already
// present in the base (and, if useReorder, precise) codec at inner id id.
func (b *Builder) AddOne(id core.InnerID, vec []float32) {
	level := b.drawLevel()

	b.addMu.Lock()
	isPromotion := b.empty || level >= b.maxLevel
	if isPromotion {
		b.globalMu.Lock()
		b.growRouteGraphsTo(level)
		startLevel := b.maxLevel
		b.maxLevel = level + 1
		b.addOnePoint(id, vec, level, startLevel)
		b.entryPoint = id
		b.empty = false
		b.globalMu.Unlock()
		b.addMu.Unlock()
		b.logger.Infof("hgraph: promoted inner_id=%d to level=%d (new max_level=%d)", id, level, level+1)
		return
	}
	b.addMu.Unlock()

	b.globalMu.RLock()
	b.addOnePoint(id, vec, level, b.maxLevel)
	b.globalMu.RUnlock()
}

// addOnePoint runs the per-point insertion algorithm of spec §4.6 step 3.
// id's per-node lock is acquired only around each individual neighbor-list
// write (here and inside prune.Link), never held across the whole call:
// Go's sync.RWMutex is not reentrant, and id's own stripe can coincide with
// a selected neighbor's stripe once capacity exceeds PerNodeLocks' stripe
// cap, so a lock spanning the full function would self-deadlock the
// inserting goroutine the moment it tried to lock such a neighbor.
func (b *Builder) addOnePoint(id core.InnerID, vec []float32, level, startLevel int) {
	if startLevel == 0 && b.bottom.TotalCount() == 0 {
		for l := 0; l <= level; l++ {
			cell := b.cellAt(l)
			unlock := b.locks.UniqueLock(id)
			cell.InsertNeighborsById(id, nil)
			unlock()
			cell.IncreaseTotalCount(1)
		}
		return
	}

	navComputer := b.base.FactoryComputer(vec)
	ep := b.entryPoint
	for l := startLevel - 1; l >= level+1; l-- {
		cell := b.cellAt(l)
		results := search.Search(cell, b.locks, b.base, navComputer, b.pool, search.Params{
			EntryPoint: ep, Ef: 1, Mode: search.KNN, TopK: 1,
		})
		if len(results) > 0 {
			ep = results[0].Node
		}
	}

	constructCodec := b.base
	constructVec := vec
	if b.useReorder {
		constructCodec = b.precise
	}
	constructComputer := constructCodec.FactoryComputer(constructVec)
	distFn := constructCodec.Distance

	for l := level; l >= 0; l-- {
		cell := b.cellAt(l)
		md := b.degreeForLayer(l)
		if cell.TotalCount() == 0 {
			unlock := b.locks.UniqueLock(id)
			cell.InsertNeighborsById(id, nil)
			unlock()
		} else {
			results := search.Search(cell, b.locks, constructCodec, constructComputer, b.pool, search.Params{
				EntryPoint: ep, Ef: b.efConstruct, Mode: search.KNN, TopK: b.efConstruct,
			})
			selected := prune.Select(results, md, distFn)
			prune.Link(cell, b.locks, id, selected, md, distFn)
			if next, ok := prune.EntryPoint(selected); ok {
				ep = next
			}
		}
		cell.IncreaseTotalCount(1)
	}
}

// Resize grows every capacity-bound structure to newCapacity. Callers
// hold the facade's own write-exclusive window for this (spec §4.8); the
// builder additionally takes its own global writer lock so no concurrent
// AddOne/search races the grow.
func (b *Builder) Resize(newCapacity int) {
	b.globalMu.Lock()
	defer b.globalMu.Unlock()
	b.bottom.Resize(newCapacity)
	for _, r := range b.routes {
		r.Resize(newCapacity)
	}
	b.locks.Resize(newCapacity)
	b.pool.Resize(newCapacity)
	b.logger.Infof("hgraph: resized to capacity=%d", newCapacity)
}
