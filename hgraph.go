// Package hgraph implements a hierarchical proximity-graph approximate
// nearest-neighbor index: a multi-layer navigable graph (spec §2-§5) with
// pluggable distance codecs, optional two-stage reorder rescoring, and a
// normative byte-stream serialization format (spec §6).
package hgraph

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vectorshelf/hgraph/build"
	"github.com/vectorshelf/hgraph/codec"
	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/extrainfo"
	"github.com/vectorshelf/hgraph/filter"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/idspace"
	"github.com/vectorshelf/hgraph/internal/queue"
	"github.com/vectorshelf/hgraph/search"
)

// resizeBit controls the capacity growth granularity (spec §4.8):
// max_capacity is always a multiple of 1<<resizeBit.
const resizeBit = 10

// Result is one hit returned by KnnSearch/RangeSearch.
type Result struct {
	Label     core.LabelID
	Distance  float32
	ExtraInfo []byte // nil unless the index was built WithExtraInfoSize
}

// HGraph is the façade collaborator (spec §4.7) gluing together IdSpace,
// HierBuilder, the Codec pair, and ExtraInfo behind the public API.
type HGraph struct {
	mu sync.RWMutex // guards capacity growth against concurrent Add/search

	opts options

	ids      *idspace.Space
	builder  *build.Builder
	base     codec.Codec
	precise  codec.Codec // nil unless opts.useReorder
	extra    *extrainfo.Store
	capacity int
}

// New creates an empty HGraph for vectors of the given dimension.
func New(dimension int, optFns ...Option) (*HGraph, error) {
	if dimension <= 0 {
		return nil, newError(InvalidArgument, "dimension must be positive, got %d", dimension)
	}
	o := applyOptions(dimension, optFns)

	capacity := nextCapacity(0)

	base := codec.NewBase(dimension, o.metric)
	var precise codec.Codec
	if o.useReorder {
		precise = codec.NewPrecise(dimension, o.metric)
	}

	builder := build.New(build.Config{
		Capacity:     capacity,
		BottomDegree: o.maxDegree,
		EfConstruct:  o.efConstruction,
		Base:         base,
		Precise:      precise,
		UseReorder:   o.useReorder,
		Seed:         o.seed,
		Logger:       o.logger,
	})

	g := &HGraph{
		opts:     o,
		ids:      idspace.New(),
		builder:  builder,
		base:     base,
		precise:  precise,
		extra:    extrainfo.New(o.extraInfoSize),
		capacity: capacity,
	}
	return g, nil
}

// nextCapacity rounds required up to the next multiple of 1<<resizeBit,
// with a floor of one full unit (spec §4.8).
func nextCapacity(required int) int {
	unit := 1 << resizeBit
	if required <= 0 {
		return unit
	}
	return ((required + unit - 1) / unit) * unit
}

// Dim returns the configured vector dimension.
func (g *HGraph) Dim() int { return g.opts.dim }

// Len returns the number of vectors currently present.
func (g *HGraph) Len() int { return g.ids.Count() }

// Build pins codec storage in memory for the duration of a bulk load,
// calls Add, then unpins (spec §4.7). The base/precise codecs used here
// are always in-memory (spec §6 InMemory()), so pinning is a structural
// no-op kept to preserve the façade's documented call shape for callers
// migrating from an out-of-core codec.
func (g *HGraph) Build(ctx context.Context, labels []int64, vecs [][]float32, extraBlobs [][]byte) ([]int, error) {
	return g.Add(ctx, labels, vecs, extraBlobs)
}

// Add validates dim, interns each label (rejecting duplicates into the
// returned failed-index list, spec §8 property 7), trains+inserts the
// accepted vectors into the codec(s) and ExtraInfo store, grows capacity
// if needed, then builds the graph for the accepted contiguous run
// (spec §4.7).
func (g *HGraph) Add(ctx context.Context, labels []int64, vecs [][]float32, extraBlobs [][]byte) (failed []int, err error) {
	start := time.Now()
	defer func() {
		g.opts.metricsCollector.RecordAdd(len(labels), len(failed), time.Since(start))
	}()

	if len(labels) != len(vecs) {
		return nil, newError(InvalidArgument, "labels and vecs must be the same length (%d != %d)", len(labels), len(vecs))
	}
	if extraBlobs != nil && len(extraBlobs) != len(labels) {
		return nil, newError(InvalidArgument, "extraBlobs must match labels length (%d != %d)", len(extraBlobs), len(labels))
	}
	for _, v := range vecs {
		if len(v) != g.opts.dim {
			return nil, errDimensionMismatch(g.opts.dim, len(v))
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acceptedIDs := make([]core.InnerID, 0, len(labels))
	acceptedVecs := make([][]float32, 0, len(labels))
	var acceptedExtra [][]byte
	if extraBlobs != nil {
		acceptedExtra = make([][]byte, 0, len(labels))
	}

	for i, label := range labels {
		id, duplicate := g.ids.Intern(core.LabelID(label))
		if duplicate {
			failed = append(failed, i)
			continue
		}
		acceptedIDs = append(acceptedIDs, id)
		acceptedVecs = append(acceptedVecs, vecs[i])
		if extraBlobs != nil {
			acceptedExtra = append(acceptedExtra, extraBlobs[i])
		}
	}

	if len(acceptedIDs) == 0 {
		g.opts.logger.LogAdd(ctx, len(labels), len(failed))
		return failed, nil
	}

	g.base.BatchInsertVector(acceptedVecs)
	if g.opts.useReorder {
		g.precise.BatchInsertVector(acceptedVecs)
	}
	if g.extra.Enabled() {
		if acceptedExtra == nil {
			acceptedExtra = make([][]byte, len(acceptedIDs))
		}
		if err := g.extra.BatchInsertExtraInfo(acceptedExtra); err != nil {
			return failed, wrapError(InvalidArgument, err, "add: extra info")
		}
	}

	required := int(acceptedIDs[len(acceptedIDs)-1]) + 1
	if required > g.capacity {
		g.capacity = nextCapacity(required)
		g.builder.Resize(g.capacity)
	}

	if err := g.builder.AddBatch(ctx, acceptedIDs, acceptedVecs, g.opts.buildThreadCount); err != nil {
		return failed, wrapError(NoEnoughMemory, err, "add: graph build")
	}

	g.opts.logger.LogAdd(ctx, len(labels), len(failed))
	return failed, nil
}

// descendRoutes walks the route graphs (ef=1, base codec) from the global
// entry point down to layer 0, returning the seed entry point for the
// bottom-layer Searcher call (spec §4.7 KnnSearch/RangeSearch).
func (g *HGraph) descendRoutes(computer *codec.Computer) core.InnerID {
	ep := g.builder.EntryPoint()
	maxLevel := g.builder.MaxLevel()
	for l := maxLevel - 1; l >= 1; l-- {
		cell := g.builder.RouteGraph(l)
		if cell == nil {
			continue
		}
		results := search.Search(cell, g.builder.Locks(), g.base, computer, g.builder.Pool(), search.Params{
			EntryPoint: ep, Ef: 1, Mode: search.KNN, TopK: 1,
		})
		if len(results) > 0 {
			ep = results[0].Node
		}
	}
	return ep
}

func toInnerFilter(f filter.LabelFilter, ids *idspace.Space) search.Filter {
	if f == nil {
		return nil
	}
	return func(id core.InnerID) bool {
		return f(ids.LabelOf(id))
	}
}

// KnnSearch returns the k nearest neighbors of q in ascending-distance
// order (spec §4.7, §8 property 9). k is clamped to min(k, N).
func (g *HGraph) KnnSearch(q []float32, k int, params SearchParams, labelFilter filter.LabelFilter) (results []Result, err error) {
	start := time.Now()
	defer func() { g.opts.metricsCollector.RecordSearch(k, time.Since(start), err) }()

	if err := g.validateQuery(q, k); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	n := g.ids.Count()
	if n == 0 {
		g.opts.logger.LogSearch(context.Background(), k, 0, nil)
		return nil, nil
	}
	if k > n {
		k = n
	}

	ef := params.EfSearch
	if ef <= 0 {
		ef = g.opts.efSearch
	}
	if ef < k {
		ef = k
	}

	navComputer := g.base.FactoryComputer(q)
	ep := g.descendRoutes(navComputer)

	items := search.Search(g.builder.Bottom(), g.builder.Locks(), g.base, navComputer, g.builder.Pool(), search.Params{
		EntryPoint: ep, Ef: ef, Mode: search.KNN, TopK: k, Filter: toInnerFilter(labelFilter, g.ids),
	})

	if g.opts.useReorder {
		items = g.reorder(q, items, k)
	}

	results = g.toResults(items)
	g.opts.logger.LogSearch(context.Background(), k, len(results), nil)
	return results, nil
}

// RangeSearch returns every neighbor of q within radius+ε, optionally
// trimmed to limit closest results (spec §4.7, §8 property 8). limit < 0
// means no trim; limit == 0 is invalid.
func (g *HGraph) RangeSearch(q []float32, radius float32, params SearchParams, labelFilter filter.LabelFilter, limit int) (results []Result, err error) {
	start := time.Now()
	defer func() { g.opts.metricsCollector.RecordSearch(len(results), time.Since(start), err) }()

	if err := g.validateQuery(q, 1); err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, newError(InvalidArgument, "radius must be >= 0, got %v", radius)
	}
	if limit == 0 {
		return nil, newError(InvalidArgument, "limit must be != 0 (negative means unbounded)")
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.ids.Count() == 0 {
		return nil, nil
	}

	ef := params.EfSearch
	if ef <= 0 {
		ef = g.opts.efSearch
	}

	navComputer := g.base.FactoryComputer(q)
	ep := g.descendRoutes(navComputer)

	items := search.Search(g.builder.Bottom(), g.builder.Locks(), g.base, navComputer, g.builder.Pool(), search.Params{
		EntryPoint: ep, Ef: ef, Mode: search.RANGE, Radius: radius, Limit: limit, Filter: toInnerFilter(labelFilter, g.ids),
	})

	if g.opts.useReorder {
		items = g.reorderRange(q, items, radius)
	}

	results = g.toResults(items)
	g.opts.logger.LogSearch(context.Background(), limit, len(results), nil)
	return results, nil
}

// reorder recomputes distances with the precise codec and rebuilds a
// k-size max-heap (spec §4.7: "pops every result, recomputes distances
// with precise codec, rebuilds a k-size max-heap").
func (g *HGraph) reorder(q []float32, items []queue.PriorityQueueItem, k int) []queue.PriorityQueueItem {
	if len(items) == 0 {
		return items
	}
	computer := g.precise.FactoryComputer(q)
	ids := make([]core.InnerID, len(items))
	for i, it := range items {
		ids[i] = it.Node
	}
	dists := make([]float32, len(items))
	g.precise.Query(dists, computer, ids)

	top := queue.NewMax(k + 1)
	for i, id := range ids {
		top.PushItem(queue.PriorityQueueItem{Node: id, Distance: dists[i]})
		for top.Len() > k {
			top.PopItem()
		}
	}
	out := make([]queue.PriorityQueueItem, top.Len())
	for i := len(out) - 1; i >= 0; i-- {
		item, _ := top.PopItem()
		out[i] = item
	}
	return out
}

// reorderRange is reorder's RANGE-mode counterpart: recompute with the
// precise codec, then re-apply the radius+ε cut since precise distances
// may differ from the base codec's approximate ones.
func (g *HGraph) reorderRange(q []float32, items []queue.PriorityQueueItem, radius float32) []queue.PriorityQueueItem {
	if len(items) == 0 {
		return items
	}
	computer := g.precise.FactoryComputer(q)
	ids := make([]core.InnerID, len(items))
	for i, it := range items {
		ids[i] = it.Node
	}
	dists := make([]float32, len(items))
	g.precise.Query(dists, computer, ids)

	out := make([]queue.PriorityQueueItem, 0, len(items))
	for i, id := range ids {
		if dists[i] <= radius+search.Epsilon() {
			out = append(out, queue.PriorityQueueItem{Node: id, Distance: dists[i]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

func (g *HGraph) toResults(items []queue.PriorityQueueItem) []Result {
	out := make([]Result, len(items))
	for i, it := range items {
		out[i] = Result{Label: int64(g.ids.LabelOf(it.Node)), Distance: it.Distance}
		if g.extra.Enabled() {
			out[i].ExtraInfo = g.extra.GetExtraInfoById(it.Node)
		}
	}
	return out
}

func (g *HGraph) validateQuery(q []float32, k int) error {
	if len(q) != g.opts.dim {
		return errDimensionMismatch(g.opts.dim, len(q))
	}
	if k <= 0 {
		return newError(InvalidArgument, "k must be > 0, got %d", k)
	}
	return nil
}

// CalculateDistanceById returns the distance between v and the stored code
// for label, using the precise codec iff reorder is enabled, else base
// (spec §4.7). Errors with InvalidArgument if label is unknown.
func (g *HGraph) CalculateDistanceById(v []float32, label int64) (float32, error) {
	if len(v) != g.opts.dim {
		return 0, errDimensionMismatch(g.opts.dim, len(v))
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	id, ok := g.ids.InnerOf(core.LabelID(label))
	if !ok {
		return 0, errUnknownLabel(label)
	}

	cd := g.base
	if g.opts.useReorder {
		cd = g.precise
	}
	computer := cd.FactoryComputer(v)
	out := [1]float32{}
	cd.Query(out[:], computer, []core.InnerID{id})
	return out[0], nil
}

// DistanceBetweenLabels returns the stored-code distance between two
// already-inserted labels, recovered from original_source/'s
// CalcDistanceById pairwise variant (SPEC_FULL §12) as a convenience over
// CalculateDistanceById that avoids re-decoding a live query vector.
func (g *HGraph) DistanceBetweenLabels(a, b int64) (float32, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idA, ok := g.ids.InnerOf(core.LabelID(a))
	if !ok {
		return 0, errUnknownLabel(a)
	}
	idB, ok := g.ids.InnerOf(core.LabelID(b))
	if !ok {
		return 0, errUnknownLabel(b)
	}

	cd := g.base
	if g.opts.useReorder {
		cd = g.precise
	}
	return cd.Distance(idA, idB), nil
}

// Stats is a point-in-time snapshot of index size and shape, recovered
// from original_source/'s get_stats diagnostic surface (SPEC_FULL §12):
// per-layer node counts, average bottom-layer degree, and the current
// entry point.
type Stats struct {
	Count         int
	MaxLevel      int
	Dim           int
	Metric        distance.Metric
	MaxDegree     int
	UseReorder    bool
	Capacity      int
	ExtraInfoLen  int
	EntryPoint    int64   // label of the current global entry point
	LayerCounts   []int   // LayerCounts[0] is the bottom layer
	AverageDegree float64
}

// Stats returns a snapshot of the index's current size and configuration.
func (g *HGraph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	layerCounts := make([]int, 1+g.builder.RouteCount())
	layerCounts[0] = g.builder.Bottom().TotalCount()
	for i := 0; i < g.builder.RouteCount(); i++ {
		layerCounts[i+1] = g.builder.RouteGraph(i + 1).TotalCount()
	}

	var avgDegree float64
	if n := layerCounts[0]; n > 0 {
		var totalDeg int
		for id := 0; id < n; id++ {
			totalDeg += len(g.builder.Bottom().GetNeighbors(core.InnerID(id)))
		}
		avgDegree = float64(totalDeg) / float64(n)
	}

	entryPoint := int64(-1)
	if g.ids.Count() > 0 {
		entryPoint = int64(g.ids.LabelOf(g.builder.EntryPoint()))
	}

	return Stats{
		Count:         g.ids.Count(),
		MaxLevel:      g.builder.MaxLevel(),
		Dim:           g.opts.dim,
		Metric:        g.opts.metric,
		MaxDegree:     g.opts.maxDegree,
		UseReorder:    g.opts.useReorder,
		Capacity:      g.capacity,
		ExtraInfoLen:  g.extra.ExtraInfoSize(),
		EntryPoint:    entryPoint,
		LayerCounts:   layerCounts,
		AverageDegree: avgDegree,
	}
}

func (g *HGraph) String() string {
	s := g.Stats()
	return fmt.Sprintf("HGraph{count=%d, dim=%d, metric=%s, maxLevel=%d}", s.Count, s.Dim, s.Metric, s.MaxLevel)
}
