// Package search implements the Searcher collaborator (spec §4.4): a
// best-first beam traversal over a single-layer GraphCell.
package search

import (
	"math"

	"github.com/vectorshelf/hgraph/codec"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/graphcell"
	"github.com/vectorshelf/hgraph/internal/nodelocks"
	"github.com/vectorshelf/hgraph/internal/queue"
	"github.com/vectorshelf/hgraph/internal/visitedpool"
)

// Mode selects between top-k and radius search (spec §9: "templated
// search mode").
type Mode int

const (
	KNN Mode = iota
	RANGE
)

// epsilon is the radius tolerance applied to the final RANGE trim
// (spec §4.4 step 4, §9 open question: not scaled by metric or magnitude).
const epsilon = 2e-6

// Epsilon returns the radius tolerance applied to RANGE-mode trimming, for
// callers (e.g. the façade's reorder rescoring) that re-apply the same cut
// after recomputing distances with a different codec.
func Epsilon() float32 { return epsilon }

// Filter is evaluated against inner ids during traversal.
type Filter func(id core.InnerID) bool

// Params configures a single Search call.
type Params struct {
	EntryPoint core.InnerID
	Ef         int
	Mode       Mode
	Radius     float32 // RANGE only
	Limit      int     // RANGE only; <0 means no trim, ==0 is invalid (checked by the caller)
	TopK       int     // KNN only
	Filter     Filter  // nil admits everything
}

func (p Params) admits(id core.InnerID) bool {
	return p.Filter == nil || p.Filter(id)
}

// Search runs a best-first beam traversal of cell starting at
// params.EntryPoint, using cd/computer for distances and locks/pool for
// the concurrency primitives shared with the rest of the index. Results
// are returned in ascending-distance order, trimmed per params.Mode.
//
// A node is relaxed (its neighbor list read and distances computed) at
// most once per call, driven by the visited-set handle (spec §8
// invariant 10).
func Search(cell graphcell.Cell, locks *nodelocks.Locks, cd codec.Codec, computer *codec.Computer, pool *visitedpool.Pool, params Params) []queue.PriorityQueueItem {
	handle := pool.Acquire()
	defer pool.Release(handle)

	ep := params.EntryPoint
	d0 := singleDistance(cd, computer, ep)
	handle.Visit(ep)

	candidates := queue.NewMin(params.Ef + 1)
	candidates.PushItem(queue.PriorityQueueItem{Node: ep, Distance: d0})

	top := queue.NewMax(params.Ef + 1)
	if params.admits(ep) {
		top.PushItem(queue.PriorityQueueItem{Node: ep, Distance: d0})
	}
	if params.Mode == RANGE && d0 > params.Radius && top.Len() > 0 {
		top.PopItem()
	}

	lowerBound := float32(math.Inf(1))
	if item, ok := top.TopItem(); ok {
		lowerBound = item.Distance
	}

	var scratch []core.InnerID
	var dists []float32

	for candidates.Len() > 0 {
		item, _ := candidates.PopItem()
		dc, c := item.Distance, item.Node

		if params.Mode == KNN && dc > lowerBound && top.Len() == params.Ef {
			break
		}

		unlock := locks.SharedLock(c)
		neighbors := cell.GetNeighbors(c)
		unlock()

		scratch = scratch[:0]
		for _, n := range neighbors {
			if !handle.Visit(n) {
				scratch = append(scratch, n)
			}
		}
		if len(scratch) == 0 {
			continue
		}

		if cap(dists) < len(scratch) {
			dists = make([]float32, len(scratch))
		} else {
			dists = dists[:len(scratch)]
		}
		cd.Query(dists, computer, scratch)

		for i, n := range scratch {
			d := dists[i]
			admitCandidate := top.Len() < params.Ef || d < lowerBound || (params.Mode == RANGE && d <= params.Radius)
			if !admitCandidate {
				continue
			}
			candidates.PushItem(queue.PriorityQueueItem{Node: n, Distance: d})
			if params.admits(n) {
				top.PushItem(queue.PriorityQueueItem{Node: n, Distance: d})
				if params.Mode == KNN {
					for top.Len() > params.Ef {
						top.PopItem()
					}
				}
			}
			if t, ok := top.TopItem(); ok {
				lowerBound = t.Distance
			}
		}
	}

	switch params.Mode {
	case KNN:
		for top.Len() > params.TopK {
			top.PopItem()
		}
		return drainAscending(top)
	default: // RANGE
		if params.Limit > 0 {
			for top.Len() > params.Limit {
				top.PopItem()
			}
		}
		results := drainAscending(top)
		cutoff := len(results)
		for i, r := range results {
			if r.Distance > params.Radius+epsilon {
				cutoff = i
				break
			}
		}
		return results[:cutoff]
	}
}

func singleDistance(cd codec.Codec, computer *codec.Computer, id core.InnerID) float32 {
	out := [1]float32{}
	cd.Query(out[:], computer, []core.InnerID{id})
	return out[0]
}

// drainAscending empties a max-heap into a slice ordered ascending by
// distance: repeated PopItem on a max-heap yields strictly descending
// values, so pops are written back to front.
func drainAscending(pq *queue.PriorityQueue) []queue.PriorityQueueItem {
	n := pq.Len()
	out := make([]queue.PriorityQueueItem, n)
	for i := n - 1; i >= 0; i-- {
		item, _ := pq.PopItem()
		out[i] = item
	}
	return out
}
