// Package prune implements the Pruner collaborator (spec §4.5): Malkov's
// heuristic neighbor selection followed by bidirectional mutual linking.
package prune

import (
	"slices"

	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/graphcell"
	"github.com/vectorshelf/hgraph/internal/nodelocks"
	"github.com/vectorshelf/hgraph/internal/queue"
)

// candidate pairs a node with its distance to u, for sorting into R.
type candidate struct {
	id   core.InnerID
	dist float32
}

// Select applies Malkov's heuristic to candidates (at most ef_construct
// entries, from the Searcher's top result), returning up to maxDegree
// nodes: a candidate v is kept iff it is not "dominated" by an already
// chosen, strictly closer point w (distance(v, w) <= distance(u, v)).
//
// distFn computes the pairwise distance between two already-inserted
// inner ids (via the Codec, reusing stored codes rather than raw
// vectors), independent of the query distance used to rank candidates.
func Select(candidates []queue.PriorityQueueItem, maxDegree int, distFn func(a, b core.InnerID) float32) []core.InnerID {
	ranked := make([]candidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = candidate{id: c.Node, dist: c.Distance}
	}
	sortAscending(ranked)

	selected := make([]core.InnerID, 0, maxDegree)
	for _, cand := range ranked {
		if len(selected) >= maxDegree {
			break
		}
		dominated := false
		for _, s := range selected {
			if distFn(cand.id, s) <= cand.dist {
				dominated = true
				break
			}
		}
		if !dominated {
			selected = append(selected, cand.id)
		}
	}
	return selected
}

func sortAscending(c []candidate) {
	// Insertion sort: candidate lists are bounded by ef_construct, which
	// is small (tens to low hundreds), so this is faster in practice than
	// paying for sort.Slice's interface dispatch.
	for i := 1; i < len(c); i++ {
		v := c[i]
		j := i - 1
		for j >= 0 && c[j].dist > v.dist {
			c[j+1] = c[j]
			j--
		}
		c[j+1] = v
	}
}

// Link writes u's selected neighbor list at layer L, then mutually links
// each selected neighbor back to u, repruning any neighbor whose degree
// now exceeds maxDegree. A node that repruning drops from w's list has w
// removed from its own list in turn, so edges stay mutual. Lock ordering
// is always u first, then each node individually, never two at once
// (spec §4.5, deadlock-free).
func Link(cell graphcell.Cell, locks *nodelocks.Locks, u core.InnerID, selected []core.InnerID, maxDegree int, distFn func(a, b core.InnerID) float32) {
	unlockU := locks.UniqueLock(u)
	cell.InsertNeighborsById(u, selected)
	unlockU()

	for _, w := range selected {
		unlockW := locks.UniqueLock(w)
		neighbors := append(cell.GetNeighbors(w), u)
		kept := neighbors
		if len(neighbors) > maxDegree {
			kept = reprune(neighbors, w, maxDegree, distFn)
		}
		cell.InsertNeighborsById(w, kept)
		unlockW()

		for _, x := range neighbors {
			if slices.Contains(kept, x) {
				continue
			}
			unlockX := locks.UniqueLock(x)
			cell.InsertNeighborsById(x, slices.DeleteFunc(cell.GetNeighbors(x), func(y core.InnerID) bool { return y == w }))
			unlockX()
		}
	}
}

// reprune re-applies the same heuristic to w's now-overflowing neighbor
// list, ranked by distance to w itself.
func reprune(neighbors []core.InnerID, w core.InnerID, maxDegree int, distFn func(a, b core.InnerID) float32) []core.InnerID {
	ranked := make([]candidate, len(neighbors))
	for i, n := range neighbors {
		ranked[i] = candidate{id: n, dist: distFn(w, n)}
	}
	sortAscending(ranked)

	out := make([]core.InnerID, 0, maxDegree)
	for _, cand := range ranked {
		if len(out) >= maxDegree {
			break
		}
		dominated := false
		for _, s := range out {
			if distFn(cand.id, s) <= cand.dist {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, cand.id)
		}
	}
	return out
}

// EntryPoint returns the closest selected neighbor, used as the next
// layer's entry point during construction (spec §4.5 step 5).
func EntryPoint(selected []core.InnerID) (core.InnerID, bool) {
	if len(selected) == 0 {
		return 0, false
	}
	return selected[0], true
}
