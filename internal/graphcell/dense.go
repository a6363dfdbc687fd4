package graphcell

import (
	"sync/atomic"

	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// Dense is the bottom-layer GraphCell: every inner id in [0, MaxCapacity())
// has a fixed-width neighbor slot, stored flat for cache locality. Degree
// is typically close to MaximumDegree for the bottom layer, so the fixed
// slot wastes little relative to a map-backed store while avoiding its
// per-node allocation and hashing cost.
type Dense struct {
	maxDegree int
	capacity  int
	total     atomic.Int64

	neighbors []core.InnerID // capacity * maxDegree
	degree    []int32        // capacity
}

var _ Cell = (*Dense)(nil)

// NewDense creates a dense GraphCell for up to capacity nodes, each with up
// to maxDegree neighbors.
func NewDense(capacity, maxDegree int) *Dense {
	return &Dense{
		maxDegree: maxDegree,
		capacity:  capacity,
		neighbors: make([]core.InnerID, capacity*maxDegree),
		degree:    make([]int32, capacity),
	}
}

func (d *Dense) MaximumDegree() int { return d.maxDegree }
func (d *Dense) TotalCount() int    { return int(d.total.Load()) }
func (d *Dense) MaxCapacity() int   { return d.capacity }
func (d *Dense) InMemory() bool     { return true }

func (d *Dense) IncreaseTotalCount(n int) { d.total.Add(int64(n)) }

// GetNeighbors returns a copy of id's neighbor list. A copy, not a slice
// into the backing array, is returned so a concurrent InsertNeighborsById
// on the same id (serialized by the caller's PerNodeLocks, but not by
// Dense itself) cannot be observed mid-write.
func (d *Dense) GetNeighbors(id core.InnerID) []core.InnerID {
	deg := int(d.degree[id])
	base := int(id) * d.maxDegree
	out := make([]core.InnerID, deg)
	copy(out, d.neighbors[base:base+deg])
	return out
}

// InsertNeighborsById replaces id's neighbor list.
func (d *Dense) InsertNeighborsById(id core.InnerID, ids []core.InnerID) {
	base := int(id) * d.maxDegree
	copy(d.neighbors[base:base+len(ids)], ids)
	d.degree[id] = int32(len(ids))
}

// Resize grows the cell to hold newCapacity nodes. Existing neighbor data
// is preserved; callers serialize this under the global writer lock.
func (d *Dense) Resize(newCapacity int) {
	if newCapacity <= d.capacity {
		return
	}
	newNeighbors := make([]core.InnerID, newCapacity*d.maxDegree)
	copy(newNeighbors, d.neighbors)
	newDegree := make([]int32, newCapacity)
	copy(newDegree, d.degree)
	d.neighbors = newNeighbors
	d.degree = newDegree
	d.capacity = newCapacity
}

// Serialize writes maxDegree, capacity, total, the degree vector, and the
// flat neighbor array, in that order.
func (d *Dense) Serialize(w *wire.Writer) {
	w.U64(uint64(d.maxDegree))
	w.U64(uint64(d.capacity))
	w.U64(uint64(d.TotalCount()))
	for _, deg := range d.degree {
		w.U32(uint32(deg))
	}
	for _, n := range d.neighbors {
		w.U32(n)
	}
}

// Deserialize replaces the cell's contents with a stream written by
// Serialize.
func (d *Dense) Deserialize(r *wire.Reader) {
	d.maxDegree = int(r.U64())
	d.capacity = int(r.U64())
	total := int64(r.U64())
	d.total.Store(total)

	d.degree = make([]int32, d.capacity)
	for i := range d.degree {
		d.degree[i] = int32(r.U32())
	}
	d.neighbors = make([]core.InnerID, d.capacity*d.maxDegree)
	for i := range d.neighbors {
		d.neighbors[i] = r.U32()
	}
}
