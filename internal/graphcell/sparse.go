package graphcell

import (
	"sync"
	"sync/atomic"

	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// Sparse is an upper-layer GraphCell: most inner ids never appear at these
// layers, so adjacency is map-backed instead of a fixed per-id slot.
type Sparse struct {
	maxDegree int
	capacity  int
	total     atomic.Int64

	mu    sync.RWMutex
	edges map[core.InnerID][]core.InnerID
}

var _ Cell = (*Sparse)(nil)

// NewSparse creates a sparse GraphCell for up to capacity nodes, each with
// up to maxDegree neighbors.
func NewSparse(capacity, maxDegree int) *Sparse {
	return &Sparse{
		maxDegree: maxDegree,
		capacity:  capacity,
		edges:     make(map[core.InnerID][]core.InnerID),
	}
}

func (s *Sparse) MaximumDegree() int { return s.maxDegree }
func (s *Sparse) TotalCount() int    { return int(s.total.Load()) }
func (s *Sparse) MaxCapacity() int   { return s.capacity }
func (s *Sparse) InMemory() bool     { return true }

func (s *Sparse) IncreaseTotalCount(n int) { s.total.Add(int64(n)) }

// GetNeighbors returns a copy of id's neighbor list, or nil if id has no
// entry at this layer.
func (s *Sparse) GetNeighbors(id core.InnerID) []core.InnerID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	existing := s.edges[id]
	if existing == nil {
		return nil
	}
	out := make([]core.InnerID, len(existing))
	copy(out, existing)
	return out
}

// InsertNeighborsById replaces id's neighbor list.
func (s *Sparse) InsertNeighborsById(id core.InnerID, ids []core.InnerID) {
	cp := make([]core.InnerID, len(ids))
	copy(cp, ids)
	s.mu.Lock()
	s.edges[id] = cp
	s.mu.Unlock()
}

// Resize records the new logical capacity. The map itself needs no
// reallocation since it is already sparse.
func (s *Sparse) Resize(newCapacity int) {
	if newCapacity <= s.capacity {
		return
	}
	s.capacity = newCapacity
}

// Serialize writes maxDegree, capacity, total, then the sparse entry count
// followed by (id, degree, neighbors...) tuples.
func (s *Sparse) Serialize(w *wire.Writer) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w.U64(uint64(s.maxDegree))
	w.U64(uint64(s.capacity))
	w.U64(uint64(s.TotalCount()))
	w.U64(uint64(len(s.edges)))
	for id, neighbors := range s.edges {
		w.U32(id)
		w.U64(uint64(len(neighbors)))
		for _, n := range neighbors {
			w.U32(n)
		}
	}
}

// Deserialize replaces the cell's contents with a stream written by
// Serialize.
func (s *Sparse) Deserialize(r *wire.Reader) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.maxDegree = int(r.U64())
	s.capacity = int(r.U64())
	s.total.Store(int64(r.U64()))

	n := int(r.U64())
	s.edges = make(map[core.InnerID][]core.InnerID, n)
	for i := 0; i < n; i++ {
		id := r.U32()
		deg := int(r.U64())
		neighbors := make([]core.InnerID, deg)
		for j := range neighbors {
			neighbors[j] = r.U32()
		}
		s.edges[id] = neighbors
	}
}
