// Package graphcell implements the GraphCell collaborator: a fixed-max-
// degree adjacency container addressed by inner id, in dense (bottom
// layer) and sparse (upper layer) variants.
package graphcell

import (
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// Cell is the capability set shared by the dense and sparse variants
// (spec §6). Callers are responsible for holding the appropriate
// PerNodeLocks stripe around GetNeighbors/InsertNeighborsById and for
// serializing Resize against every other call (the builder does so under
// its global writer lock); IncreaseTotalCount is atomic.
type Cell interface {
	MaximumDegree() int
	TotalCount() int
	MaxCapacity() int

	// GetNeighbors returns a copy of id's current neighbor list, which the
	// caller may keep after releasing its lock.
	GetNeighbors(id core.InnerID) []core.InnerID

	// InsertNeighborsById replaces id's neighbor list wholesale. len(ids)
	// must be <= MaximumDegree().
	InsertNeighborsById(id core.InnerID, ids []core.InnerID)

	IncreaseTotalCount(n int)
	Resize(capacity int)

	InMemory() bool
	Serialize(w *wire.Writer)
	Deserialize(r *wire.Reader)
}
