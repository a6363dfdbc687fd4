// Package codec implements the Codec collaborator (spec §6): an opaque
// vector store that trains, stores a compressed code per inner id, and
// computes batch distances from a precomputed query "computer" to listed
// codes.
//
// Two variants are provided: Base stores float16 codes (internal/f16) for
// compact in-memory residency, and Precise stores float32 codes for use as
// the optional reorder codec (spec §4.7) when higher accuracy is worth the
// extra memory.
package codec

import (
	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// Computer is the opaque precomputed state returned by FactoryComputer: the
// query vector, frozen at the moment of the call, ready to be compared
// against stored codes.
type Computer struct {
	query []float32
}

// Codec is the capability set shared by Base and Precise.
type Codec interface {
	Train(vecs [][]float32)
	BatchInsertVector(vecs [][]float32)
	InMemory() bool
	CodeSize() int
	Dim() int

	FactoryComputer(query []float32) *Computer

	// Query computes, for each id in ids, the distance from the
	// Computer's query to that id's stored code, writing results into
	// outDists (len(outDists) must equal len(ids)).
	Query(outDists []float32, c *Computer, ids []core.InnerID)

	// Distance computes the distance between two already-inserted codes
	// directly, for the Pruner's dominance test (spec §4.5) which
	// compares already-selected candidates pairwise rather than against
	// a live query.
	Distance(a, b core.InnerID) float32

	// Prefetch is a best-effort hint that id's code will likely be read
	// soon. Implementations may no-op; omitting the effect must never
	// change Query's results (spec §9).
	Prefetch(id core.InnerID)

	Serialize(w *wire.Writer)
	Deserialize(r *wire.Reader)
}

// metricFor resolves a distance.Func from a distance.Metric, panicking only
// on a metric value that ParseMetric/Provider would already have rejected
// at construction time.
func metricFor(m distance.Metric) distance.Func {
	f, err := distance.Provider(m)
	if err != nil {
		panic(err)
	}
	return f
}
