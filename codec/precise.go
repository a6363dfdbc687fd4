package codec

import (
	"math"

	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// Precise stores one float32 code per inner id, used as the optional
// reorder codec (spec §4.7) to rescore Base's candidates at full precision.
type Precise struct {
	dim    int
	metric distance.Metric
	fn     distance.Func
	codes  [][]float32 // indexed by inner id
}

var _ Codec = (*Precise)(nil)

// NewPrecise creates an untrained Precise codec.
func NewPrecise(dim int, metric distance.Metric) *Precise {
	return &Precise{dim: dim, metric: metric, fn: metricFor(metric)}
}

func (p *Precise) Train(vecs [][]float32) {}

func (p *Precise) BatchInsertVector(vecs [][]float32) {
	for _, v := range vecs {
		cp := make([]float32, len(v))
		copy(cp, v)
		p.codes = append(p.codes, cp)
	}
}

func (p *Precise) InMemory() bool { return true }
func (p *Precise) CodeSize() int  { return p.dim * 4 }
func (p *Precise) Dim() int       { return p.dim }

func (p *Precise) FactoryComputer(query []float32) *Computer {
	return &Computer{query: query}
}

func (p *Precise) Query(outDists []float32, c *Computer, ids []core.InnerID) {
	for i, id := range ids {
		outDists[i] = p.fn(c.query, p.codes[id])
	}
}

func (p *Precise) Prefetch(id core.InnerID) {}

func (p *Precise) Distance(a, b core.InnerID) float32 {
	return p.fn(p.codes[a], p.codes[b])
}

func (p *Precise) Serialize(w *wire.Writer) {
	w.U64(uint64(p.dim))
	w.U32(uint32(p.metric))
	w.U64(uint64(len(p.codes)))
	for _, code := range p.codes {
		for _, f := range code {
			w.U32(math.Float32bits(f))
		}
	}
}

func (p *Precise) Deserialize(r *wire.Reader) {
	p.dim = int(r.U64())
	p.metric = distance.Metric(r.U32())
	p.fn = metricFor(p.metric)
	n := int(r.U64())
	p.codes = make([][]float32, n)
	for i := range p.codes {
		code := make([]float32, p.dim)
		for j := range code {
			code[j] = math.Float32frombits(r.U32())
		}
		p.codes[i] = code
	}
}
