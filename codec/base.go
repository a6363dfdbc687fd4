package codec

import (
	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/f16"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// Base stores one float16-compressed code per inner id. It is always
// present on an HGraph (spec §3: "Codec state"); Precise is additionally
// present iff use_reorder.
type Base struct {
	dim    int
	metric distance.Metric
	fn     distance.Func
	codes  [][]f16.Bits // indexed by inner id
}

var _ Codec = (*Base)(nil)

// NewBase creates an untrained Base codec for vectors of the given
// dimension and metric.
func NewBase(dim int, metric distance.Metric) *Base {
	return &Base{dim: dim, metric: metric, fn: metricFor(metric)}
}

// Train is a no-op: Base is a flat (non-quantized) store and needs no
// centroid fitting.
func (b *Base) Train(vecs [][]float32) {}

// BatchInsertVector appends one float16 code per vector, in order.
func (b *Base) BatchInsertVector(vecs [][]float32) {
	for _, v := range vecs {
		code := make([]f16.Bits, len(v))
		f16.Encode(code, v)
		b.codes = append(b.codes, code)
	}
}

func (b *Base) InMemory() bool { return true }
func (b *Base) CodeSize() int  { return b.dim * 2 }
func (b *Base) Dim() int       { return b.dim }

func (b *Base) FactoryComputer(query []float32) *Computer {
	return &Computer{query: query}
}

func (b *Base) Query(outDists []float32, c *Computer, ids []core.InnerID) {
	var buf [64]float32
	for i, id := range ids {
		var decoded []float32
		code := b.codes[id]
		if len(code) <= len(buf) {
			decoded = buf[:len(code)]
		} else {
			decoded = make([]float32, len(code))
		}
		f16.Decode(decoded, code)
		outDists[i] = b.fn(c.query, decoded)
	}
}

// Prefetch is a no-op: Base codes are plain Go slices with no page-fault
// risk worth hinting about.
func (b *Base) Prefetch(id core.InnerID) {}

func (b *Base) Distance(a, other core.InnerID) float32 {
	var bufA, bufB [64]float32
	codeA, codeB := b.codes[a], b.codes[other]

	va := decodeInto(bufA[:0], codeA)
	vb := decodeInto(bufB[:0], codeB)
	return b.fn(va, vb)
}

func decodeInto(buf []float32, code []f16.Bits) []float32 {
	var out []float32
	if cap(buf) >= len(code) {
		out = buf[:len(code)]
	} else {
		out = make([]float32, len(code))
	}
	f16.Decode(out, code)
	return out
}

func (b *Base) Serialize(w *wire.Writer) {
	w.U64(uint64(b.dim))
	w.U32(uint32(b.metric))
	w.U64(uint64(len(b.codes)))
	for _, code := range b.codes {
		for _, bits := range code {
			w.U32(uint32(bits))
		}
	}
}

func (b *Base) Deserialize(r *wire.Reader) {
	b.dim = int(r.U64())
	b.metric = distance.Metric(r.U32())
	b.fn = metricFor(b.metric)
	n := int(r.U64())
	b.codes = make([][]f16.Bits, n)
	for i := range b.codes {
		code := make([]f16.Bits, b.dim)
		for j := range code {
			code[j] = f16.Bits(r.U32())
		}
		b.codes[i] = code
	}
}
