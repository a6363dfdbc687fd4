package hgraph

import (
	"bytes"
	"context"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// emptyMarker is the sentinel payload for a completely empty index
// (spec §6: "A completely empty index is emitted as a single marker
// payload"), written/read before any zstd framing is applied.
const emptyMarker = "EMPTY_HGRAPH"

// Serialize encodes the index into the normative byte stream of spec §6,
// optionally zstd-framed (WithCompression) around the same field order.
func (g *HGraph) Serialize() (data []byte, err error) {
	start := time.Now()
	defer func() { g.opts.metricsCollector.RecordSerialize(len(data), time.Since(start), err) }()

	g.mu.RLock()
	defer g.mu.RUnlock()

	var raw []byte
	if g.ids.Count() == 0 {
		raw = []byte(emptyMarker)
	} else {
		raw, err = g.serializeNonEmpty()
		if err != nil {
			return nil, err
		}
	}

	data, err = g.maybeCompress(raw)
	g.opts.logger.LogSerialize(context.Background(), len(data), err)
	return data, err
}

func (g *HGraph) serializeNonEmpty() ([]byte, error) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)

	var useReorder uint8
	if g.opts.useReorder {
		useReorder = 1
	}
	w.U8(useReorder)
	w.U64(uint64(g.opts.dim))
	w.U32(uint32(g.opts.metric))
	w.U64(uint64(g.builder.MaxLevel()))
	w.U32(g.builder.EntryPoint())
	w.U64(uint64(g.builder.EfConstruct()))
	w.F64(g.builder.Mult())
	w.U64(uint64(g.capacity))

	labels := g.ids.Labels()
	w.U64(uint64(len(labels)))
	for _, l := range labels {
		w.I64(int64(l))
	}

	w.U64(uint64(len(labels)))
	for id, l := range labels {
		w.I64(int64(l))
		w.U32(uint32(id))
	}

	g.base.Serialize(w)
	g.builder.Bottom().Serialize(w)
	if g.opts.useReorder {
		g.precise.Serialize(w)
	}

	for i := 0; i < g.builder.RouteCount(); i++ {
		g.builder.RouteGraph(i + 1).Serialize(w)
	}

	if g.extra.Enabled() {
		g.extra.Serialize(w)
	}

	if err := w.Err(); err != nil {
		return nil, wrapError(NoEnoughMemory, err, "serialize")
	}
	return buf.Bytes(), nil
}

// Deserialize replaces an empty index's contents with a stream produced by
// Serialize. It errors with IndexNotEmpty if the receiver already holds
// any entries (spec §7).
func (g *HGraph) Deserialize(data []byte) (err error) {
	start := time.Now()
	defer func() { g.opts.metricsCollector.RecordSerialize(len(data), time.Since(start), err) }()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ids.Count() != 0 {
		return newError(IndexNotEmpty, "deserialize: index already holds %d entries", g.ids.Count())
	}

	raw, decErr := g.maybeDecompress(data)
	if decErr != nil {
		return wrapError(ReadError, decErr, "deserialize: decompress")
	}

	if string(raw) == emptyMarker {
		g.opts.logger.LogSerialize(context.Background(), len(data), nil)
		return nil
	}

	if derr := g.deserializeNonEmpty(raw); derr != nil {
		return derr
	}
	g.opts.logger.LogSerialize(context.Background(), len(data), nil)
	return nil
}

func (g *HGraph) deserializeNonEmpty(raw []byte) error {
	r := wire.NewReader(bytes.NewReader(raw))

	useReorder := r.U8() != 0
	dim := int(r.U64())
	metric := distance.Metric(r.U32())
	maxLevel := int(r.U64())
	entryPoint := core.InnerID(r.U32())
	efConstruct := int(r.U64())
	mult := r.F64()
	capacity := int(r.U64())

	if dim != g.opts.dim {
		return newError(ReadError, "deserialize: dim %d != configured dim %d", dim, g.opts.dim)
	}
	if metric != g.opts.metric {
		return newError(ReadError, "deserialize: metric %s != configured metric %s", metric, g.opts.metric)
	}
	if useReorder != g.opts.useReorder {
		return newError(ReadError, "deserialize: use_reorder %v != configured %v", useReorder, g.opts.useReorder)
	}

	labelCount := int(r.U64())
	labels := make([]core.LabelID, labelCount)
	for i := range labels {
		labels[i] = core.LabelID(r.I64())
	}

	lookupCount := int(r.U64())
	for i := 0; i < lookupCount; i++ {
		r.I64() // label
		r.U32() // inner_id
	}

	g.base.Deserialize(r)
	g.builder.Bottom().Deserialize(r)
	if g.opts.useReorder {
		g.precise.Deserialize(r)
	}

	routeCount := maxLevel - 1
	if routeCount > 0 {
		g.builder.GrowRoutesForLoad(routeCount)
		for i := 0; i < routeCount; i++ {
			g.builder.RouteGraph(i + 1).Deserialize(r)
		}
	}

	if g.extra.Enabled() {
		g.extra.Deserialize(r)
	}

	if err := r.Err(); err != nil {
		return wrapError(ReadError, err, "deserialize: truncated or inconsistent stream")
	}

	g.ids.LoadFrom(labels)
	g.builder.LoadState(maxLevel, entryPoint, false)
	g.builder.SetConstructionParams(efConstruct, mult)
	g.builder.Resize(capacity)
	g.capacity = capacity

	return nil
}

func (g *HGraph) maybeCompress(raw []byte) ([]byte, error) {
	if !g.opts.compress {
		return raw, nil
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, wrapError(NoEnoughMemory, err, "serialize: zstd encoder")
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

func (g *HGraph) maybeDecompress(data []byte) ([]byte, error) {
	if !g.opts.compress {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
