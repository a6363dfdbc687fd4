// Package hgraph implements an embeddable hierarchical proximity-graph
// vector index for approximate nearest-neighbor search.
//
// hgraph builds a multi-layer navigable graph over inserted vectors: a
// dense bottom layer holding every point, and progressively sparser upper
// layers used only for long-range navigation, in the style of Malkov's
// hierarchical navigable small world graphs. Search is a best-first beam
// traversal bounded by an `ef` parameter that trades recall for latency.
//
// # Quick Start
//
//	g, err := hgraph.New(128, hgraph.WithMetric(distance.MetricCosine))
//	failed, err := g.Add(ctx, labels, vectors, nil)
//	results, err := g.KnnSearch(query, 10, hgraph.SearchParams{}, nil)
//
// Or via the fluent builder:
//
//	g, err := hgraph.NewBuilder(128).
//	    Cosine().
//	    MaxDegree(32).
//	    EfConstruction(200).
//	    Build()
//
// # Reorder
//
// WithReorder(true) maintains a second, full-precision codec alongside the
// compact float16 one used for graph construction and traversal; search
// results are rescored against it before being returned, trading memory
// for accuracy.
//
// # Concurrency
//
// Add and KnnSearch/RangeSearch are safe for concurrent use. Each Add call
// holds the index's write lock for its whole run, so Add calls are
// serialized against each other and against searches, while searches run
// in parallel with one another. Within one Add, the build worker pool's
// inserts serialize only at the point of deciding whether they promote the
// global entry point, and are otherwise coordinated by a sharded per-node
// lock table.
//
// # Serialization
//
// Serialize/Deserialize round-trip the index through a normative byte
// stream, optionally zstd-framed via WithCompression.
package hgraph
