// Package core defines the identifier types shared across hgraph's
// components, so that graph adjacency, label lookups, and heaps all agree
// on a single representation without importing each other.
package core

// InnerID is the dense, internal identifier for a vector. It is assigned
// monotonically in [0, TotalCount) and never reused (spec §3: "Non-goals"
// excludes deletion, so there is no free list).
type InnerID = uint32

// LabelID is the external, user-supplied identifier for a vector.
type LabelID = int64

// InvalidInnerID is the all-ones InnerID, reserved to mark the absence of
// an inner id. The builder does not use it: an empty index's entry point
// is 0 until the first insert.
const InvalidInnerID InnerID = ^InnerID(0)
