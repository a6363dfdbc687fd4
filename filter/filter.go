// Package filter implements the Filter collaborator (spec §6): a callable
// returning bool for a given id, admitting or rejecting it from Searcher's
// results.
package filter

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/vectorshelf/hgraph/internal/core"
)

// LabelFilter is evaluated by HGraph's facade against external labels
// (KnnSearch/RangeSearch's public signature).
type LabelFilter func(label core.LabelID) bool

// InnerFilter is evaluated by Searcher against inner ids, the
// representation the beam traversal actually walks.
type InnerFilter func(id core.InnerID) bool

// RoaringFilter is an InnerFilter backed by a compressed allow-list over
// inner ids, for callers who have precomputed a candidate id set rather
// than a predicate (spec §6, SPEC_FULL §11).
type RoaringFilter struct {
	bitmap *roaring.Bitmap
}

// NewRoaringFilter builds a RoaringFilter admitting exactly the given ids.
func NewRoaringFilter(ids []core.InnerID) *RoaringFilter {
	bm := roaring.New()
	for _, id := range ids {
		bm.Add(id)
	}
	bm.RunOptimize()
	return &RoaringFilter{bitmap: bm}
}

// Allow reports whether id is in the allow-list.
func (f *RoaringFilter) Allow(id core.InnerID) bool {
	return f.bitmap.Contains(id)
}

// AsInnerFilter adapts f to the InnerFilter function type Searcher expects.
func (f *RoaringFilter) AsInnerFilter() InnerFilter {
	return f.Allow
}
