package hgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorshelf/hgraph/distance"
)

func TestFluentBuilderDefaults(t *testing.T) {
	g, err := NewBuilder(3).Build()
	require.NoError(t, err)
	assert.Equal(t, 3, g.Dim())
	assert.Equal(t, defaultMaxDegree, g.opts.maxDegree)
	assert.Equal(t, distance.MetricL2, g.opts.metric)
}

func TestFluentBuilderChaining(t *testing.T) {
	g, err := NewBuilder(4).
		Cosine().
		MaxDegree(8).
		EfConstruction(64).
		EfSearch(20).
		Reorder(true).
		Seed(11).
		Build()
	require.NoError(t, err)

	assert.Equal(t, distance.MetricCosine, g.opts.metric)
	assert.Equal(t, 8, g.opts.maxDegree)
	assert.Equal(t, 64, g.opts.efConstruction)
	assert.Equal(t, 20, g.opts.efSearch)
	assert.True(t, g.opts.useReorder)
}

func TestFluentBuilderMustBuildPanicsOnBadDim(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder(0).MustBuild()
	})
}

func TestFluentBuilderProducesUsableIndex(t *testing.T) {
	g := NewBuilder(2).MaxDegree(4).MustBuild()

	_, err := g.Add(context.Background(), []int64{1, 2, 3}, [][]float32{{0, 0}, {1, 0}, {5, 5}}, nil)
	require.NoError(t, err)

	results, err := g.KnnSearch([]float32{0, 0}, 1, SearchParams{}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].Label)
}
