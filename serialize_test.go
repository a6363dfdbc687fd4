package hgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorshelf/hgraph/util"
)

func buildSample(t *testing.T, n, dim int, optFns ...Option) (*HGraph, []int64, [][]float32) {
	t.Helper()
	g, err := New(dim, optFns...)
	require.NoError(t, err)

	rng := util.NewRNG(99)
	vecs := rng.GenerateRandomVectors(n, dim)
	labels := make([]int64, n)
	for i := range labels {
		labels[i] = int64(i + 1)
	}
	_, err = g.Add(context.Background(), labels, vecs, nil)
	require.NoError(t, err)
	return g, labels, vecs
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	g, labels, vecs := buildSample(t, 120, 5)

	data, err := g.Serialize()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	loaded, err := New(5)
	require.NoError(t, err)
	require.NoError(t, loaded.Deserialize(data))

	assert.Equal(t, g.Len(), loaded.Len())
	assert.Equal(t, g.Stats().MaxLevel, loaded.Stats().MaxLevel)

	for i, label := range labels {
		want, err := g.KnnSearch(vecs[i], 3, SearchParams{}, nil)
		require.NoError(t, err)
		got, err := loaded.KnnSearch(vecs[i], 3, SearchParams{}, nil)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for j := range want {
			assert.Equal(t, want[j].Label, got[j].Label)
			assert.InDelta(t, want[j].Distance, got[j].Distance, 1e-4)
		}
		_ = label
	}
}

func TestSerializeDeserializeWithCompression(t *testing.T) {
	g, _, vecs := buildSample(t, 64, 4, WithCompression(true))

	data, err := g.Serialize()
	require.NoError(t, err)

	loaded, err := New(4, WithCompression(true))
	require.NoError(t, err)
	require.NoError(t, loaded.Deserialize(data))

	assert.Equal(t, g.Len(), loaded.Len())

	results, err := loaded.KnnSearch(vecs[0], 1, SearchParams{}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSerializeDeserializeWithReorder(t *testing.T) {
	g, _, vecs := buildSample(t, 64, 4, WithReorder(true))

	data, err := g.Serialize()
	require.NoError(t, err)

	loaded, err := New(4, WithReorder(true))
	require.NoError(t, err)
	require.NoError(t, loaded.Deserialize(data))

	d1, err := g.CalculateDistanceById(vecs[0], 1)
	require.NoError(t, err)
	d2, err := loaded.CalculateDistanceById(vecs[0], 1)
	require.NoError(t, err)
	assert.InDelta(t, d1, d2, 1e-4)
}

func TestSerializeEmptyIndexUsesMarker(t *testing.T) {
	g, err := New(3)
	require.NoError(t, err)

	data, err := g.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte(emptyMarker), data)

	loaded, err := New(3)
	require.NoError(t, err)
	require.NoError(t, loaded.Deserialize(data))
	assert.Equal(t, 0, loaded.Len())
}

func TestDeserializeIntoNonEmptyIndexFails(t *testing.T) {
	g, _, _ := buildSample(t, 10, 3)
	data, err := g.Serialize()
	require.NoError(t, err)

	target, err := New(3)
	require.NoError(t, err)
	_, addErr := target.Add(context.Background(), []int64{1}, [][]float32{{0, 0, 0}}, nil)
	require.NoError(t, addErr)

	err = target.Deserialize(data)
	require.Error(t, err)
	var hErr *Error
	require.ErrorAs(t, err, &hErr)
	assert.Equal(t, IndexNotEmpty, hErr.Kind)
}

func TestDeserializeRejectsDimMismatch(t *testing.T) {
	g, _, _ := buildSample(t, 10, 3)
	data, err := g.Serialize()
	require.NoError(t, err)

	target, err := New(5)
	require.NoError(t, err)
	err = target.Deserialize(data)
	require.Error(t, err)
	var hErr *Error
	require.ErrorAs(t, err, &hErr)
	assert.Equal(t, ReadError, hErr.Kind)
}
