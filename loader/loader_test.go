package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoadParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.parquet")

	labels := []int64{1, 2, 3}
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
		{0.7, 0.8, 0.9},
	}

	require.NoError(t, WriteParquet(path, labels, vectors))

	gotLabels, gotVectors, err := LoadParquet(path)
	require.NoError(t, err)

	assert.Equal(t, labels, gotLabels)
	require.Len(t, gotVectors, len(vectors))
	for i := range vectors {
		assert.Equal(t, vectors[i], gotVectors[i])
	}
}

func TestLoadParquetMissingFile(t *testing.T) {
	_, _, err := LoadParquet(filepath.Join(t.TempDir(), "missing.parquet"))
	require.Error(t, err)
}
