package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

func testCodecs(dim int) []Codec {
	return []Codec{
		NewBase(dim, distance.MetricL2),
		NewPrecise(dim, distance.MetricL2),
	}
}

func TestQueryMatchesInsertedVectors(t *testing.T) {
	for _, c := range testCodecs(3) {
		c.BatchInsertVector([][]float32{
			{1, 2, 3},
			{4, 5, 6},
		})
		computer := c.FactoryComputer([]float32{1, 2, 3})
		out := make([]float32, 2)
		c.Query(out, computer, []core.InnerID{0, 1})
		assert.InDelta(t, 0, out[0], 1e-2)
		assert.InDelta(t, 27, out[1], 1e-1)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	for _, c := range testCodecs(4) {
		c.BatchInsertVector([][]float32{{1, 2, 3, 4}, {0, 0, 0, 0}})

		var buf bytes.Buffer
		w := wire.NewWriter(&buf)
		c.Serialize(w)
		require.NoError(t, w.Err())

		var fresh Codec
		switch c.(type) {
		case *Base:
			fresh = NewBase(0, distance.MetricL2)
		case *Precise:
			fresh = NewPrecise(0, distance.MetricL2)
		}
		r := wire.NewReader(&buf)
		fresh.Deserialize(r)
		require.NoError(t, r.Err())

		computer := fresh.FactoryComputer([]float32{1, 2, 3, 4})
		out := make([]float32, 2)
		fresh.Query(out, computer, []core.InnerID{0, 1})
		assert.InDelta(t, 0, out[0], 1e-1)
	}
}

func TestDistanceBetweenStoredCodes(t *testing.T) {
	for _, c := range testCodecs(2) {
		c.BatchInsertVector([][]float32{{0, 0}, {3, 4}})
		assert.InDelta(t, 25, c.Distance(0, 1), 1e-1)
		assert.InDelta(t, 0, c.Distance(0, 0), 1e-2)
	}
}

func TestCodeSize(t *testing.T) {
	assert.Equal(t, 8, NewBase(4, distance.MetricL2).CodeSize())
	assert.Equal(t, 16, NewPrecise(4, distance.MetricL2).CodeSize())
}
