package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorshelf/hgraph/codec"
	"github.com/vectorshelf/hgraph/distance"
	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/graphcell"
	"github.com/vectorshelf/hgraph/internal/nodelocks"
	"github.com/vectorshelf/hgraph/internal/visitedpool"
)

// buildLineGraph places points 0..n-1 at positions 0,1,2,...,(n-1) on a
// line and connects each to its immediate neighbors, forming a simple
// fully-connected chain to traverse.
func buildLineGraph(t *testing.T, n int) (*graphcell.Dense, *codec.Base) {
	t.Helper()
	cell := graphcell.NewDense(n, 4)
	cd := codec.NewBase(1, distance.MetricL2)

	vecs := make([][]float32, n)
	for i := 0; i < n; i++ {
		vecs[i] = []float32{float32(i)}
	}
	cd.BatchInsertVector(vecs)

	for i := 0; i < n; i++ {
		var neighbors []core.InnerID
		if i > 0 {
			neighbors = append(neighbors, core.InnerID(i-1))
		}
		if i < n-1 {
			neighbors = append(neighbors, core.InnerID(i+1))
		}
		cell.InsertNeighborsById(core.InnerID(i), neighbors)
	}
	cell.IncreaseTotalCount(n)
	return cell, cd
}

func TestKnnSearchFindsNearest(t *testing.T) {
	n := 20
	cell, cd := buildLineGraph(t, n)
	locks := nodelocks.New(n)
	pool := visitedpool.New(n)

	query := []float32{10.4}
	computer := cd.FactoryComputer(query)
	results := Search(cell, locks, cd, computer, pool, Params{
		EntryPoint: 0,
		Ef:         10,
		Mode:       KNN,
		TopK:       3,
	})

	require.Len(t, results, 3)
	assert.Equal(t, core.InnerID(10), results[0].Node)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestKnnSearchRespectsFilter(t *testing.T) {
	n := 20
	cell, cd := buildLineGraph(t, n)
	locks := nodelocks.New(n)
	pool := visitedpool.New(n)

	query := []float32{10.0}
	computer := cd.FactoryComputer(query)
	results := Search(cell, locks, cd, computer, pool, Params{
		EntryPoint: 0,
		Ef:         10,
		Mode:       KNN,
		TopK:       1,
		Filter: func(id core.InnerID) bool {
			return id%2 == 0
		},
	})

	require.Len(t, results, 1)
	assert.Equal(t, uint32(0), results[0].Node%2)
}

func TestRangeSearchReturnsWithinRadius(t *testing.T) {
	n := 20
	cell, cd := buildLineGraph(t, n)
	locks := nodelocks.New(n)
	pool := visitedpool.New(n)

	query := []float32{10.0}
	computer := cd.FactoryComputer(query)
	results := Search(cell, locks, cd, computer, pool, Params{
		EntryPoint: 0,
		Ef:         10,
		Mode:       RANGE,
		Radius:     4, // squared L2 distance, so |delta| <= 2
		Limit:      -1,
	})

	for _, r := range results {
		assert.LessOrEqual(t, r.Distance, float32(4)+1e-5)
	}
	ids := make(map[core.InnerID]bool)
	for _, r := range results {
		ids[r.Node] = true
	}
	assert.True(t, ids[8])
	assert.True(t, ids[9])
	assert.True(t, ids[10])
	assert.True(t, ids[11])
	assert.True(t, ids[12])
}

func TestRangeSearchLimitTrims(t *testing.T) {
	n := 20
	cell, cd := buildLineGraph(t, n)
	locks := nodelocks.New(n)
	pool := visitedpool.New(n)

	query := []float32{10.0}
	computer := cd.FactoryComputer(query)
	results := Search(cell, locks, cd, computer, pool, Params{
		EntryPoint: 0,
		Ef:         10,
		Mode:       RANGE,
		Radius:     100,
		Limit:      2,
	})

	assert.Len(t, results, 2)
}

func TestKnnSearchKGreaterThanN(t *testing.T) {
	n := 5
	cell, cd := buildLineGraph(t, n)
	locks := nodelocks.New(n)
	pool := visitedpool.New(n)

	query := []float32{2}
	computer := cd.FactoryComputer(query)
	results := Search(cell, locks, cd, computer, pool, Params{
		EntryPoint: 0,
		Ef:         10,
		Mode:       KNN,
		TopK:       100,
	})

	assert.Len(t, results, n)
}
