package visitedpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireFreshIsUnvisited(t *testing.T) {
	p := New(16)
	h := p.Acquire()
	for i := uint32(0); i < 16; i++ {
		assert.False(t, h.Visited(i))
	}
}

func TestVisitMarksAndReports(t *testing.T) {
	p := New(16)
	h := p.Acquire()

	assert.False(t, h.Visit(3))
	assert.True(t, h.Visited(3))
	assert.True(t, h.Visit(3))
	assert.False(t, h.Visited(4))
}

func TestReleaseThenAcquireResetsGeneration(t *testing.T) {
	p := New(16)
	h1 := p.Acquire()
	h1.Visit(5)
	p.Release(h1)

	h2 := p.Acquire()
	require.Same(t, h1, h2, "expected the freed handle to be reused")
	assert.False(t, h2.Visited(5))
}

func TestGenerationWrapZeroes(t *testing.T) {
	p := New(4)
	h := p.Acquire()
	h.Visit(0)
	h.cur = ^uint16(0)
	p.Release(h)

	h2 := p.Acquire()
	require.Same(t, h, h2)
	assert.Equal(t, uint16(1), h2.cur)
	for i := uint32(0); i < 4; i++ {
		assert.False(t, h2.Visited(i))
	}
}

func TestConcurrentAcquireReleaseDistinctHandles(t *testing.T) {
	p := New(8)
	h1 := p.Acquire()
	h2 := p.Acquire()
	assert.NotSame(t, h1, h2)
	p.Release(h1)
	p.Release(h2)
}

func TestResizeChangesCapacityOfFutureHandles(t *testing.T) {
	p := New(4)
	p.Resize(32)
	assert.Equal(t, 32, p.Capacity())

	h := p.Acquire()
	assert.False(t, h.Visited(31))
}
