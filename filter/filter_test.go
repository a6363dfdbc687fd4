package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vectorshelf/hgraph/internal/core"
)

func TestRoaringFilterAllowsOnlyListedIds(t *testing.T) {
	f := NewRoaringFilter([]core.InnerID{1, 3, 5})
	assert.True(t, f.Allow(1))
	assert.True(t, f.Allow(3))
	assert.True(t, f.Allow(5))
	assert.False(t, f.Allow(2))
	assert.False(t, f.Allow(100))
}

func TestAsInnerFilter(t *testing.T) {
	f := NewRoaringFilter([]core.InnerID{7})
	fn := f.AsInnerFilter()
	assert.True(t, fn(7))
	assert.False(t, fn(8))
}
