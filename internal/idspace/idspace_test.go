package idspace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorshelf/hgraph/internal/core"
)

func TestInternAssignsDenseIncreasingIds(t *testing.T) {
	s := New()
	id0, dup0 := s.Intern(100)
	id1, dup1 := s.Intern(200)
	assert.False(t, dup0)
	assert.False(t, dup1)
	assert.Equal(t, core.InnerID(0), id0)
	assert.Equal(t, core.InnerID(1), id1)
}

func TestInternDuplicateReturnsExistingId(t *testing.T) {
	s := New()
	id0, _ := s.Intern(42)
	id1, dup := s.Intern(42)
	assert.True(t, dup)
	assert.Equal(t, id0, id1)
	assert.Equal(t, 1, s.Count(), "a rejected duplicate must not allocate an inner id")
}

func TestBijection(t *testing.T) {
	s := New()
	for _, label := range []core.LabelID{7, 9, 11} {
		id, _ := s.Intern(label)
		assert.Equal(t, label, s.LabelOf(id))
		got, ok := s.InnerOf(label)
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestContains(t *testing.T) {
	s := New()
	assert.False(t, s.Contains(1))
	s.Intern(1)
	assert.True(t, s.Contains(1))
}

func TestLabelsRoundTripsThroughLoadFrom(t *testing.T) {
	s := New()
	s.Intern(5)
	s.Intern(6)
	s.Intern(7)
	labels := s.Labels()

	s2 := New()
	s2.LoadFrom(labels)
	assert.Equal(t, s.Count(), s2.Count())
	for i, label := range labels {
		assert.Equal(t, label, s2.LabelOf(core.InnerID(i)))
		id, ok := s2.InnerOf(label)
		require.True(t, ok)
		assert.Equal(t, core.InnerID(i), id)
	}
}

func TestConcurrentInternDistinctLabels(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	n := 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(label core.LabelID) {
			defer wg.Done()
			s.Intern(label)
		}(core.LabelID(i))
	}
	wg.Wait()
	assert.Equal(t, n, s.Count())
}
