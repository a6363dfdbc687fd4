package extrainfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

func TestBatchInsertAndGet(t *testing.T) {
	s := New(4)
	err := s.BatchInsertExtraInfo([][]byte{[]byte("abcd"), []byte("wxyz")})
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), s.GetExtraInfoById(0))
	assert.Equal(t, []byte("wxyz"), s.GetExtraInfoById(1))
}

func TestBatchInsertRejectsWrongSize(t *testing.T) {
	s := New(4)
	err := s.BatchInsertExtraInfo([][]byte{[]byte("ab")})
	assert.Error(t, err)
}

func TestNilBlobIsZeroFilled(t *testing.T) {
	s := New(3)
	require.NoError(t, s.BatchInsertExtraInfo([][]byte{nil}))
	assert.Equal(t, []byte{0, 0, 0}, s.GetExtraInfoById(0))
}

func TestEnabled(t *testing.T) {
	assert.False(t, New(0).Enabled())
	assert.True(t, New(1).Enabled())
}

func TestSerializeRoundTrip(t *testing.T) {
	s := New(4)
	require.NoError(t, s.BatchInsertExtraInfo([][]byte{[]byte("abcd"), []byte("wxyz")}))

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	s.Serialize(w)
	require.NoError(t, w.Err())

	fresh := New(0)
	r := wire.NewReader(&buf)
	fresh.Deserialize(r)
	require.NoError(t, r.Err())

	assert.Equal(t, s.ExtraInfoSize(), fresh.ExtraInfoSize())
	assert.Equal(t, s.TotalCount(), fresh.TotalCount())
	assert.Equal(t, s.GetExtraInfoById(core.InnerID(0)), fresh.GetExtraInfoById(core.InnerID(0)))
}

func TestNewBlobKeyIsUnique(t *testing.T) {
	a := NewBlobKey()
	b := NewBlobKey()
	assert.NotEqual(t, a, b)
}
