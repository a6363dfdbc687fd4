package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.U8(7)
	w.U32(123456)
	w.U64(9_000_000_000)
	w.I64(-42)
	w.F64(3.5)
	w.LenPrefixedBytes([]byte("hello"))
	require.NoError(t, w.Err())

	r := NewReader(&buf)
	assert.Equal(t, uint8(7), r.U8())
	assert.Equal(t, uint32(123456), r.U32())
	assert.Equal(t, uint64(9_000_000_000), r.U64())
	assert.Equal(t, int64(-42), r.I64())
	assert.Equal(t, 3.5, r.F64())
	assert.Equal(t, []byte("hello"), r.LenPrefixedBytes())
	require.NoError(t, r.Err())
}

func TestReaderTruncatedStreamErrors(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))
	r.U64()
	assert.Error(t, r.Err())

	r2 := NewReader(bytes.NewReader([]byte{1, 2}))
	_ = r2.U8()
	_ = r2.U8()
	_ = r2.U8()
	assert.Error(t, r2.Err())
}
