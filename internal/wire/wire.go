// Package wire provides the small binary encode/decode helpers shared by
// every collaborator's Serialize/Deserialize method, so the byte-stream
// format (spec §6) is written the same way throughout the module.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer accumulates encode errors so call sites can chain writes without
// checking each one, then inspect Err once at the end.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Err returns the first error encountered, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(buf []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(buf)
}

// U8 writes a single byte.
func (w *Writer) U8(v uint8) { w.write([]byte{v}) }

// U32 writes a little-endian uint32.
func (w *Writer) U32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.write(buf[:])
}

// U64 writes a little-endian uint64.
func (w *Writer) U64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.write(buf[:])
}

// I64 writes a little-endian int64.
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

// F64 writes a little-endian float64.
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

// Bytes writes raw bytes with no length prefix.
func (w *Writer) Bytes(b []byte) { w.write(b) }

// LenPrefixedBytes writes a u64 length followed by the bytes.
func (w *Writer) LenPrefixedBytes(b []byte) {
	w.U64(uint64(len(b)))
	w.write(b)
}

// Reader is the decode counterpart of Writer.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) read(buf []byte) {
	if r.err != nil {
		return
	}
	_, r.err = io.ReadFull(r.r, buf)
	if r.err != nil {
		r.err = fmt.Errorf("wire: truncated stream: %w", r.err)
	}
}

// U8 reads a single byte.
func (r *Reader) U8() uint8 {
	var buf [1]byte
	r.read(buf[:])
	return buf[0]
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() uint32 {
	var buf [4]byte
	r.read(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() uint64 {
	var buf [8]byte
	r.read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

// I64 reads a little-endian int64.
func (r *Reader) I64() int64 { return int64(r.U64()) }

// F64 reads a little-endian float64.
func (r *Reader) F64() float64 { return math.Float64frombits(r.U64()) }

// Bytes reads exactly n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	buf := make([]byte, n)
	r.read(buf)
	return buf
}

// LenPrefixedBytes reads a u64 length then that many bytes.
func (r *Reader) LenPrefixedBytes() []byte {
	n := r.U64()
	if r.err != nil {
		return nil
	}
	return r.Bytes(int(n))
}
