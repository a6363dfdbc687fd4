// Package extrainfo implements the ExtraInfo collaborator (spec §6): a
// fixed-size opaque blob stored per inner id, recovered from
// original_source/'s extra_info_datacell_parameter.cpp as a feature the
// distilled spec only stubbed out as an interface (SPEC_FULL §12).
package extrainfo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vectorshelf/hgraph/internal/core"
	"github.com/vectorshelf/hgraph/internal/wire"
)

// Store holds one fixed-width blob per inner id.
type Store struct {
	size int // bytes per entry
	data [][]byte
}

// New creates an empty Store for blobs of size bytes each. size == 0 means
// extra info is disabled (spec: "extra_info_size > 0").
func New(size int) *Store {
	return &Store{size: size}
}

// Enabled reports whether this index was configured to carry extra info.
func (s *Store) Enabled() bool { return s.size > 0 }

// ExtraInfoSize returns the fixed blob width in bytes.
func (s *Store) ExtraInfoSize() int { return s.size }

// TotalCount returns the number of entries stored.
func (s *Store) TotalCount() int { return len(s.data) }

// BatchInsertExtraInfo appends one blob per entry in order. Each blob must
// be exactly ExtraInfoSize() bytes; a nil blob is zero-filled so inner ids
// stay aligned with the vectors inserted alongside them even when the
// caller has nothing to attach.
func (s *Store) BatchInsertExtraInfo(blobs [][]byte) error {
	for _, b := range blobs {
		if b != nil && len(b) != s.size {
			return fmt.Errorf("extrainfo: blob length %d != configured size %d", len(b), s.size)
		}
	}
	for _, b := range blobs {
		entry := make([]byte, s.size)
		copy(entry, b)
		s.data = append(s.data, entry)
	}
	return nil
}

// GetExtraInfoById returns id's blob.
func (s *Store) GetExtraInfoById(id core.InnerID) []byte {
	out := make([]byte, s.size)
	copy(out, s.data[id])
	return out
}

// NewBlobKey mints an opaque key for a caller that doesn't supply one of
// its own (grounded on the teacher's blobstore key scheme, SPEC_FULL §11).
func NewBlobKey() string {
	return uuid.NewString()
}

func (s *Store) Serialize(w *wire.Writer) {
	w.U64(uint64(s.size))
	w.U64(uint64(len(s.data)))
	for _, entry := range s.data {
		w.Bytes(entry)
	}
}

func (s *Store) Deserialize(r *wire.Reader) {
	s.size = int(r.U64())
	n := int(r.U64())
	s.data = make([][]byte, n)
	for i := range s.data {
		s.data[i] = r.Bytes(s.size)
	}
}
