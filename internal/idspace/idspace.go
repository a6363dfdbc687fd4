// Package idspace implements the IdSpace collaborator: the bidirectional
// mapping between external labels and dense inner ids.
package idspace

import (
	"sync"

	"github.com/vectorshelf/hgraph/internal/core"
)

// Space is the label <-> inner id bijection. The forward map (label ->
// inner id) is guarded by a reader/writer lock since queries perform
// reverse lookups concurrently with inserts mutating it (spec §4.1); the
// reverse vector (inner id -> label) only ever grows by append under the
// same lock, so readers use the same RLock for both directions.
type Space struct {
	mu      sync.RWMutex
	forward map[core.LabelID]core.InnerID
	reverse []core.LabelID
}

// New creates an empty Space.
func New() *Space {
	return &Space{forward: make(map[core.LabelID]core.InnerID)}
}

// Intern assigns a fresh inner id to label, or reports that label already
// exists without allocating one.
func (s *Space) Intern(label core.LabelID) (id core.InnerID, duplicate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.forward[label]; ok {
		return existing, true
	}
	id = core.InnerID(len(s.reverse))
	s.forward[label] = id
	s.reverse = append(s.reverse, label)
	return id, false
}

// LabelOf returns the label for an inner id. Callers must only pass ids
// known to be interned; out-of-range ids are a programmer error, not a
// reportable condition, since the caller always owns the id from a prior
// Intern or graph traversal.
func (s *Space) LabelOf(id core.InnerID) core.LabelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reverse[id]
}

// InnerOf looks up the inner id for a label.
func (s *Space) InnerOf(label core.LabelID) (core.InnerID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.forward[label]
	return id, ok
}

// Contains reports whether label has been interned.
func (s *Space) Contains(label core.LabelID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.forward[label]
	return ok
}

// Count returns the number of interned labels.
func (s *Space) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reverse)
}

// Labels returns a copy of the dense inner-id -> label vector, in inner id
// order. Used by Serialize (spec §6, field 2).
func (s *Space) Labels() []core.LabelID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.LabelID, len(s.reverse))
	copy(out, s.reverse)
	return out
}

// LoadFrom rebuilds the Space from a labels vector in inner id order,
// discarding any existing contents. Used by Deserialize.
func (s *Space) LoadFrom(labels []core.LabelID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reverse = append([]core.LabelID(nil), labels...)
	s.forward = make(map[core.LabelID]core.InnerID, len(labels))
	for id, label := range labels {
		s.forward[label] = core.InnerID(id)
	}
}
