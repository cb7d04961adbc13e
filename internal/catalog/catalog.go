package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/imagerouter/imagerouter-go/internal/apperrors"
)

// Snapshot is a complete, immutable view of the catalog at a point in
// time. Descriptors keep their insertion order.
type Snapshot struct {
	models []*ModelDescriptor
	byID   map[string]*ModelDescriptor
}

// NewSnapshot builds a snapshot from descriptors. Duplicate ids are a
// construction error: a snapshot must resolve every id unambiguously.
func NewSnapshot(models []*ModelDescriptor) (*Snapshot, error) {
	s := &Snapshot{
		models: make([]*ModelDescriptor, 0, len(models)),
		byID:   make(map[string]*ModelDescriptor, len(models)),
	}
	for _, m := range models {
		if m.ID == "" {
			return nil, fmt.Errorf("model with empty id")
		}
		if _, exists := s.byID[m.ID]; exists {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		s.models = append(s.models, m)
		s.byID[m.ID] = m
	}
	return s, nil
}

// Lookup resolves a model id.
func (s *Snapshot) Lookup(id string) (*ModelDescriptor, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindModelNotFound, "model %q not found", id)
	}
	return m, nil
}

// List returns descriptors in insertion order, filtered by media type
// when filter is non-empty.
func (s *Snapshot) List(filter MediaType) []*ModelDescriptor {
	if filter == "" {
		out := make([]*ModelDescriptor, len(s.models))
		copy(out, s.models)
		return out
	}
	var out []*ModelDescriptor
	for _, m := range s.models {
		if m.Media == filter {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of models in the snapshot.
func (s *Snapshot) Len() int { return len(s.models) }

// Store holds the process's current catalog snapshot. Replace publishes a
// new snapshot with an atomic pointer swap, so concurrent readers see
// either the old or the new catalog in full.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store seeded with an initial snapshot. initial may
// be nil; readers then see an empty catalog until the first refresh.
func NewStore(initial *Snapshot) *Store {
	st := &Store{}
	if initial == nil {
		initial = &Snapshot{byID: map[string]*ModelDescriptor{}}
	}
	st.current.Store(initial)
	return st
}

// Snapshot returns the current catalog view. The result is immutable and
// stays valid after later refreshes.
func (st *Store) Snapshot() *Snapshot {
	return st.current.Load()
}

// Replace atomically publishes a new snapshot.
func (st *Store) Replace(s *Snapshot) {
	st.current.Store(s)
}

// Refresh parses raw service catalog data and publishes it. The old
// snapshot stays visible if parsing fails. Refreshing twice with the same
// data yields an identical catalog.
func (st *Store) Refresh(raw []byte) error {
	s, err := ParseRaw(raw)
	if err != nil {
		return fmt.Errorf("refreshing catalog: %w", err)
	}
	st.Replace(s)
	return nil
}
