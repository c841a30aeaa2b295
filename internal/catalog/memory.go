package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/streamforge/bpctl/internal/blueprint"
)

// MemoryStore is an in-memory Store used in tests and as a scratch
// catalog.
type MemoryStore struct {
	mu          sync.RWMutex
	descriptors map[string]blueprint.StreamletDescriptor
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		descriptors: make(map[string]blueprint.StreamletDescriptor),
	}
}

// Open initializes the store.
func (s *MemoryStore) Open() error { return nil }

// Close closes the store.
func (s *MemoryStore) Close() error { return nil }

// Put stores a descriptor, replacing any with the same class name.
func (s *MemoryStore) Put(ctx context.Context, d blueprint.StreamletDescriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.descriptors[d.ClassName] = d
	return nil
}

// Get retrieves a descriptor by class name.
func (s *MemoryStore) Get(ctx context.Context, className string) (*blueprint.StreamletDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.descriptors[className]
	if !ok {
		return nil, ErrDescriptorNotFound{ClassName: className}
	}
	return &d, nil
}

// List retrieves all descriptors, ordered by class name.
func (s *MemoryStore) List(ctx context.Context) ([]blueprint.StreamletDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.descriptors))
	for name := range s.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]blueprint.StreamletDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, s.descriptors[name])
	}
	return out, nil
}

// Delete removes a descriptor by class name.
func (s *MemoryStore) Delete(ctx context.Context, className string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.descriptors[className]; !ok {
		return ErrDescriptorNotFound{ClassName: className}
	}
	delete(s.descriptors, className)
	return nil
}
