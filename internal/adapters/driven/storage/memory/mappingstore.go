package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
)

// Ensure MappingStore implements the interface.
var _ driven.MappingStore = (*MappingStore)(nil)

// MappingStore is an in-memory implementation of driven.MappingStore.
// The compare-and-swap checks run under the write lock.
type MappingStore struct {
	mu     sync.RWMutex
	groups map[string]domain.MappingGroup
}

// NewMappingStore creates a new in-memory mapping store.
func NewMappingStore() *MappingStore {
	return &MappingStore{
		groups: make(map[string]domain.MappingGroup),
	}
}

// Create stores a new group.
func (s *MappingStore) Create(_ context.Context, group domain.MappingGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.groups[group.ID]; exists {
		return domain.ErrAlreadyExists
	}
	s.groups[group.ID] = group.Clone()
	return nil
}

// Get retrieves a group by ID.
func (s *MappingStore) Get(_ context.Context, id string) (*domain.MappingGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	g = g.Clone()
	return &g, nil
}

// List returns all groups ordered by ID.
func (s *MappingStore) List(_ context.Context) ([]domain.MappingGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.MappingGroup, 0, len(s.groups))
	for _, g := range s.groups {
		result = append(result, g.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Update replaces a group if its stored UpdatedAt equals expected.
func (s *MappingStore) Update(_ context.Context, group domain.MappingGroup, expected time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.groups[group.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !current.UpdatedAt.Equal(expected) {
		return domain.ErrConflict
	}
	s.groups[group.ID] = group.Clone()
	return nil
}

// Delete removes a group if its stored UpdatedAt equals expected.
func (s *MappingStore) Delete(_ context.Context, id string, expected time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.groups[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !current.UpdatedAt.Equal(expected) {
		return domain.ErrConflict
	}
	delete(s.groups, id)
	return nil
}
