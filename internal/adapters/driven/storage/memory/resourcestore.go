package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
)

// Ensure ResourceStore implements the interface.
var _ driven.ResourceStore = (*ResourceStore)(nil)

// ResourceStore is an in-memory implementation of driven.ResourceStore.
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[string]domain.Resource
}

// NewResourceStore creates a new in-memory resource store.
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[string]domain.Resource),
	}
}

// Save stores or updates a resource.
func (s *ResourceStore) Save(_ context.Context, resource domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[resource.ID] = cloneResource(resource)
	return nil
}

// SaveBatch stores or updates several resources.
func (s *ResourceStore) SaveBatch(_ context.Context, resources []domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range resources {
		s.resources[r.ID] = cloneResource(r)
	}
	return nil
}

// Get retrieves a resource by ID.
func (s *ResourceStore) Get(_ context.Context, id string) (*domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r = cloneResource(r)
	return &r, nil
}

// List returns all resources ordered by ID.
func (s *ResourceStore) List(_ context.Context) ([]domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(""), nil
}

// ListAfter returns up to limit resources with an ID greater than afterID.
func (s *ResourceStore) ListAfter(_ context.Context, afterID string, limit int) ([]domain.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := s.sorted(afterID)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SaveDiscovered upserts discovery fields, keeping stored categories.
func (s *ResourceStore) SaveDiscovered(_ context.Context, resources []domain.Resource) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, r := range resources {
		r = cloneResource(r)
		if prev, ok := s.resources[r.ID]; ok {
			r.Category = prev.Category
			r.CategorizedAt = prev.CategorizedAt
			r.CategoryNotes = prev.CategoryNotes
		} else {
			r.Category = domain.CategoryUncategorized
			r.CategorizedAt = time.Time{}
			r.CategoryNotes = ""
			added++
		}
		s.resources[r.ID] = r
	}
	return added, nil
}

// sorted returns copies of resources with an ID above afterID (caller must hold lock).
func (s *ResourceStore) sorted(afterID string) []domain.Resource {
	result := make([]domain.Resource, 0, len(s.resources))
	for id, r := range s.resources {
		if afterID != "" && id <= afterID {
			continue
		}
		result = append(result, cloneResource(r))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func cloneResource(r domain.Resource) domain.Resource {
	if r.Tags != nil {
		tags := make(map[string]string, len(r.Tags))
		for k, v := range r.Tags {
			tags[k] = v
		}
		r.Tags = tags
	}
	return r
}
