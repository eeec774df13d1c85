package driven

import (
	"context"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// ResourceStore persists discovered resources. Resources are never removed.
type ResourceStore interface {
	// Save stores or updates a resource.
	Save(ctx context.Context, resource domain.Resource) error

	// SaveBatch stores or updates several resources in one operation.
	SaveBatch(ctx context.Context, resources []domain.Resource) error

	// Get retrieves a resource by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Resource, error)

	// List returns all resources ordered by ID.
	List(ctx context.Context) ([]domain.Resource, error)

	// ListAfter returns up to limit resources with an ID greater than afterID,
	// ordered by ID. An empty afterID starts from the beginning.
	ListAfter(ctx context.Context, afterID string, limit int) ([]domain.Resource, error)

	// SaveDiscovered upserts resources reported by a collector. Stored
	// resources get their type, region, name, tags and last-seen time
	// replaced while category, categorized-at and category notes stay as
	// stored. New resources are inserted uncategorized. It returns how many
	// resources were new.
	SaveDiscovered(ctx context.Context, resources []domain.Resource) (int, error)
}
