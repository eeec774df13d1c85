package driven

import (
	"context"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// Collector discovers resources from an infrastructure provider.
// Collectors never set categories; the engine never initiates discovery on its own.
type Collector interface {
	// Name identifies the collector (e.g. "aws", "file").
	Name() string

	// ListResources returns every resource matching the filter.
	// A zero filter returns everything.
	ListResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error)

	// ResourceByID fetches a single resource. Returns domain.ErrNotFound if absent.
	ResourceByID(ctx context.Context, id string) (*domain.Resource, error)
}
