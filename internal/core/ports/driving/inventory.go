package driving

import (
	"context"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// InventoryService exposes the discovered resources.
type InventoryService interface {
	// Sync pulls resources from the configured collector into the store.
	Sync(ctx context.Context) (*domain.SyncReport, error)

	// Refresh re-fetches one resource from the collector, keeping its category.
	Refresh(ctx context.Context, id string) (*domain.Resource, error)

	// Get retrieves a resource by ID.
	Get(ctx context.Context, id string) (*domain.Resource, error)

	// List filters, sorts and paginates resources.
	List(
		ctx context.Context,
		filter domain.ResourceFilter,
		sort domain.Sort,
		cursor string,
		pageSize int,
	) (*domain.Page[domain.Resource], error)

	// Export returns a full read-only snapshot of resources and mappings.
	Export(ctx context.Context) (*domain.Export, error)
}
