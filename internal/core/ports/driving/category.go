package driving

import (
	"context"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// CategoryService classifies resources.
type CategoryService interface {
	// Categorize sets a resource's category and refreshes its audit timestamp.
	// Setting the current category again succeeds and only refreshes the timestamp.
	Categorize(ctx context.Context, resourceID string, category domain.Category, notes string) (*domain.Resource, error)

	// Categories counts resources per category.
	Categories(ctx context.Context) (domain.CategorySnapshot, error)
}
