package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// Ensure CategoryClassifier implements the interface.
var _ driving.CategoryService = (*CategoryClassifier)(nil)

// CategoryClassifier applies category changes to resources.
// It only ever touches the category and its audit fields.
type CategoryClassifier struct {
	resources driven.ResourceStore
	now       clock
}

// NewCategoryClassifier creates a new classifier.
func NewCategoryClassifier(resources driven.ResourceStore) *CategoryClassifier {
	return &CategoryClassifier{
		resources: resources,
		now:       systemClock,
	}
}

// Categorize sets a resource's category and refreshes its audit timestamp.
// Setting the current category again is allowed and only refreshes the timestamp.
func (c *CategoryClassifier) Categorize(
	ctx context.Context,
	resourceID string,
	category domain.Category,
	notes string,
) (*domain.Resource, error) {
	if c.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	if !category.IsValid() {
		return nil, domain.NewValidationError("unknown category %q", category)
	}
	if err := domain.ValidateNotes(notes); err != nil {
		return nil, err
	}

	resource, err := c.resources.Get(ctx, resourceID)
	if err != nil {
		return nil, lookupErr(err, "resource", resourceID)
	}

	previous := resource.Category
	resource.Category = category
	resource.CategorizedAt = c.now()
	if notes != "" {
		resource.CategoryNotes = notes
	}

	if err := c.resources.Save(ctx, *resource); err != nil {
		return nil, fmt.Errorf("save resource: %w", err)
	}

	logger.Info("Categorized %s: %s -> %s", resourceID, previous, category)
	return resource, nil
}

// Categories counts resources per category.
func (c *CategoryClassifier) Categories(ctx context.Context) (domain.CategorySnapshot, error) {
	if c.resources == nil {
		return domain.CategorySnapshot{}, domain.ErrNotImplemented
	}
	resources, err := c.resources.List(ctx)
	if err != nil {
		return domain.CategorySnapshot{}, fmt.Errorf("list resources: %w", err)
	}
	return domain.NewCategorySnapshot(resources), nil
}
