package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// Ensure BulkCoordinator implements the interface.
var _ driving.BulkService = (*BulkCoordinator)(nil)

// BulkCoordinator drives the classifier and the mapping graph over a
// selection. Items are processed one at a time and independently: a failed
// item is recorded and the run continues. Selection limits are checked before
// the first mutation.
type BulkCoordinator struct {
	classifier driving.CategoryService
	graph      driving.MappingService
	limits     domain.BulkLimits
}

// NewBulkCoordinator creates a new bulk coordinator.
func NewBulkCoordinator(
	classifier driving.CategoryService,
	graph driving.MappingService,
	settings domain.BulkSettings,
) *BulkCoordinator {
	limits := settings.Limits()
	if limits.MaxItems <= 0 {
		limits = domain.DefaultEngineSettings().Bulk.Limits()
	}
	return &BulkCoordinator{
		classifier: classifier,
		graph:      graph,
		limits:     limits,
	}
}

// BulkCategorize sets the same category on every resource in ids.
func (b *BulkCoordinator) BulkCategorize(
	ctx context.Context,
	ids []string,
	category domain.Category,
	opts domain.BulkOptions,
) (*domain.BulkResult[domain.Resource], error) {
	if b.classifier == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := b.limits.Check(len(ids), opts.Confirmed); err != nil {
		logger.Warn("Bulk categorize of %d resources refused: %v", len(ids), err)
		return nil, err
	}
	if !category.IsValid() {
		return nil, domain.NewValidationError("unknown category %q", category)
	}

	logger.Section("Bulk categorize")
	return runBulk(ctx, ids, func(id string) string { return id },
		func(id string) (domain.Resource, error) {
			r, err := b.classifier.Categorize(ctx, id, category, opts.Notes)
			if err != nil {
				return domain.Resource{}, err
			}
			return *r, nil
		})
}

// BulkMap creates one mapping group per request. opts.Notes is used for
// requests that carry no notes of their own.
func (b *BulkCoordinator) BulkMap(
	ctx context.Context,
	requests []domain.MappingRequest,
	opts domain.BulkOptions,
) (*domain.BulkResult[domain.MappingGroup], error) {
	if b.graph == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := b.limits.Check(len(requests), opts.Confirmed); err != nil {
		logger.Warn("Bulk map of %d requests refused: %v", len(requests), err)
		return nil, err
	}

	type item struct {
		key string
		req domain.MappingRequest
	}
	items := make([]item, len(requests))
	for i, req := range requests {
		if req.Notes == "" {
			req.Notes = opts.Notes
		}
		key := req.Key()
		if key == "" {
			key = fmt.Sprintf("request[%d]", i)
		}
		items[i] = item{key: key, req: req}
	}

	logger.Section("Bulk map")
	return runBulk(ctx, items, func(it item) string { return it.key },
		func(it item) (domain.MappingGroup, error) {
			group, err := b.graph.Create(ctx, it.req)
			if err != nil {
				return domain.MappingGroup{}, err
			}
			return *group, nil
		})
}

// BulkDeleteMappings deletes groups by reference. Deletion is destructive,
// so the call is refused unless opts.Confirmed is set, whatever the selection
// size. A reference without an expected UpdatedAt deletes the current version.
func (b *BulkCoordinator) BulkDeleteMappings(
	ctx context.Context,
	refs []domain.MappingRef,
	opts domain.BulkOptions,
) (*domain.BulkResult[string], error) {
	if b.graph == nil {
		return nil, domain.ErrNotImplemented
	}
	if !opts.Confirmed {
		return nil, &domain.Error{
			Kind:    domain.KindConfirmationRequired,
			Message: fmt.Sprintf("deleting %d mappings requires confirmation", len(refs)),
		}
	}
	if err := b.limits.Check(len(refs), opts.Confirmed); err != nil {
		logger.Warn("Bulk delete of %d mappings refused: %v", len(refs), err)
		return nil, err
	}

	logger.Section("Bulk delete")
	return runBulk(ctx, refs, func(ref domain.MappingRef) string { return ref.ID },
		func(ref domain.MappingRef) (string, error) {
			expected := ref.ExpectedUpdatedAt
			if expected.IsZero() {
				group, err := b.graph.Get(ctx, ref.ID)
				if err != nil {
					return "", err
				}
				expected = group.UpdatedAt
			}
			if err := b.graph.Delete(ctx, ref.ID, expected); err != nil {
				return "", err
			}
			return ref.ID, nil
		})
}

// runBulk applies fn to each item in order. Outcomes are recorded in input
// order. Cancellation is observed between items: once ctx is done, every
// remaining item is reported as failed with the context error.
func runBulk[I, T any](
	ctx context.Context,
	items []I,
	key func(I) string,
	fn func(I) (T, error),
) (*domain.BulkResult[T], error) {
	result := &domain.BulkResult[T]{
		Succeeded: []T{},
		Failed:    []domain.BulkFailure{},
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			for _, rest := range items[i:] {
				result.Failed = append(result.Failed, domain.BulkFailure{ID: key(rest), Error: err})
			}
			logger.Warn("Bulk run cancelled after %d of %d items", i, len(items))
			break
		}

		out, err := fn(item)
		if err != nil {
			logger.Warn("Bulk item %s failed: %v", key(item), err)
			result.Failed = append(result.Failed, domain.BulkFailure{ID: key(item), Error: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, out)
	}

	logger.Info("Bulk run: %s", result)
	return result, nil
}
