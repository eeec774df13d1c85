package driving

import (
	"context"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// BulkService applies classification and mapping actions over a selection.
// Items are processed independently: one failure never aborts the rest.
// Selection limits are checked before any mutation begins.
type BulkService interface {
	// BulkCategorize sets the same category on every resource in ids.
	BulkCategorize(
		ctx context.Context,
		ids []string,
		category domain.Category,
		opts domain.BulkOptions,
	) (*domain.BulkResult[domain.Resource], error)

	// BulkMap creates one mapping group per request.
	BulkMap(
		ctx context.Context,
		requests []domain.MappingRequest,
		opts domain.BulkOptions,
	) (*domain.BulkResult[domain.MappingGroup], error)

	// BulkDeleteMappings deletes the referenced groups, each only if it still
	// carries the given UpdatedAt. Always requires opts.Confirmed.
	BulkDeleteMappings(
		ctx context.Context,
		refs []domain.MappingRef,
		opts domain.BulkOptions,
	) (*domain.BulkResult[string], error)
}
