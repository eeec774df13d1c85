package driving

import (
	"context"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// SuggestionService proposes candidate mappings.
type SuggestionService interface {
	// Suggest scores the resources matching pool and returns candidate pairs
	// ordered by descending confidence. It never mutates storage.
	Suggest(ctx context.Context, pool domain.ResourceFilter, opts domain.SuggestOptions) ([]domain.Suggestion, error)
}
