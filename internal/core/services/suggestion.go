package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/listing"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// Ensure SuggestionService implements the interface.
var _ driving.SuggestionService = (*SuggestionService)(nil)

// SuggestionService runs the confidence scorer over stored resources.
// It only reads from storage.
type SuggestionService struct {
	resources driven.ResourceStore
	mappings  driven.MappingStore
	settings  domain.SuggestSettings
}

// NewSuggestionService creates a new suggestion service.
// mappings is optional; without it already-mapped pairs are not filtered out.
func NewSuggestionService(
	resources driven.ResourceStore,
	mappings driven.MappingStore,
	settings domain.SuggestSettings,
) *SuggestionService {
	return &SuggestionService{
		resources: resources,
		mappings:  mappings,
		settings:  settings,
	}
}

// Suggest scores the resources matching pool. An unset threshold and a zero
// limit fall back to the configured values.
func (s *SuggestionService) Suggest(
	ctx context.Context,
	pool domain.ResourceFilter,
	opts domain.SuggestOptions,
) ([]domain.Suggestion, error) {
	if s.resources == nil {
		return nil, domain.ErrNotImplemented
	}

	minConfidence := s.settings.MinConfidence
	if opts.MinConfidence != nil {
		minConfidence = *opts.MinConfidence
	}
	if minConfidence < 0 || minConfidence > 100 {
		return nil, domain.NewValidationError("minimum confidence must be between 0 and 100, got %d", minConfidence)
	}
	limit := opts.Limit
	if limit == 0 {
		limit = s.settings.Limit
	}
	if limit < 0 {
		return nil, domain.NewValidationError("limit must not be negative")
	}

	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	candidates := listing.Filter(resources, listing.ResourcePredicates(pool)...)

	suggestions := NewConfidenceScorer(s.settings.Weights).Suggest(candidates, minConfidence)
	logger.Debug("Scored %d resources into %d suggestions above %d", len(candidates), len(suggestions), minConfidence)

	if !opts.IncludeMapped && s.mappings != nil {
		suggestions, err = s.dropMapped(ctx, suggestions)
		if err != nil {
			return nil, err
		}
	}

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// dropMapped removes pairs already recorded in some mapping group.
func (s *SuggestionService) dropMapped(
	ctx context.Context,
	suggestions []domain.Suggestion,
) ([]domain.Suggestion, error) {
	groups, err := s.mappings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	if len(groups) == 0 {
		return suggestions, nil
	}

	kept := suggestions[:0]
	for _, sg := range suggestions {
		mapped := false
		for i := range groups {
			if groups[i].HasPair(sg.SourceID, sg.TargetID) {
				mapped = true
				break
			}
		}
		if !mapped {
			kept = append(kept, sg)
		}
	}
	return kept, nil
}
