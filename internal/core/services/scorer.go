package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// minNameSimilarity is the similarity below which names are not considered related.
const minNameSimilarity = 0.5

// ConfidenceScorer proposes candidate target matches for unmigrated resources.
// It is a pure function of its input and holds no state besides its weights.
type ConfidenceScorer struct {
	weights domain.ScoringWeights
}

// NewConfidenceScorer creates a scorer. Weights that do not sum to a positive
// value fall back to the defaults.
func NewConfidenceScorer(weights domain.ScoringWeights) *ConfidenceScorer {
	if weights.Total() <= 0 {
		weights = domain.DefaultScoringWeights()
	}
	return &ConfidenceScorer{weights: weights}
}

// Score rates how likely target replaces source, in [0,100], and lists the
// signals that contributed.
func (s *ConfidenceScorer) Score(source, target domain.Resource) (int, []string) {
	var points float64
	reasons := []string{}

	if source.Type != "" && source.Type == target.Type {
		points += s.weights.Type
		reasons = append(reasons, domain.ReasonSameType)
	}
	if overlap := tagOverlap(source.Tags, target.Tags); overlap > 0 {
		points += overlap * s.weights.Tags
		reasons = append(reasons, domain.ReasonMatchedTags)
	}
	if sim := nameSimilarity(source.Name, target.Name); sim >= minNameSimilarity {
		points += sim * s.weights.Name
		reasons = append(reasons, domain.ReasonSameName)
	}
	if source.Region != "" && source.Region == target.Region {
		points += s.weights.Region
		reasons = append(reasons, domain.ReasonSameRegion)
	}

	score := int(math.Round(points * 100 / s.weights.Total()))
	return min(max(score, 0), 100), reasons
}

// Suggest pairs every uncategorized or old resource in pool with every new
// resource and returns the pairs scoring above minConfidence, ordered by
// descending confidence, then ascending target ID, then ascending source ID.
func (s *ConfidenceScorer) Suggest(pool []domain.Resource, minConfidence int) []domain.Suggestion {
	var sources, targets []domain.Resource
	for _, r := range pool {
		switch r.Category {
		case domain.CategoryNew:
			targets = append(targets, r)
		case domain.CategoryOld, domain.CategoryUncategorized, "":
			sources = append(sources, r)
		}
	}

	suggestions := []domain.Suggestion{}
	for _, src := range sources {
		for _, tgt := range targets {
			if src.ID == tgt.ID {
				continue
			}
			confidence, reasons := s.Score(src, tgt)
			if confidence <= minConfidence {
				continue
			}
			suggestions = append(suggestions, domain.Suggestion{
				SourceID:   src.ID,
				TargetID:   tgt.ID,
				Confidence: confidence,
				Reasons:    reasons,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.TargetID != b.TargetID {
			return a.TargetID < b.TargetID
		}
		return a.SourceID < b.SourceID
	})

	return suggestions
}
