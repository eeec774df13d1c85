package domain

// Reasons reported by the confidence scorer. They are shown verbatim in audit views.
const (
	ReasonSameType    = "Same resource type"
	ReasonMatchedTags = "Matching tags and metadata"
	ReasonSameName    = "Same naming pattern"
	ReasonSameRegion  = "Same region"
)

// Suggestion is a candidate source/target pairing with a heuristic confidence.
type Suggestion struct {
	SourceID   string   `json:"sourceId"`
	TargetID   string   `json:"targetId"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// ScoringWeights controls how much each signal contributes to a confidence score.
// Weights are points out of 100; the final score is clamped to [0,100].
type ScoringWeights struct {
	Type   float64
	Tags   float64
	Name   float64
	Region float64
}

// DefaultScoringWeights returns the default weights: resource type dominates,
// region is minor.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Type: 50, Tags: 20, Name: 20, Region: 10}
}

// Total returns the sum of all weights.
func (w ScoringWeights) Total() float64 {
	return w.Type + w.Tags + w.Name + w.Region
}

// SuggestOptions tunes a suggestion run.
type SuggestOptions struct {
	// MinConfidence drops pairs scoring at or below this value. Nil uses the
	// configured threshold; an explicit 0 keeps every scored pair.
	MinConfidence *int

	// Limit truncates the result when positive.
	Limit int

	// IncludeMapped keeps pairs already recorded in a mapping group.
	IncludeMapped bool
}
