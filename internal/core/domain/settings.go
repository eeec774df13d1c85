package domain

// Default engine settings.
const (
	DefaultBulkWarnThreshold = 25
	DefaultBulkMaxItems      = 50
	DefaultPageSize          = 25
	MaxPageSize              = 500
)

// BulkSettings bounds bulk operations.
type BulkSettings struct {
	// WarnThreshold requires confirmation above this many items.
	WarnThreshold int

	// MaxItems is the hard cap on a bulk selection.
	MaxItems int
}

// Limits converts the settings into selection limits.
func (b BulkSettings) Limits() BulkLimits {
	return BulkLimits{WarnAbove: b.WarnThreshold, MaxItems: b.MaxItems}
}

// SuggestSettings tunes the confidence scorer.
type SuggestSettings struct {
	// MinConfidence drops pairs scoring at or below this value.
	MinConfidence int

	// Limit truncates suggestion lists when positive.
	Limit int

	// Weights controls each signal's contribution.
	Weights ScoringWeights
}

// ListSettings holds listing defaults.
type ListSettings struct {
	// PageSize is used when a caller does not supply one.
	PageSize int
}

// CollectorSettings configures inventory discovery.
type CollectorSettings struct {
	// InventoryFile is a JSON or TOML inventory to read resources from.
	InventoryFile string

	// AWSRegions lists the AWS regions to scan. Empty disables AWS discovery.
	AWSRegions []string

	// GCPProject is the GCP project to scan. Empty disables GCP discovery.
	GCPProject string
}

// EngineSettings holds all application settings.
type EngineSettings struct {
	Bulk       BulkSettings
	Suggest    SuggestSettings
	List       ListSettings
	Collectors CollectorSettings
}

// DefaultEngineSettings returns settings with sensible defaults.
// No collector is configured by default.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Bulk: BulkSettings{
			WarnThreshold: DefaultBulkWarnThreshold,
			MaxItems:      DefaultBulkMaxItems,
		},
		Suggest: SuggestSettings{
			MinConfidence: 0,
			Weights:       DefaultScoringWeights(),
		},
		List: ListSettings{
			PageSize: DefaultPageSize,
		},
	}
}

// Validate checks the settings for internal consistency.
func (s EngineSettings) Validate() error {
	if s.Bulk.MaxItems <= 0 {
		return NewValidationError("bulk.max_items must be positive")
	}
	if s.Bulk.WarnThreshold <= 0 || s.Bulk.WarnThreshold > s.Bulk.MaxItems {
		return NewValidationError("bulk.warn_threshold must be between 1 and bulk.max_items")
	}
	if s.Suggest.MinConfidence < 0 || s.Suggest.MinConfidence > 100 {
		return NewValidationError("suggest.min_confidence must be between 0 and 100")
	}
	if s.Suggest.Limit < 0 {
		return NewValidationError("suggest.limit must not be negative")
	}
	w := s.Suggest.Weights
	if w.Type < 0 || w.Tags < 0 || w.Name < 0 || w.Region < 0 {
		return NewValidationError("scoring weights must not be negative")
	}
	if w.Total() <= 0 {
		return NewValidationError("at least one scoring weight must be positive")
	}
	if s.List.PageSize <= 0 || s.List.PageSize > MaxPageSize {
		return NewValidationError("list.page_size must be between 1 and %d", MaxPageSize)
	}
	return nil
}
