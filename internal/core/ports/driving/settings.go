package driving

import "github.com/custodia-labs/shiftmap/internal/core/domain"

// SettingsService manages engine settings.
type SettingsService interface {
	// Get retrieves current settings, filling unset keys with defaults.
	Get() (*domain.EngineSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.EngineSettings) error

	// Set updates a single setting by its dotted key.
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.EngineSettings
}
