package driven

// ConfigStore persists engine settings as dotted keys such as
// "bulk.max_items". Values keep the type they were stored or decoded with;
// the settings service converts them.
type ConfigStore interface {
	// Get returns the value for key and whether it is set.
	Get(key string) (any, bool)

	// Set stores one value and persists it.
	Set(key string, value any) error

	// SetMany stores several values and persists them in one write.
	// Either all values are stored or none are.
	SetMany(values map[string]any) error

	// Delete removes key. Deleting an unset key is not an error.
	Delete(key string) error

	// Load re-reads the persisted configuration.
	Load() error

	// Path returns where the configuration is persisted.
	Path() string
}
