package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBulkWarnThreshold   = "bulk.warn_threshold"
	keyBulkMaxItems        = "bulk.max_items"
	keySuggestMinConf      = "suggest.min_confidence"
	keySuggestLimit        = "suggest.limit"
	keySuggestWeightType   = "suggest.weight_type"
	keySuggestWeightTags   = "suggest.weight_tags"
	keySuggestWeightName   = "suggest.weight_name"
	keySuggestWeightRegion = "suggest.weight_region"
	keyListPageSize        = "list.page_size"
	keyInventoryFile       = "collector.inventory_file"
	keyAWSRegions          = "collector.aws_regions"
	keyGCPProject          = "collector.gcp_project"
)

// settingKind is the storage type of a config key.
type settingKind int

const (
	kindInt settingKind = iota
	kindFloat
	kindString
	kindList
)

var settingKinds = map[string]settingKind{
	keyBulkWarnThreshold:   kindInt,
	keyBulkMaxItems:        kindInt,
	keySuggestMinConf:      kindInt,
	keySuggestLimit:        kindInt,
	keySuggestWeightType:   kindFloat,
	keySuggestWeightTags:   kindFloat,
	keySuggestWeightName:   kindFloat,
	keySuggestWeightRegion: kindFloat,
	keyListPageSize:        kindInt,
	keyInventoryFile:       kindString,
	keyAWSRegions:          kindList,
	keyGCPProject:          kindString,
}

// SettingsService manages engine settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current engine settings. Unset keys take their defaults.
func (s *SettingsService) Get() (*domain.EngineSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultEngineSettings()

	settings := &domain.EngineSettings{
		Bulk: domain.BulkSettings{
			WarnThreshold: s.getInt(keyBulkWarnThreshold, defaults.Bulk.WarnThreshold),
			MaxItems:      s.getInt(keyBulkMaxItems, defaults.Bulk.MaxItems),
		},
		Suggest: domain.SuggestSettings{
			MinConfidence: s.getInt(keySuggestMinConf, defaults.Suggest.MinConfidence),
			Limit:         s.getInt(keySuggestLimit, defaults.Suggest.Limit),
			Weights: domain.ScoringWeights{
				Type:   s.getFloat(keySuggestWeightType, defaults.Suggest.Weights.Type),
				Tags:   s.getFloat(keySuggestWeightTags, defaults.Suggest.Weights.Tags),
				Name:   s.getFloat(keySuggestWeightName, defaults.Suggest.Weights.Name),
				Region: s.getFloat(keySuggestWeightRegion, defaults.Suggest.Weights.Region),
			},
		},
		List: domain.ListSettings{
			PageSize: s.getInt(keyListPageSize, defaults.List.PageSize),
		},
		Collectors: domain.CollectorSettings{
			InventoryFile: s.getString(keyInventoryFile),
			AWSRegions:    s.getStringSlice(keyAWSRegions),
			GCPProject:    s.getString(keyGCPProject),
		},
	}

	return settings, nil
}

// Save validates and persists engine settings.
func (s *SettingsService) Save(settings *domain.EngineSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyBulkWarnThreshold:   settings.Bulk.WarnThreshold,
		keyBulkMaxItems:        settings.Bulk.MaxItems,
		keySuggestMinConf:      settings.Suggest.MinConfidence,
		keySuggestLimit:        settings.Suggest.Limit,
		keySuggestWeightType:   settings.Suggest.Weights.Type,
		keySuggestWeightTags:   settings.Suggest.Weights.Tags,
		keySuggestWeightName:   settings.Suggest.Weights.Name,
		keySuggestWeightRegion: settings.Suggest.Weights.Region,
		keyListPageSize:        settings.List.PageSize,
		keyInventoryFile:       settings.Collectors.InventoryFile,
		keyAWSRegions:          append([]string{}, settings.Collectors.AWSRegions...),
		keyGCPProject:          settings.Collectors.GCPProject,
	}
	if err := s.configStore.SetMany(values); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Set updates a single setting from its string form. The resulting settings
// are validated as a whole before anything is written.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return domain.NewValidationError("unknown setting %q", key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return domain.NewValidationError("%s must be an integer, got %q", key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return domain.NewValidationError("%s must be a number, got %q", key, value)
		}
		parsed = f
	case kindList:
		parsed = splitList(value)
	default:
		parsed = strings.TrimSpace(value)
	}

	apply(settings, key, parsed)
	return s.Save(settings)
}

// Keys lists the settable keys in a stable order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyBulkWarnThreshold,
		keyBulkMaxItems,
		keySuggestMinConf,
		keySuggestLimit,
		keySuggestWeightType,
		keySuggestWeightTags,
		keySuggestWeightName,
		keySuggestWeightRegion,
		keyListPageSize,
		keyInventoryFile,
		keyAWSRegions,
		keyGCPProject,
	}
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

// apply writes a parsed value into the matching settings field.
func apply(settings *domain.EngineSettings, key string, value any) {
	switch key {
	case keyBulkWarnThreshold:
		settings.Bulk.WarnThreshold = value.(int)
	case keyBulkMaxItems:
		settings.Bulk.MaxItems = value.(int)
	case keySuggestMinConf:
		settings.Suggest.MinConfidence = value.(int)
	case keySuggestLimit:
		settings.Suggest.Limit = value.(int)
	case keySuggestWeightType:
		settings.Suggest.Weights.Type = value.(float64)
	case keySuggestWeightTags:
		settings.Suggest.Weights.Tags = value.(float64)
	case keySuggestWeightName:
		settings.Suggest.Weights.Name = value.(float64)
	case keySuggestWeightRegion:
		settings.Suggest.Weights.Region = value.(float64)
	case keyListPageSize:
		settings.List.PageSize = value.(int)
	case keyInventoryFile:
		settings.Collectors.InventoryFile = value.(string)
	case keyAWSRegions:
		settings.Collectors.AWSRegions = value.([]string)
	case keyGCPProject:
		settings.Collectors.GCPProject = value.(string)
	}
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(value string) []string {
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Stored values come back as whatever the backing store decoded: TOML
// yields int64 and []any where the memory store keeps int and []string.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultVal
}

func (s *SettingsService) getString(key string) string {
	val, _ := s.configStore.Get(key)
	str, _ := val.(string)
	return str
}

func (s *SettingsService) getStringSlice(key string) []string {
	val, _ := s.configStore.Get(key)
	switch v := val.(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
