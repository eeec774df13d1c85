package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

func TestSettingsService_GetDefaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, svc.GetDefaults().Bulk, settings.Bulk)
	assert.Equal(t, svc.GetDefaults().Suggest.Weights, settings.Suggest.Weights)
	assert.Equal(t, domain.DefaultPageSize, settings.List.PageSize)
}

func TestSettingsService_SetAndGet(t *testing.T) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.Set("bulk.warn_threshold", "10"))
	require.NoError(t, svc.Set("suggest.weight_region", "2.5"))
	require.NoError(t, svc.Set("collector.aws_regions", "us-east-1, eu-west-1,"))
	require.NoError(t, svc.Set("collector.gcp_project", " acme-prod "))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 10, settings.Bulk.WarnThreshold)
	assert.Equal(t, 2.5, settings.Suggest.Weights.Region)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, settings.Collectors.AWSRegions)
	assert.Equal(t, "acme-prod", settings.Collectors.GCPProject)

	// Zero is a stored value, not a missing one.
	require.NoError(t, svc.Set("suggest.weight_tags", "0"))
	settings, err = svc.Get()
	require.NoError(t, err)
	assert.Zero(t, settings.Suggest.Weights.Tags)
}

func TestSettingsService_GetDecodedTypes(t *testing.T) {
	// Values as a TOML decoder hands them back.
	store := memory.NewConfigStore(map[string]any{
		"bulk.max_items":        int64(40),
		"suggest.weight_type":   int64(3),
		"list.page_size":        float64(30),
		"collector.aws_regions": []any{"us-east-1", 7, "eu-west-1"},
		"collector.gcp_project": 12,
		"suggest.limit":         "many",
	})
	svc := NewSettingsService(store)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 40, settings.Bulk.MaxItems)
	assert.Equal(t, 3.0, settings.Suggest.Weights.Type)
	assert.Equal(t, 30, settings.List.PageSize)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, settings.Collectors.AWSRegions)
	assert.Empty(t, settings.Collectors.GCPProject)
	assert.Equal(t, svc.GetDefaults().Suggest.Limit, settings.Suggest.Limit)
}

func TestSettingsService_SetRejectsInvalid(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	tests := []struct {
		key, value string
	}{
		{"bulk.nope", "1"},
		{"bulk.max_items", "many"},
		{"suggest.weight_type", "heavy"},
		{"bulk.warn_threshold", "80"},
		{"list.page_size", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			assert.ErrorIs(t, svc.Set(tt.key, tt.value), domain.ErrInvalidInput)
		})
	}

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultBulkWarnThreshold, settings.Bulk.WarnThreshold)
}

func TestSettingsService_KeysAreSettable(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())
	for _, key := range svc.Keys() {
		_, ok := settingKinds[key]
		assert.True(t, ok, key)
	}
	assert.Len(t, svc.Keys(), len(settingKinds))
}

func TestSettingsService_NotConfigured(t *testing.T) {
	svc := NewSettingsService(nil)

	_, err := svc.Get()
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.Save(&domain.EngineSettings{}), domain.ErrNotImplemented)
}
