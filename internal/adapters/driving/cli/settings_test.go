package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	commandNames := make([]string, 0)
	for _, cmd := range settingsCmd.Commands() {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "show")
	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "keys")
}

func TestSettingsShowCmd(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Warn threshold: 2")
	assert.Contains(t, out, "Max items: 5")
	assert.Contains(t, out, "Limit: unlimited")
	assert.Contains(t, out, "AWS regions: (not set)")
}

func TestSettingsSetCmd(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "settings", "set", "collector.aws_regions", "eu-west-1, us-east-1")
	require.NoError(t, err)
	assert.Contains(t, out, "collector.aws_regions = eu-west-1, us-east-1")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1", "us-east-1"}, settings.Collectors.AWSRegions)
}

func TestSettingsSetCmd_Rejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"settings", "set", "search.mode", "hybrid"}},
		{"not a number", []string{"settings", "set", "bulk.max_items", "many"}},
		{"warn above max", []string{"settings", "set", "bulk.warn_threshold", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t)

			_, err := run(t, tt.args...)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsKeysCmd(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "bulk.warn_threshold")
	assert.Contains(t, out, "collector.gcp_project")
}

func TestOrUnset(t *testing.T) {
	assert.Equal(t, "unlimited", orUnset(0, "unlimited"))
	assert.Equal(t, "7", orUnset(7, "unlimited"))
}
