package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

func setupMappingEnv(t *testing.T) *testEnv {
	t.Helper()
	env := setupTestServices(t)
	env.addResource(t, "old-1", domain.CategoryOld)
	env.addResource(t, "new-1", domain.CategoryNew)
	return env
}

func TestMappingCmd_HasSubcommands(t *testing.T) {
	commandNames := make([]string, 0)
	for _, cmd := range mappingCmd.Commands() {
		commandNames = append(commandNames, cmd.Name())
	}

	for _, want := range []string{
		"create", "get", "update", "add-targets", "remove-targets", "delete",
		"status", "list", "bulk-create", "bulk-delete", "confirm",
	} {
		assert.Contains(t, commandNames, want)
	}
}

func TestMappingCreateCmd(t *testing.T) {
	env := setupMappingEnv(t)

	out, err := run(t, "mapping", "create",
		"--source", "old-1", "--target", "new-1",
		"--type", "replacement", "--direction", "old_to_new", "--notes", "web tier")

	require.NoError(t, err)
	assert.Contains(t, out, "Created mapping: ")

	groups, err := env.mappings.List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"old-1"}, groups[0].SourceIDs)
	assert.Equal(t, []string{"new-1"}, groups[0].TargetIDs)
	assert.Equal(t, domain.StatusNotStarted, groups[0].Status)
}

func TestMappingCreateCmd_RequiresFlags(t *testing.T) {
	setupMappingEnv(t)

	_, err := run(t, "mapping", "create", "--source", "old-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")
}

func TestMappingCreateCmd_DirectionViolation(t *testing.T) {
	env := setupMappingEnv(t)

	_, err := run(t, "mapping", "create",
		"--source", "new-1", "--target", "old-1",
		"--type", "replacement", "--direction", "old_to_new")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	groups, err := env.mappings.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestMappingGetCmd(t *testing.T) {
	env := setupMappingEnv(t)
	env.addMapping(t, "m-1")

	out, err := run(t, "mapping", "get", "m-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Mapping: m-1")
	assert.Contains(t, out, "Targets:    (none)")
	assert.Contains(t, out, "--expected 2026-04-01T09:00:00Z")
}

func TestMappingGetCmd_JSON(t *testing.T) {
	env := setupMappingEnv(t)
	env.addMapping(t, "m-1")

	out, err := run(t, "mapping", "get", "m-1", "--json")
	require.NoError(t, err)

	var group domain.MappingGroup
	require.NoError(t, json.Unmarshal([]byte(out), &group))
	assert.Equal(t, "m-1", group.ID)
}

func TestMappingStatusCmd(t *testing.T) {
	t.Run("uses current token by default", func(t *testing.T) {
		env := setupMappingEnv(t)
		env.addMapping(t, "m-1")

		out, err := run(t, "mapping", "status", "m-1", "in_progress")

		require.NoError(t, err)
		assert.Contains(t, out, "Mapping m-1 is now in_progress")
	})

	t.Run("accepts the printed token", func(t *testing.T) {
		env := setupMappingEnv(t)
		env.addMapping(t, "m-1")

		_, err := run(t, "mapping", "status", "m-1", "in_progress", "--expected", "2026-04-01T09:00:00Z")

		assert.NoError(t, err)
	})

	t.Run("stale token conflicts", func(t *testing.T) {
		env := setupMappingEnv(t)
		env.addMapping(t, "m-1")

		_, err := run(t, "mapping", "status", "m-1", "in_progress", "--expected", "2026-03-01T09:00:00Z")

		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("malformed token", func(t *testing.T) {
		env := setupMappingEnv(t)
		env.addMapping(t, "m-1")

		_, err := run(t, "mapping", "status", "m-1", "in_progress", "--expected", "yesterday")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("illegal transition", func(t *testing.T) {
		env := setupMappingEnv(t)
		env.addMapping(t, "m-1")

		_, err := run(t, "mapping", "status", "m-1", "verified")

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestMappingUpdateCmd(t *testing.T) {
	t.Run("changes notes", func(t *testing.T) {
		env := setupMappingEnv(t)
		env.addMapping(t, "m-1")

		out, err := run(t, "mapping", "update", "m-1", "--notes", "cut over in May")

		require.NoError(t, err)
		assert.Contains(t, out, "Updated mapping: m-1")
		group, err := env.mappings.Get(context.Background(), "m-1")
		require.NoError(t, err)
		assert.Equal(t, "cut over in May", group.Notes)
	})

	t.Run("nothing to change", func(t *testing.T) {
		env := setupMappingEnv(t)
		env.addMapping(t, "m-1")

		_, err := run(t, "mapping", "update", "m-1")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestMappingTargetsCmds(t *testing.T) {
	env := setupMappingEnv(t)
	env.addMapping(t, "m-1")

	out, err := run(t, "mapping", "add-targets", "m-1", "new-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Mapping m-1 now has 1 targets")

	out, err = run(t, "mapping", "remove-targets", "m-1", "new-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Mapping m-1 now has 0 targets")
}

func TestMappingDeleteCmd(t *testing.T) {
	env := setupMappingEnv(t)
	env.addMapping(t, "m-1")

	out, err := run(t, "mapping", "delete", "m-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted mapping: m-1")
	_, err = env.mappings.Get(context.Background(), "m-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMappingListCmd(t *testing.T) {
	env := setupMappingEnv(t)
	env.addMapping(t, "m-1")
	env.addMapping(t, "m-2")

	_, err := run(t, "mapping", "status", "m-2", "in_progress")
	require.NoError(t, err)

	out, err := run(t, "mapping", "list", "--status", "in_progress")

	require.NoError(t, err)
	assert.Contains(t, out, "m-2")
	assert.NotContains(t, out, "m-1")
	assert.Contains(t, out, "Showing 1 of 1 mappings")
}

func TestMappingBulkCreateCmd(t *testing.T) {
	env := setupMappingEnv(t)
	path := filepath.Join(t.TempDir(), "mappings.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"sourceResources": ["old-1"], "targetResources": ["new-1"], "mappingType": "replacement", "mappingDirection": "old_to_new"},
		{"sourceResources": ["ghost"], "targetResources": [], "mappingType": "removal", "mappingDirection": "any_to_any"}
	]`), 0o600))

	out, err := run(t, "mapping", "bulk-create", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 of 2 mappings")
	assert.Contains(t, out, "Failed (1):")
	groups, err := env.mappings.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestMappingBulkCreateCmd_BadFile(t *testing.T) {
	setupMappingEnv(t)
	path := filepath.Join(t.TempDir(), "mappings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o600))

	_, err := run(t, "mapping", "bulk-create", path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMappingBulkDeleteCmd(t *testing.T) {
	env := setupMappingEnv(t)
	env.addMapping(t, "m-1")

	_, err := run(t, "mapping", "bulk-delete", "m-1", "m-404")
	require.ErrorIs(t, err, domain.ErrConfirmationRequired)

	out, err := run(t, "mapping", "bulk-delete", "m-1", "m-404", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 of 2 mappings")
	assert.Contains(t, out, "m-404")
}

func TestMappingBulkDeleteCmd_ExpectedTokens(t *testing.T) {
	env := setupMappingEnv(t)
	env.addMapping(t, "m-1")
	env.addMapping(t, "m-2")

	out, err := run(t, "mapping", "bulk-delete",
		"m-1@2026-04-01T08:00:00Z", "m-2@2026-04-01T09:00:00Z", "--yes")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 of 2 mappings")
	assert.Contains(t, out, "conflict")

	_, err = env.mappings.Get(context.Background(), "m-1")
	require.NoError(t, err)
	_, err = env.mappings.Get(context.Background(), "m-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMappingBulkDeleteCmd_BadToken(t *testing.T) {
	setupMappingEnv(t)

	_, err := run(t, "mapping", "bulk-delete", "m-1@yesterday", "--yes")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMappingConfirmCmd(t *testing.T) {
	env := setupMappingEnv(t)

	out, err := run(t, "mapping", "confirm", "old-1", "new-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Created mapping: ")
	groups, err := env.mappings.List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.NotNil(t, groups[0].Confidence)
	assert.Equal(t, domain.DirectionOldToNew, groups[0].Direction)
}

func TestMappingConfirmCmd_UnknownPair(t *testing.T) {
	setupMappingEnv(t)

	_, err := run(t, "mapping", "confirm", "new-1", "old-1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSuggestCmd(t *testing.T) {
	setupMappingEnv(t)

	out, err := run(t, "suggest")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] old-1 -> new-1")
	assert.Contains(t, out, domain.ReasonSameType)
}

func TestSuggestCmd_MinConfidence(t *testing.T) {
	setupMappingEnv(t)

	out, err := run(t, "suggest", "--min-confidence", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] old-1 -> new-1")

	_, err = run(t, "suggest", "--min-confidence", "101")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSuggestCmd_JSONEmpty(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "suggest", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
