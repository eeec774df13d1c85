package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

func TestResourceCmd_HasSubcommands(t *testing.T) {
	commands := resourceCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "categorize")
	assert.Contains(t, commandNames, "bulk-categorize")
}

func TestResourceListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := run(t, "resource", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No resources found.")
}

func TestResourceListCmd_FiltersAndPages(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryOld)
	env.addResource(t, "b", domain.CategoryOld)
	env.addResource(t, "c", domain.CategoryNew)

	out, err := run(t, "resource", "list", "--category", "old", "--page-size", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Showing 1 of 2 resources")
	assert.Contains(t, out, "Next page: --cursor")
	assert.NotContains(t, out, "  c ")
}

func TestResourceListCmd_JSON(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryOld)

	out, err := run(t, "resource", "list", "--json")
	require.NoError(t, err)

	var page domain.Page[domain.Resource]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "a", page.Items[0].ID)
}

func TestResourceGetCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryOld)

	out, err := run(t, "resource", "get", "a")

	require.NoError(t, err)
	assert.Contains(t, out, "Resource: a")
	assert.Contains(t, out, "Category:    old")
}

func TestResourceGetCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "resource", "get")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestResourceGetCmd_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "resource", "get", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResourceCategorizeCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryUncategorized)

	out, err := run(t, "resource", "categorize", "a", "new", "--notes", "rebuilt")

	require.NoError(t, err)
	assert.Contains(t, out, "Resource a is now new")

	r, err := env.resources.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryNew, r.Category)
	assert.Equal(t, "rebuilt", r.CategoryNotes)
}

func TestResourceCategorizeCmd_InvalidCategory(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryUncategorized)

	_, err := run(t, "resource", "categorize", "a", "legacy")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResourceBulkCategorizeCmd_PartialFailure(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryUncategorized)

	out, err := run(t, "resource", "bulk-categorize", "old", "a", "missing")

	require.NoError(t, err)
	assert.Contains(t, out, "Categorized 1 of 2 resources as old")
	assert.Contains(t, out, "Failed (1):")
	assert.Contains(t, out, "missing")
}

func TestResourceBulkCategorizeCmd_NeedsConfirmation(t *testing.T) {
	env := setupTestServices(t)
	for _, id := range []string{"a", "b", "c"} {
		env.addResource(t, id, domain.CategoryUncategorized)
	}

	_, err := run(t, "resource", "bulk-categorize", "old", "a", "b", "c")

	require.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Contains(t, err.Error(), "--yes")

	r, err := env.resources.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryUncategorized, r.Category, "nothing is applied before confirmation")
}

func TestResourceBulkCategorizeCmd_Confirmed(t *testing.T) {
	env := setupTestServices(t)
	for _, id := range []string{"a", "b", "c"} {
		env.addResource(t, id, domain.CategoryUncategorized)
	}

	out, err := run(t, "resource", "bulk-categorize", "old", "a,b", "c", "--yes")

	require.NoError(t, err)
	assert.Contains(t, out, "Categorized 3 of 3 resources")
}

func TestResourceBulkCategorizeCmd_OverLimit(t *testing.T) {
	setupTestServices(t)

	args := []string{"resource", "bulk-categorize", "old", "--yes"}
	for i := range 6 {
		args = append(args, fmt.Sprintf("r-%d", i))
	}
	_, err := run(t, args...)

	assert.ErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestCategoriesCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryOld)
	env.addResource(t, "b", domain.CategoryNew)
	env.addResource(t, "c", domain.CategoryUncategorized)
	env.addResource(t, "d", domain.CategoryUncategorized)

	out, err := run(t, "categories")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 4 (50% classified)")
}

func TestInventorySyncCmd(t *testing.T) {
	env := setupTestServices(t)

	out, err := run(t, "inventory", "sync")

	require.NoError(t, err)
	assert.Contains(t, out, "Synchronised 1 resources from file (1 added, 0 updated)")

	r, err := env.resources.Get(context.Background(), "i-new")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryUncategorized, r.Category)
}

func TestInventoryRefreshCmd_KeepsCategory(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.resources.Save(context.Background(), domain.Resource{
		ID: "i-new", Type: "ec2-instance", Region: "us-east-1", Name: "stale", Category: domain.CategoryOld,
	}))

	out, err := run(t, "inventory", "refresh", "i-new")

	require.NoError(t, err)
	assert.Contains(t, out, "Resource: i-new")
	assert.Contains(t, out, "eu-west-1")

	r, err := env.resources.Get(context.Background(), "i-new")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOld, r.Category)
	assert.Equal(t, "web-1", r.Name)
}

func TestInventoryRefreshCmd_Unknown(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "inventory", "refresh", "i-missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInventoryWatchCmd_RequiresFile(t *testing.T) {
	setupTestServices(t)

	_, err := run(t, "inventory", "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no inventory file")
}

func TestExportCmd_Stdout(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryOld)
	env.addMapping(t, "m-1")

	out, err := run(t, "export")
	require.NoError(t, err)

	var export domain.Export
	require.NoError(t, json.Unmarshal([]byte(out), &export))
	assert.Len(t, export.Resources, 1)
	assert.Len(t, export.Mappings, 1)
	assert.Equal(t, 1, export.Snapshot.Old)
}

func TestExportCmd_File(t *testing.T) {
	env := setupTestServices(t)
	env.addResource(t, "a", domain.CategoryOld)
	path := filepath.Join(t.TempDir(), "export.json")

	out, err := run(t, "export", "--output", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 resources and 0 mappings")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"resourceId": "a"`)
}
