package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/connectors/filesystem"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

func TestBuildCollector_None(t *testing.T) {
	assert.Nil(t, buildCollector(context.Background(), domain.CollectorSettings{}))
}

func TestBuildCollector_File(t *testing.T) {
	c := buildCollector(context.Background(), domain.CollectorSettings{InventoryFile: "inventory.toml"})

	fc, ok := c.(*filesystem.Collector)
	require.True(t, ok)
	assert.Equal(t, "inventory.toml", fc.Path())
}

func TestBuildServices(t *testing.T) {
	dir := t.TempDir()
	inventory := filepath.Join(dir, "inventory.toml")
	require.NoError(t, os.WriteFile(inventory, []byte(`
[[resources]]
id = "i-1"
type = "ec2-instance"
region = "eu-west-1"
`), 0o600))
	configDir := filepath.Join(dir, "config")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"),
		[]byte("[collector]\ninventory_file = \""+filepath.ToSlash(inventory)+"\"\n"), 0o600))

	svc, cleanup, err := buildServices(filepath.Join(dir, "data"), configDir)
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	report, err := svc.Inventory.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	_, err = svc.Category.Categorize(ctx, "i-1", domain.CategoryOld, "")
	require.NoError(t, err)

	snapshot, err := svc.Category.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Old)
	assert.FileExists(t, filepath.Join(dir, "data", "shiftmap.db"))
}
