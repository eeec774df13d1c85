package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/shiftmap/internal/connectors/filesystem"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/services"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

func TestMain(m *testing.M) {
	styled = false
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		panic(err)
	}
	confirmIn = devNull

	code := m.Run()
	_ = devNull.Close()
	os.Exit(code)
}

// testEnv holds the stores behind the services installed for a test.
type testEnv struct {
	resources *memory.ResourceStore
	mappings  *memory.MappingStore
	inventory string
}

// setupTestServices installs memory-backed services with small bulk limits.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		resources: memory.NewResourceStore(),
		mappings:  memory.NewMappingStore(),
		inventory: filepath.Join(t.TempDir(), "inventory.json"),
	}
	require.NoError(t, os.WriteFile(env.inventory, []byte(`[
		{"resourceId": "i-new", "resourceType": "ec2-instance", "region": "eu-west-1", "name": "web-1"}
	]`), 0o600))

	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.Set("bulk.warn_threshold", "2"))
	require.NoError(t, settings.Set("bulk.max_items", "5"))
	engine, err := settings.Get()
	require.NoError(t, err)

	classifier := services.NewCategoryClassifier(env.resources)
	graph := services.NewMappingGraph(env.mappings, env.resources, engine.List)
	SetServices(&Services{
		Category:   classifier,
		Mapping:    graph,
		Suggestion: services.NewSuggestionService(env.resources, env.mappings, engine.Suggest),
		Bulk:       services.NewBulkCoordinator(classifier, graph, engine.Bulk),
		Inventory:  services.NewInventoryService(env.resources, env.mappings, filesystem.New(env.inventory), engine.List),
		Settings:   settings,
	})
	t.Cleanup(func() { SetServices(nil) })
	return env
}

func (e *testEnv) addResource(t *testing.T, id string, category domain.Category) {
	t.Helper()
	require.NoError(t, e.resources.Save(context.Background(), domain.Resource{
		ID:       id,
		Type:     "ec2-instance",
		Region:   "eu-west-1",
		Name:     "web-1",
		Category: category,
	}))
}

func (e *testEnv) addMapping(t *testing.T, id string) domain.MappingGroup {
	t.Helper()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	group := domain.MappingGroup{
		ID:        id,
		SourceIDs: []string{"old-1"},
		Type:      domain.MappingTypeReplacement,
		Direction: domain.DirectionAnyToAny,
		Status:    domain.StatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.mappings.Create(context.Background(), group))
	return group
}

// run executes the root command with args and returns its combined output.
// Flags are reset first so values do not leak between tests.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}

	for _, want := range []string{
		"resource", "categories", "inventory", "suggest", "mapping", "export", "settings", "mcp", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_BuilderRunsOnce(t *testing.T) {
	SetServices(nil)
	defer SetServices(nil)

	var calls, cleanups int
	var gotData, gotConfig string
	SetBuilder(func(data, config string) (*Services, func(), error) {
		calls++
		gotData, gotConfig = data, config
		return &Services{Category: services.NewCategoryClassifier(memory.NewResourceStore())}, func() { cleanups++ }, nil
	})
	defer SetBuilder(nil)

	out, err := run(t, "--data-dir", "/tmp/data", "--config-dir", "/tmp/config", "categories")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 0")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cleanups)
	assert.Equal(t, "/tmp/data", gotData)
	assert.Equal(t, "/tmp/config", gotConfig)
	assert.Nil(t, categoryService, "services are released after the command")
}

func TestRootCmd_BuilderError(t *testing.T) {
	SetServices(nil)
	SetBuilder(func(string, string) (*Services, func(), error) {
		return nil, nil, errors.New("database locked")
	})
	defer SetBuilder(nil)

	_, err := run(t, "categories")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestRootCmd_VersionSkipsBuilder(t *testing.T) {
	SetServices(nil)
	SetBuilder(func(string, string) (*Services, func(), error) {
		t.Fatal("builder must not run for version")
		return nil, nil, nil
	})
	defer SetBuilder(nil)

	_, err := run(t, "version")

	assert.NoError(t, err)
}

func TestRootCmd_NotConfigured(t *testing.T) {
	SetServices(nil)

	for _, args := range [][]string{
		{"resource", "list"},
		{"categories"},
		{"mapping", "list"},
		{"suggest"},
		{"export"},
		{"settings", "show"},
	} {
		_, err := run(t, args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "not configured")
	}
}

func TestRootCmd_LogLevel(t *testing.T) {
	defer logger.SetLevel(logger.LevelWarn)

	_, err := run(t, "--log-level", "trace", "version")
	assert.ErrorContains(t, err, "unknown log level")

	_, err = run(t, "--log-level", "info", "version")
	require.NoError(t, err)
	assert.True(t, logger.Enabled(logger.LevelInfo))
	assert.False(t, logger.IsVerbose())

	_, err = run(t, "--log-level", "error", "-v", "version")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}
