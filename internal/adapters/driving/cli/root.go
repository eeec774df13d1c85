// Package cli provides the shiftmap command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// skipServices marks commands that run without the engine services.
const skipServices = "skip-services"

// Services holds the driving ports the commands operate on.
type Services struct {
	Category   driving.CategoryService
	Mapping    driving.MappingService
	Suggestion driving.SuggestionService
	Bulk       driving.BulkService
	Inventory  driving.InventoryService
	Settings   driving.SettingsService
}

// Builder constructs the services for the given data and config directories.
// The returned cleanup function is called once the command finishes.
type Builder func(dataDir, configDir string) (*Services, func(), error)

var (
	categoryService   driving.CategoryService
	mappingService    driving.MappingService
	suggestionService driving.SuggestionService
	bulkService       driving.BulkService
	inventoryService  driving.InventoryService
	settingsService   driving.SettingsService

	servicesBuilder Builder
	servicesCleanup func()
)

// Global flags.
var (
	verbose   bool
	logLevel  string
	dataDir   string
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "shiftmap",
	Short: "Map cloud resources between old and new infrastructure",
	Long: `shiftmap records which cloud resources belong to the old and the new
infrastructure, proposes mappings between them and tracks each mapping
through the migration lifecycle.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "lowest log level to print: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "database directory (default ~/.shiftmap/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.shiftmap)")
}

// SetServices installs the services used by all commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	categoryService = s.Category
	mappingService = s.Mapping
	suggestionService = s.Suggestion
	bulkService = s.Bulk
	inventoryService = s.Inventory
	settingsService = s.Settings
}

// SetBuilder registers the function that builds services lazily, after
// the global flags have been parsed.
func SetBuilder(b Builder) {
	servicesBuilder = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupServices(cmd *cobra.Command, _ []string) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = logger.LevelDebug
	}
	logger.SetLevel(level)

	if cmd.Annotations[skipServices] != "" || servicesBuilder == nil || categoryService != nil {
		return nil
	}

	logger.Section("Startup")
	services, cleanup, err := servicesBuilder(dataDir, configDir)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(services)
	servicesCleanup = cleanup
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if servicesCleanup != nil {
		servicesCleanup()
		servicesCleanup = nil
		SetServices(nil)
	}
	return nil
}

// notConfigured reports a missing service.
func notConfigured(name string) error {
	return errors.New(name + " service not configured")
}
