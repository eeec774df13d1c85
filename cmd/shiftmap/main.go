// Command shiftmap maps cloud resources between old and new infrastructure.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/shiftmap/internal/adapters/driven/config/file"
	"github.com/custodia-labs/shiftmap/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/shiftmap/internal/adapters/driving/cli"
	"github.com/custodia-labs/shiftmap/internal/connectors"
	"github.com/custodia-labs/shiftmap/internal/connectors/aws"
	"github.com/custodia-labs/shiftmap/internal/connectors/filesystem"
	"github.com/custodia-labs/shiftmap/internal/connectors/google"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/core/services"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBuilder(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the stores, collectors and services.
func buildServices(dataDir, configDir string) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		logger.Warn("Invalid settings, using defaults: %v", err)
		defaults := settingsService.GetDefaults()
		defaults.Collectors = settings.Collectors
		settings = &defaults
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	logger.Debug("Database at %s", store.Path())

	resources := store.ResourceStore()
	mappings := store.MappingStore()
	collector := buildCollector(context.Background(), settings.Collectors)

	classifier := services.NewCategoryClassifier(resources)
	graph := services.NewMappingGraph(mappings, resources, settings.List)

	svc := &cli.Services{
		Category:   classifier,
		Mapping:    graph,
		Suggestion: services.NewSuggestionService(resources, mappings, settings.Suggest),
		Bulk:       services.NewBulkCoordinator(classifier, graph, settings.Bulk),
		Inventory:  services.NewInventoryService(resources, mappings, collector, settings.List),
		Settings:   settingsService,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("closing store: %v", err)
		}
	}
	return svc, cleanup, nil
}

// buildCollector combines every configured collector. A collector that
// cannot be set up is skipped with a warning. It returns nil when none is
// configured.
func buildCollector(ctx context.Context, cfg domain.CollectorSettings) driven.Collector {
	var collectors []driven.Collector

	if cfg.InventoryFile != "" {
		collectors = append(collectors, filesystem.New(cfg.InventoryFile))
	}

	if len(cfg.AWSRegions) > 0 {
		c, err := aws.New(ctx, cfg.AWSRegions)
		if err != nil {
			logger.Warn("AWS collector disabled: %v", err)
		} else {
			collectors = append(collectors, c)
		}
	}

	if cfg.GCPProject != "" {
		c, err := google.New(ctx, cfg.GCPProject, "")
		if err != nil {
			logger.Warn("GCP collector disabled: %v", err)
		} else {
			collectors = append(collectors, c)
		}
	}

	switch len(collectors) {
	case 0:
		logger.Debug("No collectors configured")
		return nil
	case 1:
		return collectors[0]
	default:
		return connectors.NewMulti(collectors...)
	}
}
