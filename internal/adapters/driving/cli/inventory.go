package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shiftmap/internal/connectors/filesystem"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Synchronise resources from collectors",
}

var inventorySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull resources from the configured collectors",
	Long: `Pulls resources from every configured collector and stores them.
New resources start uncategorized; known resources keep their category.
Resources no longer reported by a collector are kept.`,
	Args: cobra.NoArgs,
	RunE: runInventorySync,
}

var inventoryRefreshCmd = &cobra.Command{
	Use:   "refresh ID",
	Short: "Re-fetch one resource from the collectors",
	Long: `Asks the configured collectors for a single resource and stores its
current type, region, name and tags. Its category is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runInventoryRefresh,
}

var inventoryWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-sync whenever the inventory file changes",
	Long: `Watches the inventory file (collector.inventory_file, or --file) and
re-synchronises all collectors each time it is written. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runInventoryWatch,
}

var (
	watchFile     string
	watchDebounce time.Duration
	refreshJSON   bool
)

func init() {
	inventoryWatchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "inventory file to watch")
	inventoryWatchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce, "quiet period before re-syncing")
	inventoryRefreshCmd.Flags().BoolVar(&refreshJSON, "json", false, "output as JSON")

	inventoryCmd.AddCommand(inventorySyncCmd)
	inventoryCmd.AddCommand(inventoryRefreshCmd)
	inventoryCmd.AddCommand(inventoryWatchCmd)
	rootCmd.AddCommand(inventoryCmd)
}

func runInventorySync(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return notConfigured("inventory")
	}

	cmd.Println("Synchronising inventory...")
	return syncOnce(cmd.Context(), cmd)
}

func syncOnce(ctx context.Context, cmd *cobra.Command) error {
	report, err := inventoryService.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	cmd.Printf("Synchronised %d resources from %s (%d added, %d updated)\n",
		report.Total, report.Collector, report.Added, report.Updated)
	return nil
}

func runInventoryRefresh(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return notConfigured("inventory")
	}

	r, err := inventoryService.Refresh(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if refreshJSON {
		return printJSON(cmd, r)
	}
	printResource(cmd, r)
	return nil
}

func runInventoryWatch(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return notConfigured("inventory")
	}

	path := watchFile
	if path == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		path = settings.Collectors.InventoryFile
	}
	if path == "" {
		return errors.New("no inventory file: set collector.inventory_file or pass --file")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := syncOnce(ctx, cmd); err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", path)
	return filesystem.New(path).Watch(ctx, watchDebounce, func() {
		if err := syncOnce(ctx, cmd); err != nil {
			logger.Error("%v", err)
		}
	})
}
