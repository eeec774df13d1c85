package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage engine settings",
	Long: `View and change bulk limits, suggestion scoring, page size and
collector configuration.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Changes one setting. Lists such as collector.aws_regions take
comma-separated values. Run "shiftmap settings keys" for the valid keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Bulk]")
	cmd.Printf("  Warn threshold: %d\n", settings.Bulk.WarnThreshold)
	cmd.Printf("  Max items: %d\n", settings.Bulk.MaxItems)
	cmd.Println()

	cmd.Println("[Suggest]")
	cmd.Printf("  Min confidence: %d\n", settings.Suggest.MinConfidence)
	cmd.Printf("  Limit: %s\n", orUnset(settings.Suggest.Limit, "unlimited"))
	w := settings.Suggest.Weights
	cmd.Printf("  Weights: type=%g tags=%g name=%g region=%g\n", w.Type, w.Tags, w.Name, w.Region)
	cmd.Println()

	cmd.Println("[List]")
	cmd.Printf("  Page size: %d\n", settings.List.PageSize)
	cmd.Println()

	cmd.Println("[Collectors]")
	cmd.Printf("  Inventory file: %s\n", orNotSet(settings.Collectors.InventoryFile))
	cmd.Printf("  AWS regions: %s\n", orNotSet(strings.Join(settings.Collectors.AWSRegions, ", ")))
	cmd.Printf("  GCP project: %s\n", orNotSet(settings.Collectors.GCPProject))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func orUnset(n int, label string) string {
	if n <= 0 {
		return label
	}
	return fmt.Sprintf("%d", n)
}
