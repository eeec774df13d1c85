package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every resource and mapping group as JSON",
	Long: `Writes a read-only snapshot of all resources, mapping groups and category
counts as JSON, to stdout or to the file given with --output.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return notConfigured("inventory")
	}

	export, err := inventoryService.Export(cmd.Context())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if exportOutput == "" {
		return printJSON(cmd, export)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(exportOutput, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	cmd.Printf("Exported %d resources and %d mappings to %s\n",
		len(export.Resources), len(export.Mappings), exportOutput)
	return nil
}
