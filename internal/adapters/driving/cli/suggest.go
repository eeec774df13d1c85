package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Propose mappings between old and new resources",
	Long: `Scores every old or uncategorized resource against every new resource
and prints the pairs above the confidence threshold, best first.
Record a pair with "shiftmap mapping confirm [source-id] [target-id]".`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

var (
	suggestPool          domain.ResourceFilter
	suggestOptions       domain.SuggestOptions
	suggestMinConfidence int
	suggestJSON          bool
)

func init() {
	flags := suggestCmd.Flags()
	flags.StringVarP(&suggestPool.Search, "search", "s", "", "restrict the candidate pool by free text")
	flags.StringVar(&suggestPool.Type, "type", "", "restrict the candidate pool to one resource type")
	flags.StringVar(&suggestPool.Region, "region", "", "restrict the candidate pool to one region")
	flags.IntVar(&suggestMinConfidence, "min-confidence", 0, "only show pairs scoring above this (default from settings)")
	flags.IntVarP(&suggestOptions.Limit, "limit", "n", 0, "maximum number of suggestions (0 = settings default)")
	flags.BoolVar(&suggestOptions.IncludeMapped, "include-mapped", false, "include pairs already recorded in a mapping")
	flags.BoolVar(&suggestJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	if suggestionService == nil {
		return notConfigured("suggestion")
	}

	opts := suggestOptions
	if cmd.Flags().Changed("min-confidence") {
		opts.MinConfidence = &suggestMinConfidence
	}

	suggestions, err := suggestionService.Suggest(cmd.Context(), suggestPool, opts)
	if err != nil {
		return fmt.Errorf("failed to compute suggestions: %w", err)
	}

	if suggestJSON {
		if suggestions == nil {
			suggestions = []domain.Suggestion{}
		}
		return printJSON(cmd, suggestions)
	}

	if len(suggestions) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}

	for i, s := range suggestions {
		cmd.Printf("  [%d] %s -> %s (%d)\n", i+1, s.SourceID, s.TargetID, s.Confidence)
		if len(s.Reasons) > 0 {
			cmd.Printf("      %s\n", strings.Join(s.Reasons, "; "))
		}
	}
	return nil
}
