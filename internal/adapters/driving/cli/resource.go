package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Inspect and classify resources",
	Long:  `List, view and categorise the cloud resources known to shiftmap.`,
}

var resourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	Long: `Lists resources matching all given filters, one page at a time.
Pass the printed cursor to --cursor to fetch the next page.`,
	Args: cobra.NoArgs,
	RunE: runResourceList,
}

var resourceGetCmd = &cobra.Command{
	Use:   "get [resource-id]",
	Short: "Show a resource",
	Args:  cobra.ExactArgs(1),
	RunE:  runResourceGet,
}

var resourceCategorizeCmd = &cobra.Command{
	Use:   "categorize [resource-id] [old|new|uncategorized]",
	Short: "Set a resource's category",
	Args:  cobra.ExactArgs(2),
	RunE:  runResourceCategorize,
}

var resourceBulkCategorizeCmd = &cobra.Command{
	Use:   "bulk-categorize [old|new|uncategorized] [resource-id...]",
	Short: "Set the same category on several resources",
	Long: `Applies one category to every listed resource. Each resource succeeds or
fails on its own; failures are listed after the run.

Large selections ask for confirmation. Use --yes to confirm up front.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runResourceBulkCategorize,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show how many resources are in each category",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var (
	resourceFilter   domain.ResourceFilter
	resourceSort     string
	resourceOrder    string
	resourceCursor   string
	resourcePageSize int
	resourceJSON     bool
	categorizeNotes  string
	categorizeYes    bool
)

func init() {
	flags := resourceListCmd.Flags()
	flags.StringVarP(&resourceFilter.Search, "search", "s", "", "free-text search over id, name, type, region and tags")
	flags.StringVar(&resourceFilter.Type, "type", "", "filter by resource type")
	flags.StringVar(&resourceFilter.Region, "region", "", "filter by region")
	flags.StringVar(&resourceFilter.Category, "category", "", "filter by category")
	flags.StringVar(&resourceSort, "sort", "", "sort by id, name, type, region, category or last_seen")
	flags.StringVar(&resourceOrder, "order", "", "asc or desc")
	flags.StringVar(&resourceCursor, "cursor", "", "cursor printed by the previous page")
	flags.IntVarP(&resourcePageSize, "page-size", "n", 0, "items per page (0 = settings default)")
	flags.BoolVar(&resourceJSON, "json", false, "output as JSON")

	resourceGetCmd.Flags().BoolVar(&resourceJSON, "json", false, "output as JSON")
	resourceCategorizeCmd.Flags().StringVar(&categorizeNotes, "notes", "", "note recorded with the change")
	resourceBulkCategorizeCmd.Flags().StringVar(&categorizeNotes, "notes", "", "note recorded with each change")
	resourceBulkCategorizeCmd.Flags().BoolVarP(&categorizeYes, "yes", "y", false, "confirm large selections")

	resourceCmd.AddCommand(resourceListCmd)
	resourceCmd.AddCommand(resourceGetCmd)
	resourceCmd.AddCommand(resourceCategorizeCmd)
	resourceCmd.AddCommand(resourceBulkCategorizeCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(categoriesCmd)
}

func runResourceList(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return notConfigured("inventory")
	}

	sortBy := domain.Sort{Field: domain.SortField(resourceSort), Order: domain.SortOrder(resourceOrder)}
	page, err := inventoryService.List(cmd.Context(), resourceFilter, sortBy, resourceCursor, resourcePageSize)
	if err != nil {
		return fmt.Errorf("failed to list resources: %w", err)
	}

	if resourceJSON {
		return printJSON(cmd, page)
	}

	if len(page.Items) == 0 {
		cmd.Println("No resources found.")
		return nil
	}

	for i := range page.Items {
		r := &page.Items[i]
		cmd.Printf("  %-24s %-14s %-14s %s", r.ID, r.Type, r.Region, categoryBadge(r.Category))
		if r.Name != "" {
			cmd.Printf("  %s", r.Name)
		}
		cmd.Println()
	}

	cmd.Printf("\nShowing %d of %d resources\n", len(page.Items), page.Total)
	if page.NextCursor != "" {
		cmd.Printf("Next page: --cursor %s\n", page.NextCursor)
	}
	return nil
}

func runResourceGet(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return notConfigured("inventory")
	}

	r, err := inventoryService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get resource: %w", err)
	}

	if resourceJSON {
		return printJSON(cmd, r)
	}

	printResource(cmd, r)
	return nil
}

func printResource(cmd *cobra.Command, r *domain.Resource) {
	cmd.Printf("Resource: %s\n\n", r.ID)
	cmd.Printf("  Type:        %s\n", r.Type)
	cmd.Printf("  Region:      %s\n", r.Region)
	if r.Name != "" {
		cmd.Printf("  Name:        %s\n", r.Name)
	}
	cmd.Printf("  Category:    %s\n", categoryBadge(r.Category))
	cmd.Printf("  Categorized: %s\n", formatTime(r.CategorizedAt))
	if r.CategoryNotes != "" {
		cmd.Printf("  Notes:       %s\n", r.CategoryNotes)
	}
	cmd.Printf("  Last seen:   %s\n", formatTime(r.LastSeenAt))

	if len(r.Tags) > 0 {
		keys := make([]string, 0, len(r.Tags))
		for k := range r.Tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Println("\n  Tags:")
		for _, k := range keys {
			cmd.Printf("    %s: %s\n", k, r.Tags[k])
		}
	}
}

func runResourceCategorize(cmd *cobra.Command, args []string) error {
	if categoryService == nil {
		return notConfigured("category")
	}

	category, err := domain.ParseCategory(args[1])
	if err != nil {
		return err
	}

	r, err := categoryService.Categorize(cmd.Context(), args[0], category, categorizeNotes)
	if err != nil {
		return fmt.Errorf("failed to categorize resource: %w", err)
	}

	cmd.Printf("Resource %s is now %s\n", r.ID, categoryBadge(r.Category))
	return nil
}

func runResourceBulkCategorize(cmd *cobra.Command, args []string) error {
	if bulkService == nil {
		return notConfigured("bulk")
	}

	category, err := domain.ParseCategory(args[0])
	if err != nil {
		return err
	}
	ids := splitIDs(args[1:])

	var result *domain.BulkResult[domain.Resource]
	err = withConfirmation(cmd, categorizeYes, len(ids), func(confirmed bool) error {
		var opErr error
		result, opErr = bulkService.BulkCategorize(cmd.Context(), ids, category, domain.BulkOptions{
			Notes:     categorizeNotes,
			Confirmed: confirmed,
		})
		return opErr
	})
	if err != nil {
		return fmt.Errorf("bulk categorize failed: %w", err)
	}

	cmd.Printf("Categorized %d of %d resources as %s\n", len(result.Succeeded), len(ids), categoryBadge(category))
	printFailures(cmd, result.Failed)
	return nil
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if categoryService == nil {
		return notConfigured("category")
	}

	snapshot, err := categoryService.Categories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}

	cmd.Println("Categories")
	cmd.Println("==========")
	cmd.Printf("  %-14s %d\n", categoryBadge(domain.CategoryOld), snapshot.Old)
	cmd.Printf("  %-14s %d\n", categoryBadge(domain.CategoryNew), snapshot.New)
	cmd.Printf("  %-14s %d\n", categoryBadge(domain.CategoryUncategorized), snapshot.Uncategorized)
	cmd.Printf("\n  Total: %d (%.0f%% classified)\n", snapshot.Total(), snapshot.Progress())
	return nil
}
