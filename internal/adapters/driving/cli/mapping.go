package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Manage mapping groups",
	Long: `Create, change and track mapping groups between old and new resources.

Commands that change a group accept --expected, the updatedAt printed by
"mapping get". The change is refused if the group was modified since.
Without --expected the group's current updatedAt is used.`,
}

var mappingCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a mapping group",
	Args:  cobra.NoArgs,
	RunE:  runMappingCreate,
}

var mappingGetCmd = &cobra.Command{
	Use:   "get [mapping-id]",
	Short: "Show a mapping group",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingGet,
}

var mappingUpdateCmd = &cobra.Command{
	Use:   "update [mapping-id]",
	Short: "Change a mapping group's notes, type or direction",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingUpdate,
}

var mappingAddTargetsCmd = &cobra.Command{
	Use:   "add-targets [mapping-id] [resource-id...]",
	Short: "Add target resources to a mapping group",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMappingAddTargets,
}

var mappingRemoveTargetsCmd = &cobra.Command{
	Use:   "remove-targets [mapping-id] [resource-id...]",
	Short: "Remove target resources from a mapping group",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMappingRemoveTargets,
}

var mappingDeleteCmd = &cobra.Command{
	Use:   "delete [mapping-id]",
	Short: "Delete a mapping group",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingDelete,
}

var mappingStatusCmd = &cobra.Command{
	Use:   "status [mapping-id] [status]",
	Short: "Move a mapping group to a new migration status",
	Long: `Moves a mapping group along the migration lifecycle:

  not_started -> in_progress -> migrated -> verified
  migrated and verified can move to rollback, rollback back to not_started.
  excluded and deprecated are final and reachable from not_started,
  in_progress and migrated.`,
	Args: cobra.ExactArgs(2),
	RunE: runMappingStatus,
}

var mappingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List mapping groups",
	Args:  cobra.NoArgs,
	RunE:  runMappingList,
}

var mappingBulkCreateCmd = &cobra.Command{
	Use:   "bulk-create [file]",
	Short: "Create mapping groups from a JSON file",
	Long: `Creates one mapping group per entry of a JSON array. Each entry has
sourceResources, targetResources, mappingType, mappingDirection and
optional notes. Entries succeed or fail on their own.`,
	Args: cobra.ExactArgs(1),
	RunE: runMappingBulkCreate,
}

var mappingBulkDeleteCmd = &cobra.Command{
	Use:   "bulk-delete [mapping-id[@updated-at]...]",
	Short: "Delete several mapping groups",
	Long: `Deletes every listed mapping group. Always asks for confirmation unless --yes is given.

Append @<updatedAt> (as printed by "mapping get --json") to an ID to delete it
only if it has not changed since. Without it the current version is deleted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMappingBulkDelete,
}

var mappingConfirmCmd = &cobra.Command{
	Use:   "confirm [source-id] [target-id]",
	Short: "Record a suggested pair as a mapping group",
	Long: `Looks up the current suggestion for the pair and records it as a mapping
group carrying the suggestion's confidence.`,
	Args: cobra.ExactArgs(2),
	RunE: runMappingConfirm,
}

var (
	mappingSources   []string
	mappingTargets   []string
	mappingType      string
	mappingDirection string
	mappingNotes     string
	mappingExpected  string
	mappingJSON      bool
	mappingYes       bool

	mappingFilter   domain.MappingFilter
	mappingSort     string
	mappingOrder    string
	mappingCursor   string
	mappingPageSize int
)

func init() {
	createFlags := mappingCreateCmd.Flags()
	createFlags.StringSliceVar(&mappingSources, "source", nil, "source resource id (repeatable or comma-separated)")
	createFlags.StringSliceVar(&mappingTargets, "target", nil, "target resource id (repeatable or comma-separated)")
	createFlags.StringVarP(&mappingType, "type", "t", "", "mapping type")
	createFlags.StringVarP(&mappingDirection, "direction", "d", "", "mapping direction")
	createFlags.StringVar(&mappingNotes, "notes", "", "free-text notes")
	_ = mappingCreateCmd.MarkFlagRequired("source")
	_ = mappingCreateCmd.MarkFlagRequired("type")
	_ = mappingCreateCmd.MarkFlagRequired("direction")

	mappingGetCmd.Flags().BoolVar(&mappingJSON, "json", false, "output as JSON")

	mappingUpdateCmd.Flags().StringVar(&mappingNotes, "notes", "", "new notes")
	mappingUpdateCmd.Flags().StringVarP(&mappingType, "type", "t", "", "new mapping type")
	mappingUpdateCmd.Flags().StringVarP(&mappingDirection, "direction", "d", "", "new mapping direction")

	for _, c := range []*cobra.Command{
		mappingUpdateCmd, mappingAddTargetsCmd, mappingRemoveTargetsCmd, mappingDeleteCmd, mappingStatusCmd,
	} {
		c.Flags().StringVar(&mappingExpected, "expected", "", "updatedAt last read for the group")
	}

	listFlags := mappingListCmd.Flags()
	listFlags.StringVarP(&mappingFilter.Search, "search", "s", "", "free-text search over notes and member resources")
	listFlags.StringVar(&mappingFilter.Type, "type", "", "filter by mapping type")
	listFlags.StringVar(&mappingFilter.Region, "region", "", "filter by a member resource region")
	listFlags.StringVar(&mappingFilter.Status, "status", "", "filter by migration status")
	listFlags.StringVar(&mappingFilter.Direction, "direction", "", "filter by mapping direction")
	listFlags.StringVar(&mappingSort, "sort", "", "sort by id, created, updated, status, type or confidence")
	listFlags.StringVar(&mappingOrder, "order", "", "asc or desc")
	listFlags.StringVar(&mappingCursor, "cursor", "", "cursor printed by the previous page")
	listFlags.IntVarP(&mappingPageSize, "page-size", "n", 0, "items per page (0 = settings default)")
	listFlags.BoolVar(&mappingJSON, "json", false, "output as JSON")

	mappingBulkCreateCmd.Flags().BoolVarP(&mappingYes, "yes", "y", false, "confirm large selections")
	mappingBulkDeleteCmd.Flags().BoolVarP(&mappingYes, "yes", "y", false, "confirm the deletion")

	mappingConfirmCmd.Flags().StringVarP(&mappingType, "type", "t", string(domain.MappingTypeReplacement), "mapping type")
	mappingConfirmCmd.Flags().StringVar(&mappingNotes, "notes", "", "free-text notes")

	mappingCmd.AddCommand(mappingCreateCmd)
	mappingCmd.AddCommand(mappingGetCmd)
	mappingCmd.AddCommand(mappingUpdateCmd)
	mappingCmd.AddCommand(mappingAddTargetsCmd)
	mappingCmd.AddCommand(mappingRemoveTargetsCmd)
	mappingCmd.AddCommand(mappingDeleteCmd)
	mappingCmd.AddCommand(mappingStatusCmd)
	mappingCmd.AddCommand(mappingListCmd)
	mappingCmd.AddCommand(mappingBulkCreateCmd)
	mappingCmd.AddCommand(mappingBulkDeleteCmd)
	mappingCmd.AddCommand(mappingConfirmCmd)
	rootCmd.AddCommand(mappingCmd)
}

func runMappingCreate(cmd *cobra.Command, _ []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	group, err := mappingService.Create(cmd.Context(), domain.MappingRequest{
		SourceIDs: mappingSources,
		TargetIDs: mappingTargets,
		Type:      domain.MappingType(mappingType),
		Direction: domain.MappingDirection(mappingDirection),
		Notes:     mappingNotes,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapping: %w", err)
	}

	cmd.Printf("Created mapping: %s\n", group.ID)
	return nil
}

func runMappingGet(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	group, err := mappingService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get mapping: %w", err)
	}

	if mappingJSON {
		return printJSON(cmd, group)
	}

	printMapping(cmd, group)
	return nil
}

func printMapping(cmd *cobra.Command, g *domain.MappingGroup) {
	cmd.Printf("Mapping: %s\n\n", g.ID)
	cmd.Printf("  Sources:    %s\n", strings.Join(g.SourceIDs, ", "))
	if len(g.TargetIDs) > 0 {
		cmd.Printf("  Targets:    %s\n", strings.Join(g.TargetIDs, ", "))
	} else {
		cmd.Println("  Targets:    (none)")
	}
	cmd.Printf("  Type:       %s\n", g.Type)
	cmd.Printf("  Direction:  %s\n", g.Direction)
	cmd.Printf("  Status:     %s\n", statusBadge(g.Status))
	if g.Confidence != nil {
		cmd.Printf("  Confidence: %d\n", *g.Confidence)
	}
	if g.Notes != "" {
		cmd.Printf("  Notes:      %s\n", g.Notes)
	}
	cmd.Printf("  Created:    %s\n", formatTime(g.CreatedAt))
	cmd.Printf("  Updated:    %s\n", formatTime(g.UpdatedAt))
	cmd.Printf("\n  --expected %s\n", g.UpdatedAt.UTC().Format(time.RFC3339Nano))
}

// expectedFor resolves the concurrency token for a change to id.
func expectedFor(ctx context.Context, id string) (time.Time, error) {
	if mappingExpected != "" {
		return parseExpected(mappingExpected)
	}

	group, err := mappingService.Get(ctx, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read mapping: %w", err)
	}
	logger.Debug("using current updatedAt %s for %s", group.UpdatedAt.Format(time.RFC3339Nano), id)
	return group.UpdatedAt, nil
}

func runMappingUpdate(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	var patch domain.MappingPatch
	flags := cmd.Flags()
	if flags.Changed("notes") {
		patch.Notes = &mappingNotes
	}
	if flags.Changed("type") {
		t := domain.MappingType(mappingType)
		patch.Type = &t
	}
	if flags.Changed("direction") {
		d := domain.MappingDirection(mappingDirection)
		patch.Direction = &d
	}

	expected, err := expectedFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	group, err := mappingService.Update(cmd.Context(), args[0], patch, expected)
	if err != nil {
		return fmt.Errorf("failed to update mapping: %w", err)
	}

	cmd.Printf("Updated mapping: %s\n", group.ID)
	return nil
}

func runMappingAddTargets(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	expected, err := expectedFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	group, err := mappingService.AddTargets(cmd.Context(), args[0], splitIDs(args[1:]), expected)
	if err != nil {
		return fmt.Errorf("failed to add targets: %w", err)
	}

	cmd.Printf("Mapping %s now has %d targets\n", group.ID, len(group.TargetIDs))
	return nil
}

func runMappingRemoveTargets(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	expected, err := expectedFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	group, err := mappingService.RemoveTargets(cmd.Context(), args[0], splitIDs(args[1:]), expected)
	if err != nil {
		return fmt.Errorf("failed to remove targets: %w", err)
	}

	cmd.Printf("Mapping %s now has %d targets\n", group.ID, len(group.TargetIDs))
	return nil
}

func runMappingDelete(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	expected, err := expectedFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := mappingService.Delete(cmd.Context(), args[0], expected); err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}

	cmd.Printf("Deleted mapping: %s\n", args[0])
	return nil
}

func runMappingStatus(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	status, err := domain.ParseMigrationStatus(args[1])
	if err != nil {
		return err
	}

	expected, err := expectedFor(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	group, err := mappingService.AdvanceStatus(cmd.Context(), args[0], status, expected)
	if err != nil {
		return fmt.Errorf("failed to change status: %w", err)
	}

	cmd.Printf("Mapping %s is now %s\n", group.ID, statusBadge(group.Status))
	return nil
}

func runMappingList(cmd *cobra.Command, _ []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}

	sortBy := domain.Sort{Field: domain.SortField(mappingSort), Order: domain.SortOrder(mappingOrder)}
	page, err := mappingService.List(cmd.Context(), mappingFilter, sortBy, mappingCursor, mappingPageSize)
	if err != nil {
		return fmt.Errorf("failed to list mappings: %w", err)
	}

	if mappingJSON {
		return printJSON(cmd, page)
	}

	if len(page.Items) == 0 {
		cmd.Println("No mappings found.")
		return nil
	}

	for i := range page.Items {
		g := &page.Items[i]
		cmd.Printf("  %s  %-13s %-10s %s -> %s\n",
			g.ID, g.Type, statusBadge(g.Status),
			strings.Join(g.SourceIDs, ","), strings.Join(g.TargetIDs, ","))
	}

	cmd.Printf("\nShowing %d of %d mappings\n", len(page.Items), page.Total)
	if page.NextCursor != "" {
		cmd.Printf("Next page: --cursor %s\n", page.NextCursor)
	}
	return nil
}

func runMappingBulkCreate(cmd *cobra.Command, args []string) error {
	if bulkService == nil {
		return notConfigured("bulk")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	var requests []domain.MappingRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return domain.NewValidationError("%s is not a JSON array of mappings: %v", args[0], err)
	}

	var result *domain.BulkResult[domain.MappingGroup]
	err = withConfirmation(cmd, mappingYes, len(requests), func(confirmed bool) error {
		var opErr error
		result, opErr = bulkService.BulkMap(cmd.Context(), requests, domain.BulkOptions{Confirmed: confirmed})
		return opErr
	})
	if err != nil {
		return fmt.Errorf("bulk create failed: %w", err)
	}

	cmd.Printf("Created %d of %d mappings\n", len(result.Succeeded), len(requests))
	for i := range result.Succeeded {
		cmd.Printf("  %s\n", result.Succeeded[i].ID)
	}
	printFailures(cmd, result.Failed)
	return nil
}

func runMappingBulkDelete(cmd *cobra.Command, args []string) error {
	if bulkService == nil {
		return notConfigured("bulk")
	}

	refs, err := parseMappingRefs(splitIDs(args))
	if err != nil {
		return err
	}
	var result *domain.BulkResult[string]
	err = withConfirmation(cmd, mappingYes, len(refs), func(confirmed bool) error {
		var opErr error
		result, opErr = bulkService.BulkDeleteMappings(cmd.Context(), refs, domain.BulkOptions{Confirmed: confirmed})
		return opErr
	})
	if err != nil {
		return fmt.Errorf("bulk delete failed: %w", err)
	}

	cmd.Printf("Deleted %d of %d mappings\n", len(result.Succeeded), len(refs))
	printFailures(cmd, result.Failed)
	return nil
}

// parseMappingRefs splits "id@updatedAt" arguments. A bare id carries no token.
func parseMappingRefs(args []string) ([]domain.MappingRef, error) {
	refs := make([]domain.MappingRef, 0, len(args))
	for _, arg := range args {
		id, token, found := strings.Cut(arg, "@")
		ref := domain.MappingRef{ID: id}
		if found {
			expected, err := parseExpected(token)
			if err != nil {
				return nil, err
			}
			ref.ExpectedUpdatedAt = expected
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func runMappingConfirm(cmd *cobra.Command, args []string) error {
	if mappingService == nil {
		return notConfigured("mapping")
	}
	if suggestionService == nil {
		return notConfigured("suggestion")
	}

	mt, err := domain.ParseMappingType(mappingType)
	if err != nil {
		return err
	}

	suggestions, err := suggestionService.Suggest(cmd.Context(), domain.ResourceFilter{}, domain.SuggestOptions{})
	if err != nil {
		return fmt.Errorf("failed to compute suggestions: %w", err)
	}

	sourceID, targetID := args[0], args[1]
	for _, s := range suggestions {
		if s.SourceID != sourceID || s.TargetID != targetID {
			continue
		}
		group, err := mappingService.ConfirmSuggestion(cmd.Context(), s, mt, mappingNotes)
		if err != nil {
			return fmt.Errorf("failed to confirm suggestion: %w", err)
		}
		cmd.Printf("Created mapping: %s (confidence %d)\n", group.ID, s.Confidence)
		return nil
	}

	return domain.NewValidationError("no open suggestion for %s -> %s", sourceID, targetID)
}
