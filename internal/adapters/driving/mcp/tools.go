package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// ResourceOutput is the wire form of a resource.
type ResourceOutput struct {
	ID            string            `json:"resourceId"`
	Type          string            `json:"resourceType"`
	Region        string            `json:"region"`
	Name          string            `json:"name,omitempty"`
	Category      string            `json:"category"`
	Tags          map[string]string `json:"tags,omitempty"`
	CategorizedAt string            `json:"categorizedAt,omitempty"`
}

// MappingOutput is the wire form of a mapping group. Timestamps are RFC 3339
// with nanoseconds; pass updatedAt back as expectedUpdatedAt to mutate.
type MappingOutput struct {
	ID         string   `json:"id"`
	Sources    []string `json:"sourceResources"`
	Targets    []string `json:"targetResources"`
	Type       string   `json:"mappingType"`
	Direction  string   `json:"mappingDirection"`
	Status     string   `json:"migrationStatus"`
	Notes      string   `json:"notes,omitempty"`
	Confidence *int     `json:"confidence,omitempty"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// FailureOutput is one failed item of a bulk call.
type FailureOutput struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"error"`
}

// CategorizeInput is the input schema for the categorize tool.
type CategorizeInput struct {
	ResourceID string `json:"resourceId" jsonschema:"the resource to classify"`
	Category   string `json:"category" jsonschema:"old, new or uncategorized"`
	Notes      string `json:"notes,omitempty" jsonschema:"optional note recorded with the change"`
}

// BulkCategorizeInput is the input schema for the bulk_categorize tool.
type BulkCategorizeInput struct {
	ResourceIDs []string `json:"resourceIds" jsonschema:"the resources to classify"`
	Category    string   `json:"category" jsonschema:"old, new or uncategorized"`
	Notes       string   `json:"notes,omitempty" jsonschema:"optional note recorded with each change"`
	Confirmed   bool     `json:"confirmed,omitempty" jsonschema:"set after the caller confirmed a large selection"`
}

// BulkCategorizeOutput is the output schema for the bulk_categorize tool.
type BulkCategorizeOutput struct {
	Succeeded []string        `json:"succeeded"`
	Failed    []FailureOutput `json:"failed"`
}

// SuggestInput is the input schema for the suggest_mappings tool.
type SuggestInput struct {
	Search        string `json:"search,omitempty" jsonschema:"free-text filter over the candidate pool"`
	Type          string `json:"type,omitempty" jsonschema:"restrict the pool to one resource type"`
	Region        string `json:"region,omitempty" jsonschema:"restrict the pool to one region"`
	MinConfidence *int   `json:"minConfidence,omitempty" jsonschema:"only return pairs scoring above this (0-100); omit for the settings default"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of suggestions (0 = settings default)"`
	IncludeMapped bool   `json:"includeMapped,omitempty" jsonschema:"include pairs already recorded in a mapping"`
}

// SuggestOutput is the output schema for the suggest_mappings tool.
type SuggestOutput struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Count       int                 `json:"count"`
}

// CreateMappingInput is the input schema for the create_mapping tool.
type CreateMappingInput struct {
	Sources   []string `json:"sourceResources" jsonschema:"source resource ids, at least one"`
	Targets   []string `json:"targetResources,omitempty" jsonschema:"target resource ids, may be empty"`
	Type      string   `json:"mappingType" jsonschema:"replacement, consolidation, split, dependency, deprecation, removal or addition"`
	Direction string   `json:"mappingDirection" jsonschema:"old_to_new, new_to_old, old_to_old, new_to_new or any_to_any"`
	Notes     string   `json:"notes,omitempty" jsonschema:"free text, up to 1000 characters"`
}

// GetMappingInput is the input schema for the get_mapping tool.
type GetMappingInput struct {
	ID string `json:"id" jsonschema:"the mapping group id"`
}

// AdvanceStatusInput is the input schema for the advance_status tool.
type AdvanceStatusInput struct {
	ID                string `json:"id" jsonschema:"the mapping group id"`
	Status            string `json:"status" jsonschema:"the new migration status"`
	ExpectedUpdatedAt string `json:"expectedUpdatedAt" jsonschema:"the updatedAt last read for this group"`
}

// UpdateMappingInput is the input schema for the update_mapping tool.
// Omitted fields are left unchanged.
type UpdateMappingInput struct {
	ID                string  `json:"id" jsonschema:"the mapping group id"`
	Notes             *string `json:"notes,omitempty" jsonschema:"replacement notes; an empty string clears them"`
	Type              *string `json:"mappingType,omitempty" jsonschema:"the new mapping type"`
	Direction         *string `json:"mappingDirection,omitempty" jsonschema:"the new mapping direction"`
	ExpectedUpdatedAt string  `json:"expectedUpdatedAt" jsonschema:"the updatedAt last read for this group"`
}

// DeleteMappingInput is the input schema for the delete_mapping tool.
type DeleteMappingInput struct {
	ID                string `json:"id" jsonschema:"the mapping group id"`
	ExpectedUpdatedAt string `json:"expectedUpdatedAt" jsonschema:"the updatedAt last read for this group"`
}

// DeleteMappingOutput is the output schema for the delete_mapping tool.
type DeleteMappingOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// TargetsInput is the input schema for the add_targets and remove_targets tools.
type TargetsInput struct {
	ID                string   `json:"id" jsonschema:"the mapping group id"`
	TargetIDs         []string `json:"targetResources" jsonschema:"target resource ids to add or remove"`
	ExpectedUpdatedAt string   `json:"expectedUpdatedAt" jsonschema:"the updatedAt last read for this group"`
}

// ListMappingsInput is the input schema for the list_mappings tool.
type ListMappingsInput struct {
	Search    string `json:"search,omitempty" jsonschema:"free-text search over notes and member resources"`
	Type      string `json:"type,omitempty" jsonschema:"filter by mapping type"`
	Region    string `json:"region,omitempty" jsonschema:"filter by a member resource region"`
	Status    string `json:"status,omitempty" jsonschema:"filter by migration status"`
	Direction string `json:"direction,omitempty" jsonschema:"filter by mapping direction"`
	Sort      string `json:"sort,omitempty" jsonschema:"id, created, updated, status, type or confidence"`
	Order     string `json:"order,omitempty" jsonschema:"asc or desc"`
	Cursor    string `json:"cursor,omitempty" jsonschema:"nextCursor from the previous page"`
	PageSize  int    `json:"pageSize,omitempty" jsonschema:"items per page (0 = settings default)"`
}

// ListMappingsOutput is the output schema for the list_mappings tool.
type ListMappingsOutput struct {
	Items      []MappingOutput `json:"items"`
	NextCursor string          `json:"nextCursor,omitempty"`
	Total      int             `json:"total"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "categorize",
		Description: "Set a resource's category to old, new or uncategorized",
	}, s.handleCategorize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "bulk_categorize",
		Description: "Set the same category on several resources; failures are reported per item",
	}, s.handleBulkCategorize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_mappings",
		Description: "Score old and uncategorized resources against new ones and propose mappings",
	}, s.handleSuggest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_mapping",
		Description: "Record a mapping group between source and target resources",
	}, s.handleCreateMapping)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_mapping",
		Description: "Read a mapping group, including the updatedAt needed to change it",
	}, s.handleGetMapping)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "advance_status",
		Description: "Move a mapping group to a new migration status",
	}, s.handleAdvanceStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_mapping",
		Description: "Change a mapping group's notes, type or direction",
	}, s.handleUpdateMapping)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_mapping",
		Description: "Delete a mapping group; its resources are untouched",
	}, s.handleDeleteMapping)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_targets",
		Description: "Append target resources to a mapping group",
	}, s.handleAddTargets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_targets",
		Description: "Drop target resources from a mapping group",
	}, s.handleRemoveTargets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_mappings",
		Description: "Filter, sort and page through mapping groups",
	}, s.handleListMappings)
}

func (s *Server) handleCategorize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CategorizeInput,
) (*mcp.CallToolResult, ResourceOutput, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, ResourceOutput{}, err
	}
	r, err := s.ports.Category.Categorize(ctx, input.ResourceID, category, input.Notes)
	if err != nil {
		return nil, ResourceOutput{}, err
	}
	return nil, toResourceOutput(r), nil
}

func (s *Server) handleBulkCategorize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BulkCategorizeInput,
) (*mcp.CallToolResult, BulkCategorizeOutput, error) {
	if s.ports.Bulk == nil {
		return nil, BulkCategorizeOutput{}, errUnavailable
	}
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, BulkCategorizeOutput{}, err
	}

	result, err := s.ports.Bulk.BulkCategorize(ctx, input.ResourceIDs, category, domain.BulkOptions{
		Notes:     input.Notes,
		Confirmed: input.Confirmed,
	})
	if err != nil {
		return nil, BulkCategorizeOutput{}, err
	}

	output := BulkCategorizeOutput{
		Succeeded: make([]string, len(result.Succeeded)),
		Failed:    toFailures(result.Failed),
	}
	for i := range result.Succeeded {
		output.Succeeded[i] = result.Succeeded[i].ID
	}
	return nil, output, nil
}

func (s *Server) handleSuggest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, SuggestOutput, error) {
	if s.ports.Suggestion == nil {
		return nil, SuggestOutput{}, errUnavailable
	}

	pool := domain.ResourceFilter{Search: input.Search, Type: input.Type, Region: input.Region}
	suggestions, err := s.ports.Suggestion.Suggest(ctx, pool, domain.SuggestOptions{
		MinConfidence: input.MinConfidence,
		Limit:         input.Limit,
		IncludeMapped: input.IncludeMapped,
	})
	if err != nil {
		return nil, SuggestOutput{}, err
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	return nil, SuggestOutput{Suggestions: suggestions, Count: len(suggestions)}, nil
}

func (s *Server) handleCreateMapping(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateMappingInput,
) (*mcp.CallToolResult, MappingOutput, error) {
	group, err := s.ports.Mapping.Create(ctx, domain.MappingRequest{
		SourceIDs: input.Sources,
		TargetIDs: input.Targets,
		Type:      domain.MappingType(input.Type),
		Direction: domain.MappingDirection(input.Direction),
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, MappingOutput{}, err
	}
	return nil, toMappingOutput(group), nil
}

func (s *Server) handleGetMapping(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetMappingInput,
) (*mcp.CallToolResult, MappingOutput, error) {
	group, err := s.ports.Mapping.Get(ctx, input.ID)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	return nil, toMappingOutput(group), nil
}

func (s *Server) handleAdvanceStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AdvanceStatusInput,
) (*mcp.CallToolResult, MappingOutput, error) {
	status, err := domain.ParseMigrationStatus(input.Status)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	expected, err := parseTimestamp(input.ExpectedUpdatedAt)
	if err != nil {
		return nil, MappingOutput{}, err
	}

	group, err := s.ports.Mapping.AdvanceStatus(ctx, input.ID, status, expected)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	return nil, toMappingOutput(group), nil
}

func (s *Server) handleUpdateMapping(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateMappingInput,
) (*mcp.CallToolResult, MappingOutput, error) {
	var patch domain.MappingPatch
	patch.Notes = input.Notes
	if input.Type != nil {
		t, err := domain.ParseMappingType(*input.Type)
		if err != nil {
			return nil, MappingOutput{}, err
		}
		patch.Type = &t
	}
	if input.Direction != nil {
		d, err := domain.ParseMappingDirection(*input.Direction)
		if err != nil {
			return nil, MappingOutput{}, err
		}
		patch.Direction = &d
	}
	expected, err := parseTimestamp(input.ExpectedUpdatedAt)
	if err != nil {
		return nil, MappingOutput{}, err
	}

	group, err := s.ports.Mapping.Update(ctx, input.ID, patch, expected)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	return nil, toMappingOutput(group), nil
}

func (s *Server) handleDeleteMapping(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteMappingInput,
) (*mcp.CallToolResult, DeleteMappingOutput, error) {
	expected, err := parseTimestamp(input.ExpectedUpdatedAt)
	if err != nil {
		return nil, DeleteMappingOutput{}, err
	}
	if err := s.ports.Mapping.Delete(ctx, input.ID, expected); err != nil {
		return nil, DeleteMappingOutput{}, err
	}
	return nil, DeleteMappingOutput{ID: input.ID, Deleted: true}, nil
}

func (s *Server) handleAddTargets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TargetsInput,
) (*mcp.CallToolResult, MappingOutput, error) {
	expected, err := parseTimestamp(input.ExpectedUpdatedAt)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	group, err := s.ports.Mapping.AddTargets(ctx, input.ID, input.TargetIDs, expected)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	return nil, toMappingOutput(group), nil
}

func (s *Server) handleRemoveTargets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TargetsInput,
) (*mcp.CallToolResult, MappingOutput, error) {
	expected, err := parseTimestamp(input.ExpectedUpdatedAt)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	group, err := s.ports.Mapping.RemoveTargets(ctx, input.ID, input.TargetIDs, expected)
	if err != nil {
		return nil, MappingOutput{}, err
	}
	return nil, toMappingOutput(group), nil
}

func (s *Server) handleListMappings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListMappingsInput,
) (*mcp.CallToolResult, ListMappingsOutput, error) {
	filter := domain.MappingFilter{
		Search:    input.Search,
		Type:      input.Type,
		Region:    input.Region,
		Status:    input.Status,
		Direction: input.Direction,
	}
	sort := domain.Sort{Field: domain.SortField(input.Sort), Order: domain.SortOrder(input.Order)}

	page, err := s.ports.Mapping.List(ctx, filter, sort, input.Cursor, input.PageSize)
	if err != nil {
		return nil, ListMappingsOutput{}, err
	}

	output := ListMappingsOutput{
		Items:      make([]MappingOutput, len(page.Items)),
		NextCursor: page.NextCursor,
		Total:      page.Total,
	}
	for i := range page.Items {
		output.Items[i] = toMappingOutput(&page.Items[i])
	}
	return nil, output, nil
}

func toResourceOutput(r *domain.Resource) ResourceOutput {
	return ResourceOutput{
		ID:            r.ID,
		Type:          r.Type,
		Region:        r.Region,
		Name:          r.Name,
		Category:      string(r.Category),
		Tags:          r.Tags,
		CategorizedAt: formatTimestamp(r.CategorizedAt),
	}
}

func toMappingOutput(g *domain.MappingGroup) MappingOutput {
	return MappingOutput{
		ID:         g.ID,
		Sources:    nonNil(g.SourceIDs),
		Targets:    nonNil(g.TargetIDs),
		Type:       string(g.Type),
		Direction:  string(g.Direction),
		Status:     string(g.Status),
		Notes:      g.Notes,
		Confidence: g.Confidence,
		CreatedAt:  formatTimestamp(g.CreatedAt),
		UpdatedAt:  formatTimestamp(g.UpdatedAt),
	}
}

func toFailures(failed []domain.BulkFailure) []FailureOutput {
	out := make([]FailureOutput, len(failed))
	for i, f := range failed {
		out[i] = FailureOutput{ID: f.ID, Kind: string(f.Kind()), Message: f.Message()}
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, domain.NewValidationError("expectedUpdatedAt is required")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("expectedUpdatedAt %q is not an RFC 3339 timestamp", s)
	}
	return t, nil
}
