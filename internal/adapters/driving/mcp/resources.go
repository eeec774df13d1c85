package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for shiftmap resources.
	uriScheme = "shiftmap://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for category counts.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Number of resources per category",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	// Static resource for the full snapshot.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "export",
		Name:        "export",
		Description: "Read-only snapshot of every resource and mapping group",
		MIMEType:    "application/json",
	}, s.handleExportResource)

	// Template for a single mapping group.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "mappings/{mappingId}",
		Name:        "mapping",
		Description: "A single mapping group",
		MIMEType:    "application/json",
	}, s.handleMappingResource)
}

// handleCategoriesResource returns the category snapshot.
func (s *Server) handleCategoriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	snapshot, err := s.ports.Category.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}

	type categoryCounts struct {
		domain.CategorySnapshot
		Total    int     `json:"total"`
		Progress float64 `json:"progress"`
	}
	return jsonResult(req.Params.URI, categoryCounts{
		CategorySnapshot: snapshot,
		Total:            snapshot.Total(),
		Progress:         snapshot.Progress(),
	})
}

// handleExportResource returns the full export snapshot.
func (s *Server) handleExportResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Inventory == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	export, err := s.ports.Inventory.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}
	return jsonResult(req.Params.URI, export)
}

// handleMappingResource returns a single mapping group.
func (s *Server) handleMappingResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract mappingId from URI: shiftmap://mappings/{mappingId}
	id := extractMappingID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	group, err := s.ports.Mapping.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting mapping: %w", err)
	}
	return jsonResult(req.Params.URI, toMappingOutput(group))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractMappingID extracts the mapping ID from a URI like shiftmap://mappings/{mappingId}.
func extractMappingID(uri string) string {
	const prefix = uriScheme + "mappings/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
