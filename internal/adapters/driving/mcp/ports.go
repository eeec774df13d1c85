package mcp

import (
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Category classifies resources.
	Category driving.CategoryService

	// Mapping manages mapping groups.
	Mapping driving.MappingService

	// Suggestion proposes candidate mappings.
	Suggestion driving.SuggestionService

	// Bulk applies actions over selections.
	Bulk driving.BulkService

	// Inventory exposes resources and the export snapshot.
	Inventory driving.InventoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Category == nil {
		return ErrMissingCategoryService
	}
	if p.Mapping == nil {
		return ErrMissingMappingService
	}
	// Suggestion, Bulk and Inventory are optional
	return nil
}
