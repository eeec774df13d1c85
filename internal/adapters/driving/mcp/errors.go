// Package mcp provides an MCP (Model Context Protocol) server adapter for shiftmap.
// It enables AI assistants to categorise resources, review suggestions and
// record mapping decisions through the same services as the CLI.
package mcp

import "errors"

var (
	// ErrMissingCategoryService is returned when the category service is not provided.
	ErrMissingCategoryService = errors.New("mcp: category service is required")

	// ErrMissingMappingService is returned when the mapping service is not provided.
	ErrMissingMappingService = errors.New("mcp: mapping service is required")

	// errUnavailable is returned by tools whose optional port is not configured.
	errUnavailable = errors.New("mcp: tool not available in this configuration")
)
