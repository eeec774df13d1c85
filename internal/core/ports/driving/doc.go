// Package driving declares the operations the CLI and the MCP server call
// on the migration engine: categorisation, mapping lifecycle, suggestions,
// bulk runs, inventory sync and settings.
//
// internal/core/services provides the implementations.
package driving
