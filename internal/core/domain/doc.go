// Package domain holds the migration engine's vocabulary.
//
//   - Resource: a discovered infrastructure item and its category
//   - MappingGroup: a many-to-many migration decision between resources
//   - MigrationStatus: the lifecycle of a mapping group and its legal moves
//   - Suggestion: a scored candidate pairing proposed by the scorer
//   - BulkResult: per-item outcomes of a batched operation
//   - Error: a classified failure the driving adapters translate for users
//
// The package imports nothing outside the standard library. Every other
// package in the module may depend on it.
package domain
