// Package services is the migration engine: it classifies resources, scores
// mapping suggestions, enforces the mapping lifecycle and runs bulk
// operations against the driven stores.
//
// Calls run on the caller's goroutine. Blocking happens only inside store
// and collector calls, which receive the caller's context.
package services
