package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// BulkFailure records one item that could not be processed.
type BulkFailure struct {
	ID    string `json:"id"`
	Error error  `json:"-"`
}

// Kind returns the machine-readable kind of the failure.
func (f BulkFailure) Kind() ErrorKind {
	return KindOf(f.Error)
}

// Message returns the failure's human-readable message.
func (f BulkFailure) Message() string {
	if f.Error == nil {
		return ""
	}
	return f.Error.Error()
}

// MarshalJSON encodes the failure with its kind and message.
func (f BulkFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      string    `json:"id"`
		Kind    ErrorKind `json:"kind"`
		Message string    `json:"error"`
	}{f.ID, f.Kind(), f.Message()})
}

// BulkResult aggregates per-item outcomes. Both slices follow the order of
// the input selection.
type BulkResult[T any] struct {
	Succeeded []T           `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// Total returns the number of items accounted for.
func (r *BulkResult[T]) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// String returns a compact summary of the outcome.
func (r *BulkResult[T]) String() string {
	return fmt.Sprintf("%d succeeded, %d failed", len(r.Succeeded), len(r.Failed))
}

// MappingRef names a mapping group together with the UpdatedAt the caller
// last observed for it. A zero ExpectedUpdatedAt deletes whatever version is
// current.
type MappingRef struct {
	ID                string    `json:"id"`
	ExpectedUpdatedAt time.Time `json:"expectedUpdatedAt"`
}

// BulkOptions carries caller intent for a bulk call.
type BulkOptions struct {
	// Notes is recorded with every item.
	Notes string

	// Confirmed acknowledges a large or destructive selection.
	Confirmed bool
}

// BulkLimits bounds the size of a bulk selection.
type BulkLimits struct {
	// WarnAbove requires confirmation for selections larger than this.
	WarnAbove int

	// MaxItems rejects selections larger than this outright.
	MaxItems int
}

// Check validates a selection size before any mutation begins.
func (l BulkLimits) Check(size int, confirmed bool) error {
	if size == 0 {
		return NewValidationError("bulk selection is empty")
	}
	if l.MaxItems > 0 && size > l.MaxItems {
		return &Error{
			Kind:    KindLimitExceeded,
			Message: fmt.Sprintf("selection of %d items exceeds the limit of %d", size, l.MaxItems),
		}
	}
	if l.WarnAbove > 0 && size > l.WarnAbove && !confirmed {
		return &Error{
			Kind:    KindConfirmationRequired,
			Message: fmt.Sprintf("selection of %d items is above %d, confirm to proceed", size, l.WarnAbove),
		}
	}
	return nil
}

// MappingRequest describes one mapping group to create.
type MappingRequest struct {
	SourceIDs []string         `json:"sourceResources"`
	TargetIDs []string         `json:"targetResources"`
	Type      MappingType      `json:"mappingType"`
	Direction MappingDirection `json:"mappingDirection"`
	Notes     string           `json:"notes,omitempty"`
}

// Key identifies the request in bulk results.
func (r MappingRequest) Key() string {
	if len(r.SourceIDs) == 0 {
		return ""
	}
	if len(r.TargetIDs) == 0 {
		return r.SourceIDs[0]
	}
	return r.SourceIDs[0] + "->" + r.TargetIDs[0]
}
