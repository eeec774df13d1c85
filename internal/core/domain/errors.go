package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested resource or mapping does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input: a bad enum value,
	// an empty source list or a direction/category mismatch.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrConflict indicates an optimistic concurrency mismatch. The caller
	// should re-read the entity and retry.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition indicates an illegal migration status move.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrLimitExceeded indicates a bulk selection above the hard cap.
	ErrLimitExceeded = errors.New("bulk limit exceeded")

	// ErrConfirmationRequired indicates a bulk selection that needs an explicit
	// confirmation before it is applied.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// ErrorKind is the machine-readable classification of a domain error.
type ErrorKind string

// Error kinds surfaced to API callers.
const (
	KindValidation           ErrorKind = "validation"
	KindNotFound             ErrorKind = "not_found"
	KindConflict             ErrorKind = "conflict"
	KindInvalidTransition    ErrorKind = "invalid_transition"
	KindLimitExceeded        ErrorKind = "limit_exceeded"
	KindConfirmationRequired ErrorKind = "confirmation_required"
	KindInternal             ErrorKind = "internal"
)

// sentinel maps a kind back to the package-level error it matches.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrInvalidInput
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindInvalidTransition:
		return ErrInvalidTransition
	case KindLimitExceeded:
		return ErrLimitExceeded
	case KindConfirmationRequired:
		return ErrConfirmationRequired
	default:
		return nil
	}
}

// Error is a structured domain error carrying a kind, a human-readable
// message and, where relevant, the id of the offending entity.
type Error struct {
	Kind    ErrorKind
	Message string
	ID      string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (id: %s)", e.Kind, e.Message, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is match the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && s == target
}

// NewValidationError creates a validation error.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates a not-found error for the given entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found", ID: id}
}

// NewConflictError creates an optimistic concurrency error for a mapping group.
func NewConflictError(id string) *Error {
	return &Error{Kind: KindConflict, Message: "mapping was modified since it was last read", ID: id}
}

// TransitionError reports an illegal migration status move.
type TransitionError struct {
	From MigrationStatus
	To   MigrationStatus
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %s to %s", KindInvalidTransition, e.From, e.To)
}

// Is lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// KindOf returns the machine-readable kind of err.
// Unclassified errors report KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var te *TransitionError
	if errors.As(err, &te) {
		return KindInvalidTransition
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrLimitExceeded):
		return KindLimitExceeded
	case errors.Is(err, ErrConfirmationRequired):
		return KindConfirmationRequired
	default:
		return KindInternal
	}
}
