package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// clock returns the current time. Services hold one so tests can pin it.
type clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// advance returns a timestamp strictly after prev so every committed
// mutation produces a distinct UpdatedAt.
func advance(now clock, prev time.Time) time.Time {
	t := now()
	if !t.After(prev) {
		t = prev.Add(time.Nanosecond)
	}
	return t
}

// lookupErr normalises a store lookup failure into a domain error.
func lookupErr(err error, entity, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError(entity, id)
	}
	return fmt.Errorf("get %s: %w", entity, err)
}

// writeErr normalises a compare-and-swap failure into a domain error.
func writeErr(err error, verb, id string) error {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return domain.NewConflictError(id)
	case errors.Is(err, domain.ErrNotFound):
		return domain.NewNotFoundError("mapping", id)
	default:
		return fmt.Errorf("%s mapping: %w", verb, err)
	}
}

// resolvePageSize applies the default page size and the upper bound.
func resolvePageSize(requested, fallback int) (int, error) {
	if requested == 0 {
		requested = fallback
	}
	if requested <= 0 || requested > domain.MaxPageSize {
		return 0, domain.NewValidationError("page size must be between 1 and %d", domain.MaxPageSize)
	}
	return requested, nil
}
