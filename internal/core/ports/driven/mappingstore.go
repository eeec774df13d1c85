package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// MappingStore persists mapping groups.
// Update and Delete are compare-and-swap operations keyed on UpdatedAt so that
// concurrent writers on the same group are linearised.
type MappingStore interface {
	// Create stores a new group. Returns domain.ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, group domain.MappingGroup) error

	// Get retrieves a group by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.MappingGroup, error)

	// List returns all groups ordered by ID.
	List(ctx context.Context) ([]domain.MappingGroup, error)

	// Update replaces a group if its stored UpdatedAt equals expected.
	// Returns domain.ErrConflict on mismatch and domain.ErrNotFound if absent.
	Update(ctx context.Context, group domain.MappingGroup, expected time.Time) error

	// Delete removes a group if its stored UpdatedAt equals expected.
	// Returns domain.ErrConflict on mismatch and domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string, expected time.Time) error
}
