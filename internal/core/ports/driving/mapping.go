package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// MappingService manages mapping groups and their migration status.
// Every mutation of an existing group takes the UpdatedAt the caller last
// observed and fails with domain.ErrConflict if the group has changed since.
type MappingService interface {
	// Create validates and stores a new group in status not_started.
	Create(ctx context.Context, req domain.MappingRequest) (*domain.MappingGroup, error)

	// ConfirmSuggestion turns a suggestion into a group carrying its confidence.
	ConfirmSuggestion(
		ctx context.Context,
		suggestion domain.Suggestion,
		mappingType domain.MappingType,
		notes string,
	) (*domain.MappingGroup, error)

	// Get retrieves a group by ID.
	Get(ctx context.Context, id string) (*domain.MappingGroup, error)

	// Update applies a patch of notes, type or direction.
	Update(ctx context.Context, id string, patch domain.MappingPatch, expected time.Time) (*domain.MappingGroup, error)

	// AddTargets appends targets. The whole change is rejected if any target is invalid.
	AddTargets(ctx context.Context, id string, targetIDs []string, expected time.Time) (*domain.MappingGroup, error)

	// RemoveTargets drops targets. The whole change is rejected if any target is invalid.
	RemoveTargets(ctx context.Context, id string, targetIDs []string, expected time.Time) (*domain.MappingGroup, error)

	// Delete removes a group. Referenced resources are untouched.
	Delete(ctx context.Context, id string, expected time.Time) error

	// AdvanceStatus moves a group to a new migration status.
	AdvanceStatus(
		ctx context.Context,
		id string,
		status domain.MigrationStatus,
		expected time.Time,
	) (*domain.MappingGroup, error)

	// List filters, sorts and paginates groups.
	List(
		ctx context.Context,
		filter domain.MappingFilter,
		sort domain.Sort,
		cursor string,
		pageSize int,
	) (*domain.Page[domain.MappingGroup], error)
}
