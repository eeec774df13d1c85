package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/listing"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// Ensure MappingGraph implements the interface.
var _ driving.MappingService = (*MappingGraph)(nil)

// MappingGraph owns mapping groups: creation, validation against the
// direction rules, membership changes, status moves and deletion.
//
// Every mutation of an existing group is atomic at group granularity. The
// new state is fully validated before a single compare-and-swap write, so a
// rejected change leaves the stored group untouched.
type MappingGraph struct {
	mappings  driven.MappingStore
	resources driven.ResourceStore
	pageSize  int
	now       clock
	newID     func() string
}

// NewMappingGraph creates a new mapping graph.
func NewMappingGraph(
	mappings driven.MappingStore,
	resources driven.ResourceStore,
	settings domain.ListSettings,
) *MappingGraph {
	pageSize := settings.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &MappingGraph{
		mappings:  mappings,
		resources: resources,
		pageSize:  pageSize,
		now:       systemClock,
		newID:     uuid.NewString,
	}
}

// Create validates and stores a new group in status not_started.
func (g *MappingGraph) Create(ctx context.Context, req domain.MappingRequest) (*domain.MappingGroup, error) {
	return g.create(ctx, req, nil)
}

// ConfirmSuggestion turns a scored suggestion into a group carrying its
// confidence. The direction is derived from the pair's current categories.
func (g *MappingGraph) ConfirmSuggestion(
	ctx context.Context,
	suggestion domain.Suggestion,
	mappingType domain.MappingType,
	notes string,
) (*domain.MappingGroup, error) {
	if g.mappings == nil || g.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	if suggestion.Confidence < 0 || suggestion.Confidence > 100 {
		return nil, domain.NewValidationError("confidence must be between 0 and 100, got %d", suggestion.Confidence)
	}

	source, err := g.resources.Get(ctx, suggestion.SourceID)
	if err != nil {
		return nil, lookupErr(err, "resource", suggestion.SourceID)
	}
	target, err := g.resources.Get(ctx, suggestion.TargetID)
	if err != nil {
		return nil, lookupErr(err, "resource", suggestion.TargetID)
	}

	confidence := suggestion.Confidence
	return g.create(ctx, domain.MappingRequest{
		SourceIDs: []string{source.ID},
		TargetIDs: []string{target.ID},
		Type:      mappingType,
		Direction: domain.DirectionFor(source.Category, target.Category),
		Notes:     notes,
	}, &confidence)
}

func (g *MappingGraph) create(
	ctx context.Context,
	req domain.MappingRequest,
	confidence *int,
) (*domain.MappingGroup, error) {
	if g.mappings == nil || g.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	members, err := g.resolve(ctx, req.SourceIDs, req.TargetIDs)
	if err != nil {
		return nil, err
	}
	if err := checkDirection(req.Direction, req.SourceIDs, req.TargetIDs, members); err != nil {
		return nil, err
	}

	now := g.now()
	group := domain.MappingGroup{
		ID:         g.newID(),
		SourceIDs:  append([]string(nil), req.SourceIDs...),
		TargetIDs:  append([]string{}, req.TargetIDs...),
		Type:       req.Type,
		Direction:  req.Direction,
		Status:     domain.StatusNotStarted,
		Notes:      req.Notes,
		Confidence: confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := g.mappings.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create mapping: %w", err)
	}

	logger.Info("Created mapping %s (%s, %s): %v -> %v",
		group.ID, group.Type, group.Direction, group.SourceIDs, group.TargetIDs)
	return &group, nil
}

// Get retrieves a group by ID.
func (g *MappingGraph) Get(ctx context.Context, id string) (*domain.MappingGroup, error) {
	if g.mappings == nil {
		return nil, domain.ErrNotImplemented
	}
	group, err := g.mappings.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "mapping", id)
	}
	return group, nil
}

// Update applies a patch. A direction change is re-checked against the
// group's current membership.
func (g *MappingGraph) Update(
	ctx context.Context,
	id string,
	patch domain.MappingPatch,
	expected time.Time,
) (*domain.MappingGroup, error) {
	if patch.IsEmpty() {
		return nil, domain.NewValidationError("nothing to update")
	}
	if patch.Notes != nil {
		if err := domain.ValidateNotes(*patch.Notes); err != nil {
			return nil, err
		}
	}
	if patch.Type != nil && !patch.Type.IsValid() {
		return nil, domain.NewValidationError("unknown mapping type %q", *patch.Type)
	}
	if patch.Direction != nil && !patch.Direction.IsValid() {
		return nil, domain.NewValidationError("unknown mapping direction %q", *patch.Direction)
	}

	return g.mutate(ctx, id, expected, "update", func(group *domain.MappingGroup) error {
		if patch.Notes != nil {
			group.Notes = *patch.Notes
		}
		if patch.Type != nil {
			group.Type = *patch.Type
		}
		if patch.Direction != nil && *patch.Direction != group.Direction {
			group.Direction = *patch.Direction
			return g.revalidate(ctx, group)
		}
		return nil
	})
}

// AddTargets appends targets to a group. If any target is invalid the whole
// change is rejected.
func (g *MappingGraph) AddTargets(
	ctx context.Context,
	id string,
	targetIDs []string,
	expected time.Time,
) (*domain.MappingGroup, error) {
	if len(targetIDs) == 0 {
		return nil, domain.NewValidationError("no targets given")
	}
	if dup := firstDuplicate(targetIDs); dup != "" {
		return nil, domain.NewValidationError("target %s is listed more than once", dup)
	}

	return g.mutate(ctx, id, expected, "add targets to", func(group *domain.MappingGroup) error {
		for _, t := range targetIDs {
			if contains(group.TargetIDs, t) {
				return domain.NewValidationError("resource %s is already a target", t)
			}
			if contains(group.SourceIDs, t) {
				return domain.NewValidationError("resource %s is a source of this mapping", t)
			}
		}
		group.TargetIDs = append(group.TargetIDs, targetIDs...)
		return g.revalidate(ctx, group)
	})
}

// RemoveTargets drops targets from a group. If any ID is not a current
// target the whole change is rejected.
func (g *MappingGraph) RemoveTargets(
	ctx context.Context,
	id string,
	targetIDs []string,
	expected time.Time,
) (*domain.MappingGroup, error) {
	if len(targetIDs) == 0 {
		return nil, domain.NewValidationError("no targets given")
	}

	return g.mutate(ctx, id, expected, "remove targets from", func(group *domain.MappingGroup) error {
		for _, t := range targetIDs {
			if !contains(group.TargetIDs, t) {
				return domain.NewValidationError("resource %s is not a target of this mapping", t)
			}
		}
		kept := make([]string, 0, len(group.TargetIDs))
		for _, t := range group.TargetIDs {
			if !contains(targetIDs, t) {
				kept = append(kept, t)
			}
		}
		group.TargetIDs = kept
		return g.revalidate(ctx, group)
	})
}

// AdvanceStatus moves a group to a new migration status.
func (g *MappingGraph) AdvanceStatus(
	ctx context.Context,
	id string,
	status domain.MigrationStatus,
	expected time.Time,
) (*domain.MappingGroup, error) {
	if !status.IsValid() {
		return nil, domain.NewValidationError("unknown migration status %q", status)
	}

	var from domain.MigrationStatus
	group, err := g.mutate(ctx, id, expected, "advance", func(group *domain.MappingGroup) error {
		from = group.Status
		if err := domain.ValidateTransition(group.Status, status); err != nil {
			return err
		}
		group.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Mapping %s status %s -> %s", id, from, status)
	return group, nil
}

// Delete removes a group. Referenced resources are untouched. Deleting a
// group that no longer exists fails with a not-found error.
func (g *MappingGraph) Delete(ctx context.Context, id string, expected time.Time) error {
	current, err := g.Get(ctx, id)
	if err != nil {
		return err
	}
	if !current.UpdatedAt.Equal(expected) {
		return domain.NewConflictError(id)
	}
	if err := g.mappings.Delete(ctx, id, expected); err != nil {
		return writeErr(err, "delete", id)
	}

	logger.Info("Deleted mapping %s", id)
	return nil
}

// List filters, sorts and paginates groups. Free-text search and the region
// filter look through member resources.
func (g *MappingGraph) List(
	ctx context.Context,
	filter domain.MappingFilter,
	sort domain.Sort,
	cursor string,
	pageSize int,
) (*domain.Page[domain.MappingGroup], error) {
	if g.mappings == nil || g.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	size, err := resolvePageSize(pageSize, g.pageSize)
	if err != nil {
		return nil, err
	}

	groups, err := g.mappings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	resources, err := g.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	byID := make(map[string]domain.Resource, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
	}
	resolve := func(id string) (domain.Resource, bool) {
		r, ok := byID[id]
		return r, ok
	}

	matched := listing.Filter(groups, listing.MappingPredicates(filter, resolve)...)
	logger.Debug("Mapping list: %d of %d groups match", len(matched), len(groups))
	return listing.Paginate(matched, sort, cursor, size)
}

// mutate loads a group, checks the caller's view is current, applies fn to a
// copy and writes it back with a compare-and-swap on UpdatedAt.
func (g *MappingGraph) mutate(
	ctx context.Context,
	id string,
	expected time.Time,
	verb string,
	fn func(group *domain.MappingGroup) error,
) (*domain.MappingGroup, error) {
	if g.mappings == nil || g.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	current, err := g.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.UpdatedAt.Equal(expected) {
		return nil, domain.NewConflictError(id)
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = advance(g.now, current.UpdatedAt)

	if err := g.mappings.Update(ctx, next, expected); err != nil {
		return nil, writeErr(err, verb, id)
	}
	logger.Debug("Mapping %s: %s committed at %s", id, verb, next.UpdatedAt.Format(time.RFC3339Nano))
	return &next, nil
}

// revalidate resolves every member of group and checks its direction.
func (g *MappingGraph) revalidate(ctx context.Context, group *domain.MappingGroup) error {
	members, err := g.resolve(ctx, group.SourceIDs, group.TargetIDs)
	if err != nil {
		return err
	}
	return checkDirection(group.Direction, group.SourceIDs, group.TargetIDs, members)
}

// resolve loads every referenced resource. The first unknown ID fails.
func (g *MappingGraph) resolve(
	ctx context.Context,
	sourceIDs, targetIDs []string,
) (map[string]domain.Resource, error) {
	members := make(map[string]domain.Resource, len(sourceIDs)+len(targetIDs))
	for _, ids := range [][]string{sourceIDs, targetIDs} {
		for _, id := range ids {
			if _, seen := members[id]; seen {
				continue
			}
			r, err := g.resources.Get(ctx, id)
			if err != nil {
				return nil, lookupErr(err, "resource", id)
			}
			members[id] = *r
		}
	}
	return members, nil
}

// validateRequest checks the shape of a create request without touching storage.
func validateRequest(req domain.MappingRequest) error {
	if len(req.SourceIDs) == 0 {
		return domain.NewValidationError("at least one source resource is required")
	}
	if !req.Type.IsValid() {
		return domain.NewValidationError("unknown mapping type %q", req.Type)
	}
	if !req.Direction.IsValid() {
		return domain.NewValidationError("unknown mapping direction %q", req.Direction)
	}
	if err := domain.ValidateNotes(req.Notes); err != nil {
		return err
	}
	for _, id := range append(append([]string(nil), req.SourceIDs...), req.TargetIDs...) {
		if id == "" {
			return domain.NewValidationError("resource IDs must not be empty")
		}
	}
	if dup := firstDuplicate(req.SourceIDs); dup != "" {
		return domain.NewValidationError("source %s is listed more than once", dup)
	}
	if dup := firstDuplicate(req.TargetIDs); dup != "" {
		return domain.NewValidationError("target %s is listed more than once", dup)
	}
	for _, t := range req.TargetIDs {
		if contains(req.SourceIDs, t) {
			return domain.NewValidationError("resource %s cannot be both source and target", t)
		}
	}
	return nil
}

// checkDirection verifies every member's category against the direction.
func checkDirection(
	direction domain.MappingDirection,
	sourceIDs, targetIDs []string,
	members map[string]domain.Resource,
) error {
	wantSource, wantTarget, constrained := direction.Categories()
	if !constrained {
		return nil
	}

	var problems []string
	for _, id := range sourceIDs {
		if c := members[id].Category; c != wantSource {
			problems = append(problems, fmt.Sprintf("source %s is %s", id, c))
		}
	}
	for _, id := range targetIDs {
		if c := members[id].Category; c != wantTarget {
			problems = append(problems, fmt.Sprintf("target %s is %s", id, c))
		}
	}
	if len(problems) > 0 {
		return domain.NewValidationError("%s requires %s sources and %s targets: %s",
			direction, wantSource, wantTarget, strings.Join(problems, "; "))
	}
	return nil
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id
		}
		seen[id] = struct{}{}
	}
	return ""
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
