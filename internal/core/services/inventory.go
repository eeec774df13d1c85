package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/listing"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// exportBatchSize is the number of resources read per store call during export.
const exportBatchSize = 500

// Ensure InventoryService implements the interface.
var _ driving.InventoryService = (*InventoryService)(nil)

// InventoryService exposes discovered resources and the export snapshot.
type InventoryService struct {
	resources driven.ResourceStore
	mappings  driven.MappingStore
	collector driven.Collector
	pageSize  int
	now       clock
}

// NewInventoryService creates a new inventory service.
// collector is optional; without it Sync is unavailable.
func NewInventoryService(
	resources driven.ResourceStore,
	mappings driven.MappingStore,
	collector driven.Collector,
	settings domain.ListSettings,
) *InventoryService {
	pageSize := settings.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &InventoryService{
		resources: resources,
		mappings:  mappings,
		collector: collector,
		pageSize:  pageSize,
		now:       systemClock,
	}
}

// Sync pulls every resource from the collector and upserts it. Categories
// and their audit fields are kept for known resources; new resources start
// uncategorized. Resources the collector no longer reports are left alone.
func (s *InventoryService) Sync(ctx context.Context) (*domain.SyncReport, error) {
	if s.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	if s.collector == nil {
		return nil, fmt.Errorf("sync inventory: no collector configured: %w", domain.ErrNotImplemented)
	}

	logger.Section("Inventory sync: " + s.collector.Name())

	discovered, err := s.collector.ListResources(ctx, domain.ResourceFilter{})
	if err != nil {
		return nil, fmt.Errorf("collect resources: %w", err)
	}

	report := &domain.SyncReport{Collector: s.collector.Name()}
	now := s.now()
	batch := make([]domain.Resource, 0, len(discovered))
	for _, r := range discovered {
		if r.ID == "" {
			logger.Warn("Skipping resource without ID from %s", s.collector.Name())
			continue
		}
		if r.LastSeenAt.IsZero() {
			r.LastSeenAt = now
		}
		batch = append(batch, r)
	}

	added, err := s.resources.SaveDiscovered(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("save resources: %w", err)
	}
	report.Added = added
	report.Updated = len(batch) - added

	stored, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	report.Total = len(stored)
	logger.Info("Synced %s: %d added, %d updated", report.Collector, report.Added, report.Updated)
	return report, nil
}

// Refresh re-fetches one resource from the collector and upserts it,
// keeping its category.
func (s *InventoryService) Refresh(ctx context.Context, id string) (*domain.Resource, error) {
	if s.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	if s.collector == nil {
		return nil, fmt.Errorf("refresh resource: no collector configured: %w", domain.ErrNotImplemented)
	}
	if id == "" {
		return nil, domain.NewValidationError("resource ID is required")
	}

	r, err := s.collector.ResourceByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "resource", id)
	}
	r.ID = id
	if r.LastSeenAt.IsZero() {
		r.LastSeenAt = s.now()
	}
	if _, err := s.resources.SaveDiscovered(ctx, []domain.Resource{*r}); err != nil {
		return nil, fmt.Errorf("save resource: %w", err)
	}
	logger.Debug("Refreshed %s from %s", id, s.collector.Name())
	return s.Get(ctx, id)
}

// Get retrieves a resource by ID.
func (s *InventoryService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	if s.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	r, err := s.resources.Get(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "resource", id)
	}
	return r, nil
}

// List filters, sorts and paginates resources.
func (s *InventoryService) List(
	ctx context.Context,
	filter domain.ResourceFilter,
	sort domain.Sort,
	cursor string,
	pageSize int,
) (*domain.Page[domain.Resource], error) {
	if s.resources == nil {
		return nil, domain.ErrNotImplemented
	}
	size, err := resolvePageSize(pageSize, s.pageSize)
	if err != nil {
		return nil, err
	}

	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	matched := listing.Filter(resources, listing.ResourcePredicates(filter)...)
	return listing.Paginate(matched, sort, cursor, size)
}

// Export returns a read-only snapshot of every resource and mapping group.
func (s *InventoryService) Export(ctx context.Context) (*domain.Export, error) {
	if s.resources == nil || s.mappings == nil {
		return nil, domain.ErrNotImplemented
	}

	resources := []domain.Resource{}
	after := ""
	for {
		batch, err := s.resources.ListAfter(ctx, after, exportBatchSize)
		if err != nil {
			return nil, fmt.Errorf("list resources: %w", err)
		}
		resources = append(resources, batch...)
		if len(batch) < exportBatchSize {
			break
		}
		after = batch[len(batch)-1].ID
	}

	mappings, err := s.mappings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	if mappings == nil {
		mappings = []domain.MappingGroup{}
	}

	return &domain.Export{
		Resources:  resources,
		Mappings:   mappings,
		Snapshot:   domain.NewCategorySnapshot(resources),
		ExportedAt: s.now(),
	}, nil
}
