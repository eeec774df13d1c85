package connectors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
)

// Ensure Multi implements the interface.
var _ driven.Collector = (*Multi)(nil)

// Multi merges several collectors. Resources are de-duplicated by ID with
// the first collector to report an ID winning.
type Multi struct {
	collectors []driven.Collector
}

// NewMulti creates a collector over the given collectors, queried in order.
func NewMulti(collectors ...driven.Collector) *Multi {
	return &Multi{collectors: collectors}
}

// Name joins the names of the merged collectors.
func (m *Multi) Name() string {
	names := make([]string, len(m.collectors))
	for i, c := range m.collectors {
		names[i] = c.Name()
	}
	return strings.Join(names, "+")
}

// ListResources queries every collector and merges the results.
// Any collector failing fails the whole listing.
func (m *Multi) ListResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	seen := make(map[string]bool)
	var merged []domain.Resource
	for _, c := range m.collectors {
		resources, err := c.ListResources(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name(), err)
		}
		for _, r := range resources {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			merged = append(merged, r)
		}
	}
	return merged, nil
}

// ResourceByID asks each collector in turn until one knows the ID.
func (m *Multi) ResourceByID(ctx context.Context, id string) (*domain.Resource, error) {
	for _, c := range m.collectors {
		r, err := c.ResourceByID(ctx, id)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	return nil, domain.ErrNotFound
}
