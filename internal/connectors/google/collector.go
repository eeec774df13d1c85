package google

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/shiftmap/internal/connectors"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/listing"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// TypeInstance is the resource type tag for Compute Engine instances.
const TypeInstance = "gce-instance"

// Ensure Collector implements the interface.
var _ driven.Collector = (*Collector)(nil)

// Collector discovers Compute Engine instances across every zone of a project.
type Collector struct {
	project string
	svc     *compute.Service
	limiter *connectors.RateLimiter
}

// NewCollector creates a collector for project using svc.
func NewCollector(project string, svc *compute.Service) *Collector {
	return &Collector{
		project: project,
		svc:     svc,
		limiter: connectors.NewRateLimiter(connectors.DefaultRateLimit),
	}
}

// New creates a collector with credentials resolved by NewTokenSource.
func New(ctx context.Context, project, credentialsFile string) (*Collector, error) {
	if project == "" {
		return nil, ErrNoProject
	}
	ts, err := NewTokenSource(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	svc, err := compute.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating compute service: %w", err)
	}
	return NewCollector(project, svc), nil
}

// Name returns "gcp".
func (c *Collector) Name() string {
	return "gcp"
}

// ListResources returns every instance matching the filter, ordered by zone.
func (c *Collector) ListResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	resources, err := c.aggregated(ctx, "")
	if err != nil {
		return nil, err
	}
	return listing.Filter(resources, listing.ResourcePredicates(filter)...), nil
}

// ResourceByID returns the instance with the given numeric ID.
func (c *Collector) ResourceByID(ctx context.Context, id string) (*domain.Resource, error) {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return nil, domain.ErrNotFound
	}
	resources, err := c.aggregated(ctx, "id = "+id)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		if resources[i].ID == id {
			return &resources[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// aggregated pages through the aggregated instance list.
func (c *Collector) aggregated(ctx context.Context, filter string) ([]domain.Resource, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	call := c.svc.Instances.AggregatedList(c.project).Context(ctx)
	if filter != "" {
		call = call.Filter(filter)
	}

	var resources []domain.Resource
	err := call.Pages(ctx, func(page *compute.InstanceAggregatedList) error {
		for _, scope := range sortedScopes(page.Items) {
			for _, inst := range page.Items[scope].Instances {
				resources = append(resources, instanceResource(inst))
			}
		}
		return c.limiter.Wait(ctx)
	})
	if err != nil {
		if wait, ok := throttled(err, time.Now()); ok {
			logger.Warn("gcp %s: quota exceeded, backing off", c.project)
			c.limiter.RecordThrottle(wait)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apiError(c.project, err)
	}

	logger.Debug("gcp %s: %d instances", c.project, len(resources))
	return resources, nil
}

func instanceResource(inst *compute.Instance) domain.Resource {
	var tags map[string]string
	if len(inst.Labels) > 0 {
		tags = make(map[string]string, len(inst.Labels))
		for k, v := range inst.Labels {
			tags[k] = v
		}
	}
	return domain.Resource{
		ID:     strconv.FormatUint(inst.Id, 10),
		Type:   TypeInstance,
		Region: regionFromZone(inst.Zone),
		Name:   inst.Name,
		Tags:   tags,
	}
}

// regionFromZone turns a zone URL or name such as ".../zones/us-central1-a"
// into its region "us-central1".
func regionFromZone(zone string) string {
	if zone == "" {
		return ""
	}
	zone = path.Base(zone)
	if i := strings.LastIndex(zone, "-"); i > 0 {
		return zone[:i]
	}
	return zone
}

func sortedScopes(items map[string]compute.InstancesScopedList) []string {
	scopes := make([]string, 0, len(items))
	for scope := range items {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	return scopes
}
