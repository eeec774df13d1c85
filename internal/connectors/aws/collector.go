package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/shiftmap/internal/connectors"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/listing"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
	"github.com/custodia-labs/shiftmap/internal/logger"
)

// Resource type tags produced by this collector.
const (
	TypeInstance = "ec2-instance"
	TypeVolume   = "ebs-volume"
)

// EC2API is the subset of the EC2 client the collector uses.
type EC2API interface {
	ec2.DescribeInstancesAPIClient
	ec2.DescribeVolumesAPIClient
}

// Ensure Collector implements the interface.
var _ driven.Collector = (*Collector)(nil)

// Collector discovers EC2 instances and EBS volumes.
type Collector struct {
	regions  []string
	clients  map[string]EC2API
	limiters map[string]*connectors.RateLimiter
}

// New creates a collector for the given regions using the default AWS
// credential chain. An empty regions list uses the SDK's default region.
func New(ctx context.Context, regions []string) (*Collector, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	if len(regions) == 0 {
		if cfg.Region == "" {
			return nil, ErrNoRegion
		}
		regions = []string{cfg.Region}
	}

	clients := make(map[string]EC2API, len(regions))
	for _, region := range regions {
		clients[region] = ec2.NewFromConfig(cfg, func(o *ec2.Options) {
			o.Region = region
		})
	}
	return NewWithClients(clients, connectors.DefaultRateLimit), nil
}

// NewWithClients creates a collector over prebuilt per-region clients.
func NewWithClients(clients map[string]EC2API, limit connectors.RateLimitConfig) *Collector {
	regions := make([]string, 0, len(clients))
	limiters := make(map[string]*connectors.RateLimiter, len(clients))
	for region := range clients {
		regions = append(regions, region)
		limiters[region] = connectors.NewRateLimiter(limit)
	}
	sort.Strings(regions)

	return &Collector{
		regions:  regions,
		clients:  clients,
		limiters: limiters,
	}
}

// Name returns "aws".
func (c *Collector) Name() string {
	return "aws"
}

// Regions returns the collected regions in order.
func (c *Collector) Regions() []string {
	return append([]string(nil), c.regions...)
}

// ListResources collects every region concurrently. Results are ordered by
// region and then by discovery order. Any region failing fails the listing.
func (c *Collector) ListResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	perRegion := make([][]domain.Resource, len(c.regions))

	g, gctx := errgroup.WithContext(ctx)
	for i, region := range c.regions {
		if regionFiltered(filter.Region, region) {
			continue
		}
		g.Go(func() error {
			resources, err := c.collectRegion(gctx, region)
			if err != nil {
				return err
			}
			perRegion[i] = resources
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Resource
	for _, resources := range perRegion {
		all = append(all, resources...)
	}
	return listing.Filter(all, listing.ResourcePredicates(filter)...), nil
}

// ResourceByID looks an instance ("i-") or volume ("vol-") up in each region.
func (c *Collector) ResourceByID(ctx context.Context, id string) (*domain.Resource, error) {
	for _, region := range c.regions {
		var (
			r   *domain.Resource
			err error
		)
		switch {
		case strings.HasPrefix(id, "i-"):
			r, err = c.instanceByID(ctx, region, id)
		case strings.HasPrefix(id, "vol-"):
			r, err = c.volumeByID(ctx, region, id)
		default:
			return nil, domain.ErrNotFound
		}
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return nil, domain.ErrNotFound
}

func (c *Collector) collectRegion(ctx context.Context, region string) ([]domain.Resource, error) {
	instances, err := c.listInstances(ctx, region, &ec2.DescribeInstancesInput{})
	if err != nil {
		return nil, err
	}
	volumes, err := c.listVolumes(ctx, region, &ec2.DescribeVolumesInput{})
	if err != nil {
		return nil, err
	}
	logger.Debug("aws %s: %d instances, %d volumes", region, len(instances), len(volumes))
	return append(instances, volumes...), nil
}

func (c *Collector) listInstances(ctx context.Context, region string, input *ec2.DescribeInstancesInput) ([]domain.Resource, error) {
	var resources []domain.Resource
	p := ec2.NewDescribeInstancesPaginator(c.clients[region], input)
	for p.HasMorePages() {
		if err := c.limiters[region].Wait(ctx); err != nil {
			return nil, err
		}
		page, err := p.NextPage(ctx)
		if err != nil {
			c.recordThrottle(region, err)
			return nil, WrapError(region, err)
		}
		for _, reservation := range page.Reservations {
			for i := range reservation.Instances {
				inst := &reservation.Instances[i]
				if inst.State != nil && inst.State.Name == types.InstanceStateNameTerminated {
					continue
				}
				resources = append(resources, instanceResource(region, inst))
			}
		}
	}
	return resources, nil
}

func (c *Collector) listVolumes(ctx context.Context, region string, input *ec2.DescribeVolumesInput) ([]domain.Resource, error) {
	var resources []domain.Resource
	p := ec2.NewDescribeVolumesPaginator(c.clients[region], input)
	for p.HasMorePages() {
		if err := c.limiters[region].Wait(ctx); err != nil {
			return nil, err
		}
		page, err := p.NextPage(ctx)
		if err != nil {
			c.recordThrottle(region, err)
			return nil, WrapError(region, err)
		}
		for i := range page.Volumes {
			resources = append(resources, volumeResource(region, &page.Volumes[i]))
		}
	}
	return resources, nil
}

func (c *Collector) instanceByID(ctx context.Context, region, id string) (*domain.Resource, error) {
	resources, err := c.listInstances(ctx, region, &ec2.DescribeInstancesInput{InstanceIds: []string{id}})
	if err != nil {
		return nil, err
	}
	return first(resources, id)
}

func (c *Collector) volumeByID(ctx context.Context, region, id string) (*domain.Resource, error) {
	resources, err := c.listVolumes(ctx, region, &ec2.DescribeVolumesInput{VolumeIds: []string{id}})
	if err != nil {
		return nil, err
	}
	return first(resources, id)
}

func (c *Collector) recordThrottle(region string, err error) {
	if IsThrottled(err) {
		logger.Warn("aws %s: throttled, backing off", region)
		c.limiters[region].RecordThrottle(0)
	}
}

// regionFiltered reports whether a region filter excludes region.
func regionFiltered(filter, region string) bool {
	return filter != "" && filter != domain.FilterAll && filter != region
}

func first(resources []domain.Resource, id string) (*domain.Resource, error) {
	for i := range resources {
		if resources[i].ID == id {
			return &resources[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func instanceResource(region string, inst *types.Instance) domain.Resource {
	tags := tagMap(inst.Tags)
	return domain.Resource{
		ID:     awsv2.ToString(inst.InstanceId),
		Type:   TypeInstance,
		Region: region,
		Name:   tags["Name"],
		Tags:   tags,
	}
}

func volumeResource(region string, vol *types.Volume) domain.Resource {
	tags := tagMap(vol.Tags)
	return domain.Resource{
		ID:     awsv2.ToString(vol.VolumeId),
		Type:   TypeVolume,
		Region: region,
		Name:   tags["Name"],
		Tags:   tags,
	}
}

func tagMap(tags []types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[awsv2.ToString(t.Key)] = awsv2.ToString(t.Value)
	}
	return m
}
