package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/listing"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
)

// Ensure Collector implements the interface.
var _ driven.Collector = (*Collector)(nil)

// Collector reads resources from an inventory file on every call.
type Collector struct {
	path string
}

// New creates a collector for the inventory file at path.
func New(path string) *Collector {
	return &Collector{path: path}
}

// Name returns "file".
func (c *Collector) Name() string {
	return "file"
}

// Path returns the inventory file path.
func (c *Collector) Path() string {
	return c.path
}

// ListResources returns every resource in the file matching the filter, in file order.
func (c *Collector) ListResources(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resources, err := c.load()
	if err != nil {
		return nil, err
	}
	return listing.Filter(resources, listing.ResourcePredicates(filter)...), nil
}

// ResourceByID returns the resource with the given ID.
func (c *Collector) ResourceByID(ctx context.Context, id string) (*domain.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resources, err := c.load()
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

// inventoryFile is the document layout for TOML and object-form JSON files.
type inventoryFile struct {
	Resources []domain.Resource `json:"resources" toml:"resources"`
}

// load parses the inventory file. Categories in the file are ignored.
func (c *Collector) load() ([]domain.Resource, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("inventory file %s does not exist: %w", c.path, err)
		}
		return nil, fmt.Errorf("reading inventory file: %w", err)
	}

	var resources []domain.Resource
	switch strings.ToLower(filepath.Ext(c.path)) {
	case ".toml":
		var doc inventoryFile
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing inventory file %s: %w", c.path, err)
		}
		resources = doc.Resources
	default:
		resources, err = decodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing inventory file %s: %w", c.path, err)
		}
	}

	seen := make(map[string]bool, len(resources))
	for i := range resources {
		r := &resources[i]
		if r.ID != "" && seen[r.ID] {
			return nil, fmt.Errorf("inventory file %s: duplicate resource id %q", c.path, r.ID)
		}
		seen[r.ID] = true
		r.Category = ""
		r.CategorizedAt = time.Time{}
		r.CategoryNotes = ""
	}
	return resources, nil
}

func decodeJSON(data []byte) ([]domain.Resource, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var resources []domain.Resource
		if err := json.Unmarshal(trimmed, &resources); err != nil {
			return nil, err
		}
		return resources, nil
	}
	var doc inventoryFile
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return doc.Resources, nil
}
