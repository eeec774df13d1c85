package domain

import (
	"fmt"
	"time"
)

// Category classifies a resource as legacy, modern or not yet decided.
type Category string

// Available categories.
const (
	// CategoryOld marks legacy infrastructure due to be replaced.
	CategoryOld Category = "old"

	// CategoryNew marks modern infrastructure that replaces legacy items.
	CategoryNew Category = "new"

	// CategoryUncategorized is the initial category of every discovered resource.
	CategoryUncategorized Category = "uncategorized"
)

// IsValid returns true if the category is recognised.
func (c Category) IsValid() bool {
	switch c {
	case CategoryOld, CategoryNew, CategoryUncategorized:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory validates and converts a raw value into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", NewValidationError("unknown category %q (want old, new or uncategorized)", s)
	}
	return c, nil
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{CategoryOld, CategoryNew, CategoryUncategorized}
}

// Resource is a discovered infrastructure item.
// Collectors own every field except the category and its audit trail.
type Resource struct {
	// ID is the opaque unique identifier (e.g. "i-0abc123").
	ID string `json:"resourceId" toml:"id"`

	// Type is the resource type tag (e.g. "ec2-instance").
	Type string `json:"resourceType" toml:"type"`

	// Region is where the resource lives.
	Region string `json:"region" toml:"region"`

	// Name is the optional human-readable name.
	Name string `json:"name,omitempty" toml:"name"`

	// Category is the operator's classification.
	Category Category `json:"category" toml:"category"`

	// Tags holds provider tags or labels.
	Tags map[string]string `json:"tags,omitempty" toml:"tags"`

	// LastSeenAt is when a collector last reported the resource.
	LastSeenAt time.Time `json:"lastSeenAt" toml:"last_seen_at"`

	// CategorizedAt is the audit timestamp of the last category change.
	CategorizedAt time.Time `json:"categorizedAt,omitzero" toml:"-"`

	// CategoryNotes is the operator note recorded with the last category change.
	CategoryNotes string `json:"categoryNotes,omitempty" toml:"-"`
}

// DisplayName returns the name, falling back to the ID.
func (r *Resource) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Identity returns the identity used to break sort ties.
func (r Resource) Identity() string {
	return r.ID
}

// SortKey returns an order-preserving string key for the given field.
func (r Resource) SortKey(field SortField) (string, error) {
	switch field {
	case SortByID, "":
		return r.ID, nil
	case SortByName:
		return r.DisplayName(), nil
	case SortByType:
		return r.Type, nil
	case SortByRegion:
		return r.Region, nil
	case SortByCategory:
		return string(r.Category), nil
	case SortByLastSeen:
		return timeKey(r.LastSeenAt), nil
	default:
		return "", NewValidationError("cannot sort resources by %q", field)
	}
}

// CategorySnapshot counts resources per category.
// It is derived on demand and never persisted.
type CategorySnapshot struct {
	Old           int `json:"old"`
	New           int `json:"new"`
	Uncategorized int `json:"uncategorized"`
}

// Total returns the number of resources counted.
func (s CategorySnapshot) Total() int {
	return s.Old + s.New + s.Uncategorized
}

// Progress returns the share of resources that have been classified, in percent.
func (s CategorySnapshot) Progress() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Old+s.New) * 100 / float64(s.Total())
}

// NewCategorySnapshot counts the categories of the given resources.
func NewCategorySnapshot(resources []Resource) CategorySnapshot {
	var s CategorySnapshot
	for i := range resources {
		switch resources[i].Category {
		case CategoryOld:
			s.Old++
		case CategoryNew:
			s.New++
		default:
			s.Uncategorized++
		}
	}
	return s
}

// String returns a compact summary of the snapshot.
func (s CategorySnapshot) String() string {
	return fmt.Sprintf("old=%d new=%d uncategorized=%d", s.Old, s.New, s.Uncategorized)
}
