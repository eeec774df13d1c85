package domain

import (
	"fmt"
	"time"
)

// FilterAll is the sentinel filter value that matches everything.
const FilterAll = "all"

// SortField names a sortable attribute.
type SortField string

// Sortable fields. Not every field applies to every collection.
const (
	SortByID         SortField = "id"
	SortByName       SortField = "name"
	SortByType       SortField = "type"
	SortByRegion     SortField = "region"
	SortByCategory   SortField = "category"
	SortByLastSeen   SortField = "last_seen"
	SortByCreated    SortField = "created"
	SortByUpdated    SortField = "updated"
	SortByStatus     SortField = "status"
	SortByConfidence SortField = "confidence"
)

// SortOrder is ascending or descending.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid returns true if the order is recognised. Empty means ascending.
func (o SortOrder) IsValid() bool {
	return o == "" || o == SortAsc || o == SortDesc
}

// Sort selects the field and direction of a listing.
type Sort struct {
	Field SortField
	Order SortOrder
}

// ResourceFilter holds conjunctive resource filters. Empty or "all" values are no-ops.
type ResourceFilter struct {
	Search   string
	Type     string
	Region   string
	Category string
}

// MappingFilter holds conjunctive mapping group filters. Empty or "all" values are no-ops.
type MappingFilter struct {
	Search    string
	Type      string
	Region    string
	Status    string
	Direction string
}

// Page is one slice of a cursor-paginated listing.
type Page[T any] struct {
	Items []T `json:"items"`

	// NextCursor resumes after the last item. Empty when the listing is exhausted.
	NextCursor string `json:"nextCursor,omitempty"`

	// Total is the number of items matching the filters.
	Total int `json:"total"`
}

// Sortable is implemented by every entity the listing engine can order.
type Sortable interface {
	Identity() string
	SortKey(field SortField) (string, error)
}

// timeKey renders a time so that lexical order equals chronological order.
func timeKey(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

func padScore(v int) string {
	return fmt.Sprintf("%03d", v)
}
