package listing

import (
	"strings"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// Predicate reports whether an item should be kept.
type Predicate[T any] func(T) bool

// Resolver looks up a resource referenced by a mapping group.
type Resolver func(id string) (domain.Resource, bool)

// Filter returns the items matching every predicate, in input order.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchAll(item, preds) {
			out = append(out, item)
		}
	}
	return out
}

func matchAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

// ResourcePredicates builds the conjunctive predicate set for a resource filter.
func ResourcePredicates(f domain.ResourceFilter) []Predicate[domain.Resource] {
	var preds []Predicate[domain.Resource]
	if q := searchTerm(f.Search); q != "" {
		preds = append(preds, func(r domain.Resource) bool {
			return resourceMatches(r, q) || containsFold(r.CategoryNotes, q)
		})
	}
	if active(f.Type) {
		preds = append(preds, func(r domain.Resource) bool { return r.Type == f.Type })
	}
	if active(f.Region) {
		preds = append(preds, func(r domain.Resource) bool { return r.Region == f.Region })
	}
	if active(f.Category) {
		preds = append(preds, func(r domain.Resource) bool { return string(r.Category) == f.Category })
	}
	return preds
}

// MappingPredicates builds the conjunctive predicate set for a mapping filter.
// resolve is used to search and region-filter over member resources; a nil
// resolver restricts matching to member ids.
func MappingPredicates(f domain.MappingFilter, resolve Resolver) []Predicate[domain.MappingGroup] {
	if resolve == nil {
		resolve = func(string) (domain.Resource, bool) { return domain.Resource{}, false }
	}

	var preds []Predicate[domain.MappingGroup]
	if q := searchTerm(f.Search); q != "" {
		preds = append(preds, func(g domain.MappingGroup) bool {
			if containsFold(g.ID, q) || containsFold(g.Notes, q) || containsFold(string(g.Type), q) {
				return true
			}
			for _, id := range g.ResourceIDs() {
				if containsFold(id, q) {
					return true
				}
				if r, ok := resolve(id); ok && resourceMatches(r, q) {
					return true
				}
			}
			return false
		})
	}
	if active(f.Type) {
		preds = append(preds, func(g domain.MappingGroup) bool { return string(g.Type) == f.Type })
	}
	if active(f.Status) {
		preds = append(preds, func(g domain.MappingGroup) bool { return string(g.Status) == f.Status })
	}
	if active(f.Direction) {
		preds = append(preds, func(g domain.MappingGroup) bool { return string(g.Direction) == f.Direction })
	}
	if active(f.Region) {
		preds = append(preds, func(g domain.MappingGroup) bool {
			for _, id := range g.ResourceIDs() {
				if r, ok := resolve(id); ok && r.Region == f.Region {
					return true
				}
			}
			return false
		})
	}
	return preds
}

func resourceMatches(r domain.Resource, q string) bool {
	return containsFold(r.Name, q) || containsFold(r.ID, q) || containsFold(r.Type, q)
}

// active reports whether an exact-match filter value constrains anything.
func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, domain.FilterAll)
}

// searchTerm normalises a free-text query. Empty means no search.
func searchTerm(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// containsFold is a case-insensitive substring match; q must already be lower case.
func containsFold(s, q string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), q)
}
