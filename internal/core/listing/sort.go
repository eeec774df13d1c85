package listing

import (
	"sort"
	"strings"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// keyed pairs an item with its precomputed sort key.
type keyed[T domain.Sortable] struct {
	item T
	key  string
	id   string
}

// Sort returns a sorted copy of items. Ties on the sort key are broken by
// ascending identity regardless of order, so the result is deterministic.
func Sort[T domain.Sortable](items []T, s domain.Sort) ([]T, error) {
	ks, err := sortKeyed(items, s)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(ks))
	for i := range ks {
		out[i] = ks[i].item
	}
	return out, nil
}

func sortKeyed[T domain.Sortable](items []T, s domain.Sort) ([]keyed[T], error) {
	if !s.Order.IsValid() {
		return nil, domain.NewValidationError("unknown sort order %q", s.Order)
	}
	ks := make([]keyed[T], len(items))
	for i, item := range items {
		key, err := item.SortKey(s.Field)
		if err != nil {
			return nil, err
		}
		ks[i] = keyed[T]{item: item, key: key, id: item.Identity()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return compare(ks[i].key, ks[i].id, ks[j].key, ks[j].id, s.Order) < 0
	})
	return ks, nil
}

// compare orders (key, id) pairs: key by the requested order, id ascending.
func compare(aKey, aID, bKey, bID string, order domain.SortOrder) int {
	c := strings.Compare(aKey, bKey)
	if order == domain.SortDesc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}
