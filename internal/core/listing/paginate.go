package listing

import (
	"sort"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

// Paginate sorts items and returns the page following cursor.
//
// The cursor records the last-seen (sort key, identity) rather than an
// offset, so items appended between calls never cause repeats or gaps in
// pages already handed out. Deleting already-returned items is not guarded.
func Paginate[T domain.Sortable](items []T, s domain.Sort, cursor string, pageSize int) (*domain.Page[T], error) {
	if pageSize <= 0 {
		return nil, domain.NewValidationError("page size must be positive, got %d", pageSize)
	}

	pos, err := DecodeCursor(cursor, s)
	if err != nil {
		return nil, err
	}

	ks, err := sortKeyed(items, s)
	if err != nil {
		return nil, err
	}

	start := 0
	if pos != nil {
		start = sort.Search(len(ks), func(i int) bool {
			return compare(ks[i].key, ks[i].id, pos.Key, pos.ID, s.Order) > 0
		})
	}
	end := min(start+pageSize, len(ks))

	page := &domain.Page[T]{
		Items: make([]T, 0, end-start),
		Total: len(ks),
	}
	for i := start; i < end; i++ {
		page.Items = append(page.Items, ks[i].item)
	}

	if end < len(ks) {
		last := ks[end-1]
		page.NextCursor = (&Cursor{
			Version: cursorVersion,
			Field:   normField(s.Field),
			Order:   normOrder(s.Order),
			Key:     last.key,
			ID:      last.id,
		}).Encode()
	}

	return page, nil
}
