package memory

import (
	"cmp"
	"slices"
)

// page ordena por ID ascendente y aplica limit/offset.
func page[T any](items []T, id func(T) int64, limit, offset int) []T {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
