package state

import "github.com/angelmondragon/gs-storefront/pkg/types"

func cloneOrEmpty[T any](items []T, clone func(T) T) []T {
	dup := make([]T, len(items))
	for i, item := range items {
		dup[i] = clone(item)
	}
	return dup
}

// prepend puts record first. Any record already holding the same id is dropped so a
// collection never carries two copies of one record.
func prepend[T any](items []T, record T, idOf func(T) string) []T {
	id := idOf(record)
	next := make([]T, 0, len(items)+1)
	next = append(next, record)
	for _, item := range items {
		if idOf(item) != id {
			next = append(next, item)
		}
	}
	return next
}

// replace swaps the record with the given id in place. Absent ids leave items unchanged.
func replace[T any](items []T, id string, record T, idOf func(T) string) []T {
	next := make([]T, len(items))
	copy(next, items)
	for i := range next {
		if idOf(next[i]) == id {
			next[i] = record
		}
	}
	return next
}

func remove[T any](items []T, id string, idOf func(T) string) []T {
	next := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			next = append(next, item)
		}
	}
	return next
}

func find[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func productID(p types.Product) string  { return p.ID }
func orderID(o types.Order) string      { return o.ID }
func userID(u types.UserAccount) string { return u.ID }
