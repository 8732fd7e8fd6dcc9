package movie

import (
	"sort"
	"strings"
)

// ListOrder is the default ordering applied to a user's movie list.
type ListOrder string

const (
	OrderWatchedDesc ListOrder = "watched_desc"
	OrderCreatedDesc ListOrder = "created_desc"
	OrderCreatedAsc  ListOrder = "created_asc"
)

func ParseListOrder(s string) (ListOrder, error) {
	switch o := ListOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderWatchedDesc, nil
	case OrderWatchedDesc, OrderCreatedDesc, OrderCreatedAsc:
		return o, nil
	default:
		return "", ErrInvalidListOrder
	}
}

// Sort orders ms in place. Ties fall back to creation time, then id, so
// the order is stable across calls.
func Sort(ms []Movie, order ListOrder) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]

		switch order {
		case OrderCreatedAsc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case OrderCreatedDesc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		default:
			if !a.WatchedDate.Equal(b.WatchedDate.Time) {
				return a.WatchedDate.After(b.WatchedDate.Time)
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}

		return a.ID < b.ID
	})
}
