// Package sortutil provides the small generic ascending-sort helper the
// Pohlig-Hellman solver uses to keep its CRT congruences in canonical
// ascending order before combining them.
package sortutil

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// SortByKey sorts items in place in ascending order of key(item).
func SortByKey[T any, K constraints.Ordered](items []T, key func(T) K) {
	sort.Slice(items, func(i, j int) bool {
		return key(items[i]) < key(items[j])
	})
}
