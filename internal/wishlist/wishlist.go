// Package wishlist keeps the set of products a shopper has saved for later.
package wishlist

import "slices"

// Wishlist is an ordered set of product ids.
type Wishlist []string

// Toggle removes id when present and appends it otherwise. It reports
// whether id is in the returned list. w is not modified.
func Toggle(w Wishlist, id string) (Wishlist, bool) {
	if i := slices.Index(w, id); i >= 0 {
		return slices.Delete(slices.Clone(w), i, i+1), false
	}
	out := make(Wishlist, len(w), len(w)+1)
	copy(out, w)
	return append(out, id), true
}

// Contains reports whether id is saved.
func (w Wishlist) Contains(id string) bool {
	return slices.Contains(w, id)
}

// Len returns the number of saved products.
func (w Wishlist) Len() int {
	return len(w)
}
