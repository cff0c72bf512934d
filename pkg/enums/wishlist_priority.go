package enums

import "fmt"

// WishlistPriority orders saved phones on a wishlist.
type WishlistPriority string

const (
	WishlistPriorityLow    WishlistPriority = "low"
	WishlistPriorityMedium WishlistPriority = "medium"
	WishlistPriorityHigh   WishlistPriority = "high"
)

var validWishlistPriorities = []WishlistPriority{
	WishlistPriorityLow,
	WishlistPriorityMedium,
	WishlistPriorityHigh,
}

// String returns the literal value.
func (w WishlistPriority) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WishlistPriority.
func (w WishlistPriority) IsValid() bool {
	for _, candidate := range validWishlistPriorities {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWishlistPriority converts raw input into a WishlistPriority.
func ParseWishlistPriority(value string) (WishlistPriority, error) {
	for _, candidate := range validWishlistPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wishlist priority %q", value)
}

// Rank orders priorities high first.
func (w WishlistPriority) Rank() int {
	switch w {
	case WishlistPriorityHigh:
		return 0
	case WishlistPriorityMedium:
		return 1
	default:
		return 2
	}
}
