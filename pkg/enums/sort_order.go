package enums

import "fmt"

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

var validSortOrders = []SortOrder{
	SortOrderAsc,
	SortOrderDesc,
}

// String returns the literal value.
func (s SortOrder) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortOrder.
func (s SortOrder) IsValid() bool {
	for _, candidate := range validSortOrders {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortOrder converts raw input into a SortOrder.
func ParseSortOrder(value string) (SortOrder, error) {
	for _, candidate := range validSortOrders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
