package enums

import "fmt"

// PhoneStatus is the lifecycle state of a catalog phone.
type PhoneStatus string

const (
	PhoneStatusDraft        PhoneStatus = "draft"
	PhoneStatusActive       PhoneStatus = "active"
	PhoneStatusUpcoming     PhoneStatus = "upcoming"
	PhoneStatusDiscontinued PhoneStatus = "discontinued"
)

var validPhoneStatuses = []PhoneStatus{
	PhoneStatusDraft,
	PhoneStatusActive,
	PhoneStatusUpcoming,
	PhoneStatusDiscontinued,
}

// String returns the literal value.
func (p PhoneStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PhoneStatus.
func (p PhoneStatus) IsValid() bool {
	for _, candidate := range validPhoneStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePhoneStatus converts raw input into a PhoneStatus.
func ParsePhoneStatus(value string) (PhoneStatus, error) {
	for _, candidate := range validPhoneStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid phone status %q", value)
}

// IsPublic reports whether phones in this state appear on public read paths
// without an explicit status filter.
func (p PhoneStatus) IsPublic() bool {
	return p != PhoneStatusDraft
}
