package enums

import "fmt"

// AnalyticsEventType is the event_type attribute on published analytics messages.
type AnalyticsEventType string

const (
	AnalyticsEventPhoneViewed     AnalyticsEventType = "phone.viewed"
	AnalyticsEventSearchPerformed AnalyticsEventType = "search.performed"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventPhoneViewed,
	AnalyticsEventSearchPerformed,
}

// String returns the literal value.
func (a AnalyticsEventType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AnalyticsEventType.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts raw input into a AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
