package enums

import "fmt"

// RequestStatus tracks the lifecycle of a procurement request.
type RequestStatus string

const (
	RequestStatusOpen       RequestStatus = "Open"
	RequestStatusInProgress RequestStatus = "In Progress"
	RequestStatusClosed     RequestStatus = "Closed"
)

var validRequestStatuses = []RequestStatus{
	RequestStatusOpen,
	RequestStatusInProgress,
	RequestStatusClosed,
}

// RequestStatuses returns every status in display order.
func RequestStatuses() []RequestStatus {
	out := make([]RequestStatus, len(validRequestStatuses))
	copy(out, validRequestStatuses)
	return out
}

// String implements fmt.Stringer.
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestStatus.
func (s RequestStatus) IsValid() bool {
	for _, candidate := range validRequestStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRequestStatus converts raw input into a RequestStatus. Matching is exact.
func ParseRequestStatus(value string) (RequestStatus, error) {
	for _, candidate := range validRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request status %q", value)
}
