package models

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// ValidStatus reports whether s belongs to the closed status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Booking list filters, evaluated against "now" at call time.
const (
	FilterAll      = "ALL"
	FilterCurrent  = "CURRENT"
	FilterPast     = "PAST"
	FilterFuture   = "FUTURE"
	FilterWaiting  = "WAITING"
	FilterRejected = "REJECTED"
)

// ValidFilter reports whether f is a recognized booking list filter.
func ValidFilter(f string) bool {
	switch f {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return true
	}
	return false
}

const (
	// DefaultItemPageSize is the page size for item listings.
	DefaultItemPageSize = 10

	// DefaultBookingPageSize is the page size for booking and request listings.
	DefaultBookingPageSize = 20

	// HeaderUserID carries the acting user's identifier on every request.
	HeaderUserID = "X-Sharer-User-Id"

	// RateLimitRequests is the default per-user request budget per window.
	RateLimitRequests = 60

	// RateLimitWindow is the default rate limit window in seconds.
	RateLimitWindow = 60
)
