package session

import "reliefnet/internal/api"

// Fetch is one descriptor in a role-conditional fetch plan.
type Fetch int

const (
	FetchOwnReports Fetch = iota
	FetchAllReports
	FetchOwnResources
)

// String returns the descriptor name for logging.
func (f Fetch) String() string {
	switch f {
	case FetchOwnReports:
		return "own-reports"
	case FetchAllReports:
		return "all-reports"
	case FetchOwnResources:
		return "own-resources"
	}
	return "unknown"
}

// FetchPlan maps a resolved role to the ordered set of dashboard fetches.
// The mapping is pure: the branching lives here, not in view code. NGOs see
// the communal feed plus their own inventory; citizens see only their own
// reports. Plan entries are independent — one faulting must not block the
// others.
func FetchPlan(role api.Role) []Fetch {
	if role == api.RoleNGO {
		return []Fetch{FetchAllReports, FetchOwnResources}
	}
	return []Fetch{FetchOwnReports}
}

// ReportSource returns the report fetch for a role, the central ordering
// dependency of the dashboard: it cannot be known until the role is.
func ReportSource(role api.Role) Fetch {
	if role == api.RoleNGO {
		return FetchAllReports
	}
	return FetchOwnReports
}
