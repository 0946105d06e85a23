package domain

import "time"

// AuditLog is one authentication audit event. UserID may be empty for events
// with no resolved user (e.g. a failed login for an unknown identifier).
type AuditLog struct {
	ID        string
	UserID    string
	Event     string
	Outcome   string
	ClientIP  string
	Detail    string
	CreatedAt time.Time
}

// Event names written by the auth flows.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"
	EventRefresh  = "refresh"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
