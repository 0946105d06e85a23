package domain

import (
	"errors"
	"time"
)

// User is the core user entity. PasswordHash is a bcrypt hash; the plaintext
// password is never stored or logged. Email and Phone are optional; empty
// means not provided, and uniqueness applies only to present values.
type User struct {
	ID              string
	Username        string
	Email           string
	Phone           string
	PasswordHash    string
	Avatar          string
	Role            Role
	Status          Status
	LastLoginAt     *time.Time
	AgreedToTerms   bool
	TermsAcceptedAt *time.Time
	TermsVersion    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Role string

const (
	RoleRequester Role = "requester"
	RoleProvider  Role = "provider"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleRequester, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.Role == "" {
		u.Role = RoleRequester
	}
	if !ValidRole(u.Role) {
		return errors.New("unknown role")
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	return nil
}
