package service

import (
	"regexp"

	apperrors "user-auth-service/internal/errors"
	userdomain "user-auth-service/internal/user/domain"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Mainland-CN mobile number: 11 digits, 1 then 3-9.
	phoneRe = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

// ValidateRegistration checks the registration payload and returns a
// field-scoped validation error for the first failure. Email and phone are
// optional; their formats are checked only when provided.
func ValidateRegistration(in RegisterInput) error {
	if n := len(in.Username); n < 3 || n > 50 {
		return apperrors.ValidationField("username", "username must be 3-50 characters")
	}
	if len(in.Password) < 6 {
		return apperrors.ValidationField("password", "password must be at least 6 characters")
	}
	if in.Email != "" && !emailRe.MatchString(in.Email) {
		return apperrors.ValidationField("email", "invalid email format")
	}
	if in.Phone != "" && !phoneRe.MatchString(in.Phone) {
		return apperrors.ValidationField("phone", "invalid phone number")
	}
	if in.Role != "" && !userdomain.ValidRole(userdomain.Role(in.Role)) {
		return apperrors.ValidationField("role", "unknown role")
	}
	return nil
}
