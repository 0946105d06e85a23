package security

import "time"

// Test signing secrets for unit tests only. Do not use in production.
const (
	testAccessSecret  = "unit-test-access-secret-0123456789"
	testRefreshSecret = "unit-test-refresh-secret-987654321"
)

// NewTestTokenCodec returns a TokenCodec using embedded test secrets and the
// operational default TTLs. For unit tests only.
func NewTestTokenCodec() (*TokenCodec, error) {
	return NewTokenCodec(testAccessSecret, testRefreshSecret, "test-issuer", 15*time.Minute, 168*time.Hour)
}
