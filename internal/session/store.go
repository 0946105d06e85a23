// Package session persists the single-active-session records and the token
// blacklist. At most one access and one refresh token are current per user;
// writing a new record supersedes the previous one.
package session

import (
	"context"
	"time"

	"user-auth-service/internal/security"
)

// Key layout. One record per (user, kind); blacklist entries keyed by the
// raw token value.
const (
	accessKeySuffix  = ":accessToken"
	refreshKeySuffix = ":refreshToken"
	blacklistPrefix  = "blacklist:"
	userKeyPrefix    = "user:"

	// blacklistValue marks a revoked token. The value is never read; presence
	// of the key is the signal.
	blacklistValue = "invalid"
)

// Store records the currently-active token per (user, kind) and the set of
// revoked-but-unexpired tokens. Implementations expire entries on their own;
// callers never see stale records.
type Store interface {
	// SetToken records token as the single active token of the given kind for
	// userID, replacing any previous record. The record expires after ttl.
	SetToken(ctx context.Context, userID string, kind security.TokenKind, token string, ttl time.Duration) error
	// GetToken returns the active token of the given kind for userID, or ""
	// when no record exists (never stored, expired, or deleted).
	GetToken(ctx context.Context, userID string, kind security.TokenKind) (string, error)
	// DeleteTokens removes both the access and refresh records for userID.
	// Deleting absent records is not an error.
	DeleteTokens(ctx context.Context, userID string) error
	// Blacklist marks token revoked until expiresAt, after which the token is
	// rejected by signature verification anyway. A token already past expiry
	// is not recorded.
	Blacklist(ctx context.Context, token string, expiresAt time.Time) error
	// IsBlacklisted reports whether token has been revoked and has not yet
	// reached its natural expiry.
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

func sessionKey(userID string, kind security.TokenKind) string {
	if kind == security.TokenKindRefresh {
		return userKeyPrefix + userID + refreshKeySuffix
	}
	return userKeyPrefix + userID + accessKeySuffix
}

func blacklistKey(token string) string {
	return blacklistPrefix + token
}

// remainingLifetime is the single place the blacklist TTL is derived from a
// token's expiry. A non-positive result means the token is already expired
// and needs no blacklist entry.
func remainingLifetime(expiresAt, now time.Time) time.Duration {
	return expiresAt.Sub(now)
}
