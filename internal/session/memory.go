package session

import (
	"context"
	"sync"
	"time"

	"user-auth-service/internal/security"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store for development and tests. Entries are
// expired lazily on read. Not for production: records do not survive restarts
// and are not shared across instances.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: time.Now().UTC,
	}
}

// SetToken records token as the active token for (userID, kind) with ttl.
func (s *MemoryStore) SetToken(ctx context.Context, userID string, kind security.TokenKind, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sessionKey(userID, kind)] = entry{value: token, expiresAt: s.nowF().Add(ttl)}
	return nil
}

// GetToken returns the active token for (userID, kind), or "" when absent or
// expired.
func (s *MemoryStore) GetToken(ctx context.Context, userID string, kind security.TokenKind) (string, error) {
	return s.get(sessionKey(userID, kind)), nil
}

// DeleteTokens removes both session records for userID.
func (s *MemoryStore) DeleteTokens(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, sessionKey(userID, security.TokenKindAccess))
	delete(s.m, sessionKey(userID, security.TokenKindRefresh))
	return nil
}

// Blacklist marks token revoked for its remaining lifetime; an already-expired
// token is skipped.
func (s *MemoryStore) Blacklist(ctx context.Context, token string, expiresAt time.Time) error {
	now := s.nowF()
	if remainingLifetime(expiresAt, now) <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[blacklistKey(token)] = entry{value: blacklistValue, expiresAt: expiresAt}
	return nil
}

// IsBlacklisted reports whether token is currently revoked.
func (s *MemoryStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.get(blacklistKey(token)) != "", nil
}

func (s *MemoryStore) get(key string) string {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return ""
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return ""
	}
	return e.value
}
