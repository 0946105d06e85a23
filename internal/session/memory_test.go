package session

import (
	"context"
	"testing"
	"time"

	"user-auth-service/internal/security"
)

func newTestStore(t *testing.T) (*MemoryStore, *time.Time) {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.nowF = func() time.Time { return now }
	return s, &now
}

func TestSetGetToken(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if err := s.SetToken(ctx, "u1", security.TokenKindAccess, "tok-a", 15*time.Minute); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	got, err := s.GetToken(ctx, "u1", security.TokenKindAccess)
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if got != "tok-a" {
		t.Errorf("GetToken = %q, want %q", got, "tok-a")
	}
}

func TestGetToken_Absent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	got, err := s.GetToken(ctx, "nobody", security.TokenKindAccess)
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if got != "" {
		t.Errorf("GetToken = %q, want empty for absent record", got)
	}
}

func TestSetToken_Supersedes(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if err := s.SetToken(ctx, "u1", security.TokenKindAccess, "old", 15*time.Minute); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := s.SetToken(ctx, "u1", security.TokenKindAccess, "new", 15*time.Minute); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	got, _ := s.GetToken(ctx, "u1", security.TokenKindAccess)
	if got != "new" {
		t.Errorf("GetToken = %q, want the superseding token", got)
	}
}

func TestTokenKindsIndependent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.SetToken(ctx, "u1", security.TokenKindAccess, "tok-a", 15*time.Minute)
	s.SetToken(ctx, "u1", security.TokenKindRefresh, "tok-r", 168*time.Hour)

	if got, _ := s.GetToken(ctx, "u1", security.TokenKindAccess); got != "tok-a" {
		t.Errorf("access = %q, want %q", got, "tok-a")
	}
	if got, _ := s.GetToken(ctx, "u1", security.TokenKindRefresh); got != "tok-r" {
		t.Errorf("refresh = %q, want %q", got, "tok-r")
	}
}

func TestGetToken_Expired(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	s.SetToken(ctx, "u1", security.TokenKindAccess, "tok-a", 15*time.Minute)
	*now = now.Add(16 * time.Minute)

	if got, _ := s.GetToken(ctx, "u1", security.TokenKindAccess); got != "" {
		t.Errorf("GetToken = %q, want empty after expiry", got)
	}
}

func TestDeleteTokens(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.SetToken(ctx, "u1", security.TokenKindAccess, "tok-a", 15*time.Minute)
	s.SetToken(ctx, "u1", security.TokenKindRefresh, "tok-r", 168*time.Hour)
	s.SetToken(ctx, "u2", security.TokenKindAccess, "other", 15*time.Minute)

	if err := s.DeleteTokens(ctx, "u1"); err != nil {
		t.Fatalf("DeleteTokens: %v", err)
	}
	if got, _ := s.GetToken(ctx, "u1", security.TokenKindAccess); got != "" {
		t.Errorf("access = %q, want empty after delete", got)
	}
	if got, _ := s.GetToken(ctx, "u1", security.TokenKindRefresh); got != "" {
		t.Errorf("refresh = %q, want empty after delete", got)
	}
	if got, _ := s.GetToken(ctx, "u2", security.TokenKindAccess); got != "other" {
		t.Errorf("other user's record lost: got %q", got)
	}

	// Idempotent.
	if err := s.DeleteTokens(ctx, "u1"); err != nil {
		t.Fatalf("DeleteTokens (repeat): %v", err)
	}
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	if err := s.Blacklist(ctx, "tok-a", now.Add(10*time.Minute)); err != nil {
		t.Fatalf("Blacklist: %v", err)
	}
	revoked, err := s.IsBlacklisted(ctx, "tok-a")
	if err != nil {
		t.Fatalf("IsBlacklisted: %v", err)
	}
	if !revoked {
		t.Error("IsBlacklisted = false, want true")
	}
	if revoked, _ := s.IsBlacklisted(ctx, "some-other-token"); revoked {
		t.Error("unrelated token reported blacklisted")
	}
}

func TestBlacklist_EntryExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	s.Blacklist(ctx, "tok-a", now.Add(10*time.Minute))
	*now = now.Add(11 * time.Minute)

	if revoked, _ := s.IsBlacklisted(ctx, "tok-a"); revoked {
		t.Error("blacklist entry outlived the token's expiry")
	}
}

func TestBlacklist_ExpiredTokenSkipped(t *testing.T) {
	ctx := context.Background()
	s, now := newTestStore(t)

	if err := s.Blacklist(ctx, "tok-a", now.Add(-time.Minute)); err != nil {
		t.Fatalf("Blacklist: %v", err)
	}
	if revoked, _ := s.IsBlacklisted(ctx, "tok-a"); revoked {
		t.Error("already-expired token should not gain a blacklist entry")
	}
}

func TestSessionKeyLayout(t *testing.T) {
	if got := sessionKey("u1", security.TokenKindAccess); got != "user:u1:accessToken" {
		t.Errorf("access key = %q", got)
	}
	if got := sessionKey("u1", security.TokenKindRefresh); got != "user:u1:refreshToken" {
		t.Errorf("refresh key = %q", got)
	}
	if got := blacklistKey("tok"); got != "blacklist:tok" {
		t.Errorf("blacklist key = %q", got)
	}
}
