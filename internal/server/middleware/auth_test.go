package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"user-auth-service/internal/security"
	"user-auth-service/internal/session"
	userdomain "user-auth-service/internal/user/domain"
)

type mockUserGetter struct {
	users map[string]*userdomain.User
}

func (m *mockUserGetter) GetByID(ctx context.Context, id string) (*userdomain.User, error) {
	return m.users[id], nil
}

type gateFixture struct {
	codec    *security.TokenCodec
	sessions *session.MemoryStore
	users    *mockUserGetter
	handler  http.Handler

	// Set by the inner handler on success.
	gotUserID string
	gotRole   string
	gotToken  string
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	codec, err := security.NewTestTokenCodec()
	if err != nil {
		t.Fatalf("NewTestTokenCodec: %v", err)
	}
	f := &gateFixture{
		codec:    codec,
		sessions: session.NewMemoryStore(),
		users:    &mockUserGetter{users: make(map[string]*userdomain.User)},
	}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.gotUserID, _ = GetUserID(r.Context())
		f.gotRole, _ = GetUserRole(r.Context())
		f.gotToken, _ = GetAccessToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	f.handler = RequireAuth(codec, f.sessions, f.users)(inner)
	return f
}

// loggedInUser creates an active user with a current access token.
func (f *gateFixture) loggedInUser(t *testing.T, id string, role userdomain.Role) string {
	t.Helper()
	f.users.users[id] = &userdomain.User{ID: id, Username: "u-" + id, Role: role, Status: userdomain.StatusActive}
	token, _, err := f.codec.Issue(id, security.TokenKindAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := f.sessions.SetToken(context.Background(), id, security.TokenKindAccess, token, 15*time.Minute); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	return token
}

func (f *gateFixture) request(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_OK(t *testing.T) {
	f := newGateFixture(t)
	token := f.loggedInUser(t, "u1", userdomain.RoleProvider)

	rec := f.request(token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if f.gotUserID != "u1" {
		t.Errorf("user id in context = %q, want %q", f.gotUserID, "u1")
	}
	if f.gotRole != string(userdomain.RoleProvider) {
		t.Errorf("role in context = %q, want %q", f.gotRole, userdomain.RoleProvider)
	}
	if f.gotToken != token {
		t.Error("raw token should be attached to context")
	}
}

func TestRequireAuth_MissingOrMalformedHeader(t *testing.T) {
	f := newGateFixture(t)
	f.loggedInUser(t, "u1", userdomain.RoleRequester)

	testCases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare token", "justatoken"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireAuth_CaseInsensitiveScheme(t *testing.T) {
	f := newGateFixture(t)
	token := f.loggedInUser(t, "u1", userdomain.RoleRequester)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAuth_BlacklistedToken(t *testing.T) {
	f := newGateFixture(t)
	token := f.loggedInUser(t, "u1", userdomain.RoleRequester)
	if err := f.sessions.Blacklist(context.Background(), token, time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("Blacklist: %v", err)
	}

	if rec := f.request(token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

// The blacklist is consulted before signature verification, so even a token
// that no longer parses is rejected as revoked once listed.
func TestRequireAuth_BlacklistBeforeVerify(t *testing.T) {
	f := newGateFixture(t)
	if err := f.sessions.Blacklist(context.Background(), "opaque-revoked-value", time.Now().UTC().Add(time.Minute)); err != nil {
		t.Fatalf("Blacklist: %v", err)
	}

	rec := f.request("opaque-revoked-value")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_BadSignature(t *testing.T) {
	f := newGateFixture(t)
	f.loggedInUser(t, "u1", userdomain.RoleRequester)

	other, err := security.NewTokenCodec("attacker-secret", "", "test-issuer", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec: %v", err)
	}
	forged, _, err := other.Issue("u1", security.TokenKindAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if rec := f.request(forged); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_SupersededSession(t *testing.T) {
	f := newGateFixture(t)
	old := f.loggedInUser(t, "u1", userdomain.RoleRequester)
	// A later login stores a different token; the old one no longer matches.
	newer, _, err := f.codec.Issue("u1", security.TokenKindAccess)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	f.sessions.SetToken(context.Background(), "u1", security.TokenKindAccess, newer, 15*time.Minute)

	if rec := f.request(old); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if rec := f.request(newer); rec.Code != http.StatusOK {
		t.Fatalf("current token: status = %d, want 200", rec.Code)
	}
}

func TestRequireAuth_NoStoredSession(t *testing.T) {
	f := newGateFixture(t)
	token := f.loggedInUser(t, "u1", userdomain.RoleRequester)
	f.sessions.DeleteTokens(context.Background(), "u1")

	if rec := f.request(token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_DisabledAccount(t *testing.T) {
	f := newGateFixture(t)
	token := f.loggedInUser(t, "u1", userdomain.RoleRequester)
	f.users.users["u1"].Status = userdomain.StatusDisabled

	if rec := f.request(token); rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAuth_DeletedAccount(t *testing.T) {
	f := newGateFixture(t)
	token := f.loggedInUser(t, "u1", userdomain.RoleRequester)
	delete(f.users.users, "u1")

	if rec := f.request(token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_RefreshTokenRejected(t *testing.T) {
	f := newGateFixture(t)
	f.loggedInUser(t, "u1", userdomain.RoleRequester)
	refresh, _, err := f.codec.Issue("u1", security.TokenKindRefresh)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	f.sessions.SetToken(context.Background(), "u1", security.TokenKindRefresh, refresh, 168*time.Hour)

	// A refresh token must not pass the access gate.
	if rec := f.request(refresh); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

type fakeAuthorizer struct {
	allow bool
}

func (f *fakeAuthorizer) Allow(ctx context.Context, role string, allowed []string) (bool, error) {
	for _, a := range allowed {
		if role == a {
			return true, nil
		}
	}
	return f.allow, nil
}

func TestRequireRoles(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRoles(&fakeAuthorizer{}, "admin")(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/audit/logs", nil)
	req = req.WithContext(WithIdentity(req.Context(), "u1", "admin", "tok"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/audit/logs", nil)
	req = req.WithContext(WithIdentity(req.Context(), "u2", "requester", "tok"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("requester: status = %d, want 403", rec.Code)
	}

	// No identity in context at all.
	req = httptest.NewRequest(http.MethodGet, "/api/audit/logs", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}
}
