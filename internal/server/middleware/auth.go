// Package middleware holds the HTTP middleware chain: the authentication
// gate, role authorization, logging, panic recovery, and request metrics.
package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/httpx"
	"user-auth-service/internal/security"
	"user-auth-service/internal/session"
	userdomain "user-auth-service/internal/user/domain"
)

const bearerPrefix = "bearer "

// UserGetter resolves the account for the authenticated subject.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// RequireAuth returns the authentication gate. Checks run in a fixed order:
// bearer extraction, blacklist lookup, signature and expiry verification,
// session currency (the token must be the stored record, byte for byte),
// account status. On success the identity and raw token are attached to the
// request context. Each failure reports the first check that failed.
func RequireAuth(codec *security.TokenCodec, sessions session.Store, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearer(r)
			if token == "" {
				httpx.WriteError(w, apperrors.Unauthenticated("missing or invalid authorization"))
				return
			}

			revoked, err := sessions.IsBlacklisted(r.Context(), token)
			if err != nil {
				httpx.WriteError(w, apperrors.Unavailable("session store unavailable", err))
				return
			}
			if revoked {
				httpx.WriteError(w, apperrors.Unauthenticated("token revoked"))
				return
			}

			claims, err := codec.Verify(token, security.TokenKindAccess)
			if err != nil {
				httpx.WriteError(w, apperrors.Unauthenticated("missing or invalid authorization"))
				return
			}

			stored, err := sessions.GetToken(r.Context(), claims.Subject, security.TokenKindAccess)
			if err != nil {
				httpx.WriteError(w, apperrors.Unavailable("session store unavailable", err))
				return
			}
			if stored == "" || stored != token {
				httpx.WriteError(w, apperrors.Unauthenticated("session superseded or ended"))
				return
			}

			user, err := users.GetByID(r.Context(), claims.Subject)
			if err != nil {
				httpx.WriteError(w, apperrors.Internal("load user", err))
				return
			}
			if user == nil {
				httpx.WriteError(w, apperrors.Unauthenticated("account no longer exists"))
				return
			}
			if user.Status != userdomain.StatusActive {
				httpx.WriteError(w, apperrors.Forbidden("account disabled"))
				return
			}

			ctx := WithIdentity(r.Context(), user.ID, string(user.Role), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorizer decides whether a role may pass a role-restricted route.
type Authorizer interface {
	Allow(ctx context.Context, role string, allowed []string) (bool, error)
}

// RequireRoles returns a middleware that rejects authenticated requests whose
// role is not allowed by the authorizer. Must run after RequireAuth.
func RequireRoles(authz Authorizer, allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				httpx.WriteError(w, apperrors.Unauthenticated("missing or invalid authorization"))
				return
			}
			allow, err := authz.Allow(r.Context(), role, allowed)
			if err != nil {
				httpx.WriteError(w, apperrors.Internal("authorize", err))
				return
			}
			if !allow {
				httpx.WriteError(w, apperrors.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearer returns the Bearer token from the Authorization header, or ""
// if missing or malformed. The scheme match is case-insensitive.
func extractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
