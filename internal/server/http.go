// Package server assembles the HTTP router and middleware chain.
package server

import (
	"context"
	"log/slog"
	"net/http"

	audithandler "user-auth-service/internal/audit/handler"
	auditrepo "user-auth-service/internal/audit/repository"
	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/httpx"
	identityhandler "user-auth-service/internal/identity/handler"
	identityservice "user-auth-service/internal/identity/service"
	menuhandler "user-auth-service/internal/menu/handler"
	menuservice "user-auth-service/internal/menu/service"
	"user-auth-service/internal/security"
	"user-auth-service/internal/server/middleware"
	"user-auth-service/internal/session"
	termshandler "user-auth-service/internal/terms/handler"
	termsservice "user-auth-service/internal/terms/service"
	userdomain "user-auth-service/internal/user/domain"
)

// Services holds everything the router needs.
type Services struct {
	Auth  *identityservice.AuthService
	Terms *termsservice.TermsService
	Menus *menuservice.MenuService

	// Gate dependencies.
	Codec    *security.TokenCodec
	Sessions session.Store
	Users    middleware.UserGetter

	// Authz is consulted by role-restricted routes.
	Authz middleware.Authorizer
	// AuditLogs enables the admin-only audit listing route when set.
	AuditLogs auditrepo.Repository

	Logger *slog.Logger
	// Health reports dependency health for /healthz. Optional.
	Health func(ctx context.Context) error
}

// NewRouter builds the route table and wraps it with recovery, logging, and
// request metrics.
func NewRouter(s Services) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(s.Codec, s.Sessions, s.Users)

	authHandlers := &identityhandler.AuthHandlers{Svc: s.Auth}
	mux.HandleFunc("POST /api/users/register", authHandlers.Register)
	mux.HandleFunc("POST /api/users/login", authHandlers.Login)
	mux.HandleFunc("POST /api/users/refresh-token", authHandlers.Refresh)
	mux.Handle("POST /api/users/logout", requireAuth(http.HandlerFunc(authHandlers.Logout)))
	mux.Handle("GET /api/users/me", requireAuth(http.HandlerFunc(authHandlers.Me)))

	if s.Terms != nil {
		termsHandlers := &termshandler.TermsHandlers{Svc: s.Terms}
		mux.HandleFunc("GET /api/terms/latest", termsHandlers.Latest)
		mux.Handle("POST /api/terms/agree", requireAuth(http.HandlerFunc(termsHandlers.Agree)))
	}

	if s.Menus != nil {
		menuHandlers := &menuhandler.MenuHandlers{Svc: s.Menus}
		mux.HandleFunc("POST /api/menus/list", menuHandlers.List)
	}

	if s.AuditLogs != nil && s.Authz != nil {
		auditHandlers := &audithandler.AuditHandlers{Repo: s.AuditLogs}
		requireAdmin := middleware.RequireRoles(s.Authz, string(userdomain.RoleAdmin))
		mux.Handle("GET /api/audit/logs",
			requireAuth(requireAdmin(http.HandlerFunc(auditHandlers.List))))
	}

	health := healthHandler(s.Health)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	return middleware.Chain(mux,
		middleware.Recover(s.Logger),
		middleware.Logging(s.Logger),
		middleware.Metrics(s.Logger),
		middleware.ClientIP(),
	)
}

func healthHandler(check func(ctx context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httpx.WriteError(w, apperrors.Unavailable("dependency unhealthy", err))
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
