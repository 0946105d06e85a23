// Package handler exposes terms-of-service lookup and acceptance over HTTP.
package handler

import (
	"net/http"
	"time"

	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/httpx"
	"user-auth-service/internal/server/middleware"
	"user-auth-service/internal/terms/domain"
	"user-auth-service/internal/terms/service"
)

// TermsHandlers serves the latest terms version and acceptance.
type TermsHandlers struct {
	Svc *service.TermsService
}

type termsView struct {
	Version   string    `json:"version"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTermsView(t *domain.Terms) termsView {
	return termsView{Version: t.Version, Content: t.Content, CreatedAt: t.CreatedAt}
}

// Latest handles GET /api/terms/latest. Public.
func (h *TermsHandlers) Latest(w http.ResponseWriter, r *http.Request) {
	t, err := h.Svc.Latest(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTermsView(t))
}

type agreeRequest struct {
	Version string `json:"version"`
}

// Agree handles POST /api/terms/agree. Requires the authentication gate.
func (h *TermsHandlers) Agree(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httpx.WriteError(w, apperrors.Unauthenticated("missing or invalid authorization"))
		return
	}
	var req agreeRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	t, err := h.Svc.Agree(r.Context(), userID, req.Version)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "terms accepted",
		"version": t.Version,
	})
}
