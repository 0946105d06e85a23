// Package handler exposes audit log listing over HTTP. Admin only.
package handler

import (
	"net/http"
	"strconv"
	"time"

	auditdomain "user-auth-service/internal/audit/domain"
	auditrepo "user-auth-service/internal/audit/repository"
	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/httpx"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// AuditHandlers serves audit log queries.
type AuditHandlers struct {
	Repo auditrepo.Repository
}

type auditView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Event     string    `json:"event"`
	Outcome   string    `json:"outcome"`
	ClientIP  string    `json:"clientIp"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAuditViews(logs []*auditdomain.AuditLog) []auditView {
	out := make([]auditView, 0, len(logs))
	for _, a := range logs {
		out = append(out, auditView{
			ID:        a.ID,
			UserID:    a.UserID,
			Event:     a.Event,
			Outcome:   a.Outcome,
			ClientIP:  a.ClientIP,
			Detail:    a.Detail,
			CreatedAt: a.CreatedAt,
		})
	}
	return out
}

// List handles GET /api/audit/logs?userId=...&limit=...&offset=....
// Without userId it returns entries across all users, newest first.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	limit := queryInt(r, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	var logs []*auditdomain.AuditLog
	var err error
	if userID == "" {
		logs, err = h.Repo.List(r.Context(), int32(limit), int32(offset))
	} else {
		logs, err = h.Repo.ListByUser(r.Context(), userID, int32(limit), int32(offset))
	}
	if err != nil {
		httpx.WriteError(w, apperrors.Internal("list audit logs", err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"logs": toAuditViews(logs)})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
