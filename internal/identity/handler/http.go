// Package handler exposes the authentication flows over HTTP.
package handler

import (
	"net/http"
	"time"

	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/httpx"
	"user-auth-service/internal/identity/service"
	"user-auth-service/internal/server/middleware"
	userdomain "user-auth-service/internal/user/domain"
)

// AuthHandlers serves register, login, refresh, logout, and current-user.
type AuthHandlers struct {
	Svc *service.AuthService
}

type userView struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Avatar        string     `json:"avatar"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	AgreedToTerms bool       `json:"agreedToTerms"`
	TermsVersion  string     `json:"termsVersion,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toUserView(u *userdomain.User) userView {
	return userView{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Phone:         u.Phone,
		Avatar:        u.Avatar,
		Role:          string(u.Role),
		Status:        string(u.Status),
		LastLoginAt:   u.LastLoginAt,
		AgreedToTerms: u.AgreedToTerms,
		TermsVersion:  u.TermsVersion,
		CreatedAt:     u.CreatedAt,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

// Register handles POST /api/users/register. The response carries the same
// credential pair as a login; the new account is signed in immediately.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
		Role:     req.Role,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, loginResponse{
		Token:            res.Tokens.AccessToken,
		RefreshToken:     res.Tokens.RefreshToken,
		ExpiresAt:        res.Tokens.AccessExpiresAt,
		RefreshExpiresAt: res.Tokens.RefreshExpiresAt,
		User:             toUserView(res.User),
	})
}

type loginRequest struct {
	// Identifier matches username, email, or phone.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token            string    `json:"token"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	User             userView  `json:"user"`
}

// Login handles POST /api/users/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token:            res.Tokens.AccessToken,
		RefreshToken:     res.Tokens.RefreshToken,
		ExpiresAt:        res.Tokens.AccessExpiresAt,
		RefreshExpiresAt: res.Tokens.RefreshExpiresAt,
		User:             toUserView(res.User),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/users/refresh-token.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	res, err := h.Svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"token":     res.AccessToken,
		"expiresAt": res.AccessExpiresAt,
	})
}

// Logout handles POST /api/users/logout. Requires the authentication gate.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	token, tokOK := middleware.GetAccessToken(r.Context())
	if !ok || !tokOK {
		httpx.WriteError(w, apperrors.Unauthenticated("missing or invalid authorization"))
		return
	}
	if err := h.Svc.Logout(r.Context(), userID, token); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/users/me. Requires the authentication gate.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httpx.WriteError(w, apperrors.Unauthenticated("missing or invalid authorization"))
		return
	}
	user, err := h.Svc.CurrentUser(r.Context(), userID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"user": toUserView(user)})
}
