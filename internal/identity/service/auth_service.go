// Package service implements the authentication flows: register, login,
// refresh, logout, and current-user lookup. A user has at most one active
// session; logging in again supersedes the previous one.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"user-auth-service/internal/audit"
	auditdomain "user-auth-service/internal/audit/domain"
	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/security"
	"user-auth-service/internal/session"
	userdomain "user-auth-service/internal/user/domain"
)

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// TokenPair is the credential pair returned by Login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// LoginResult holds the authenticated user and their new token pair. Both
// Register and Login return one; registration opens a session immediately.
type LoginResult struct {
	User   *userdomain.User
	Tokens TokenPair
}

// RefreshResult holds the re-issued access token. The refresh token is not
// rotated; the caller keeps using the one they presented.
type RefreshResult struct {
	AccessToken     string
	AccessExpiresAt time.Time
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Phone    string
	Avatar   string
	Role     string
}

// AuthService implements register, login, refresh, and logout on top of the
// user repository and the session store.
type AuthService struct {
	users    UserRepo
	sessions session.Store
	hasher   *security.Hasher
	codec    *security.TokenCodec
	audit    audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLogger may be nil; then no audit events are written.
func NewAuthService(
	users UserRepo,
	sessions session.Store,
	hasher *security.Hasher,
	codec *security.TokenCodec,
	auditLogger audit.AuditLogger,
) *AuthService {
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		codec:    codec,
		audit:    auditLogger,
	}
}

// Register creates a user with the given credentials and opens their first
// session, returning the user with a fresh token pair. Duplicate username,
// email, or phone surfaces as a per-field conflict error.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}

	role := userdomain.Role(in.Role)
	if role == "" {
		role = userdomain.RoleRequester
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hashed,
		Avatar:       in.Avatar,
		Role:         role,
		Status:       userdomain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	tokens, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, user.ID, auditdomain.EventRegister, auditdomain.OutcomeSuccess, "")
	return &LoginResult{User: user, Tokens: *tokens}, nil
}

// Login authenticates by username, email, or phone plus password and issues a
// fresh token pair. A previous session's still-valid access token is
// blacklisted so it stops working immediately. Unknown identifier and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.Unauthenticated("invalid username or password")
	}
	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.audit.LogEvent(ctx, "", auditdomain.EventLogin, auditdomain.OutcomeFailure, "unknown identifier")
		return nil, apperrors.Unauthenticated("invalid username or password")
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.audit.LogEvent(ctx, user.ID, auditdomain.EventLogin, auditdomain.OutcomeFailure, "wrong password")
		return nil, apperrors.Unauthenticated("invalid username or password")
	}
	if user.Status != userdomain.StatusActive {
		s.audit.LogEvent(ctx, user.ID, auditdomain.EventLogin, auditdomain.OutcomeFailure, "account disabled")
		return nil, apperrors.Forbidden("account disabled")
	}

	tokens, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	_ = s.users.UpdateLastLogin(ctx, user.ID, now)
	user.LastLoginAt = &now

	s.audit.LogEvent(ctx, user.ID, auditdomain.EventLogin, auditdomain.OutcomeSuccess, "")
	return &LoginResult{User: user, Tokens: *tokens}, nil
}

// Refresh verifies the presented refresh token against its signature and the
// stored session record, then re-issues the access token only. The refresh
// token is not rotated. A superseded or logged-out session fails the
// exact-match check and is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}
	revoked, err := s.sessions.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.Unavailable("session store unavailable", err)
	}
	if revoked {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}
	claims, err := s.codec.Verify(refreshToken, security.TokenKindRefresh)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}
	stored, err := s.sessions.GetToken(ctx, claims.Subject, security.TokenKindRefresh)
	if err != nil {
		return nil, apperrors.Unavailable("session store unavailable", err)
	}
	if stored == "" || stored != refreshToken {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}
	if user.Status != userdomain.StatusActive {
		return nil, apperrors.Forbidden("account disabled")
	}

	if err := s.supersedeAccessToken(ctx, user.ID); err != nil {
		return nil, err
	}
	accessToken, accessExp, err := s.codec.Issue(user.ID, security.TokenKindAccess)
	if err != nil {
		return nil, apperrors.Internal("issue access token", err)
	}
	if err := s.sessions.SetToken(ctx, user.ID, security.TokenKindAccess, accessToken, s.codec.TTL(security.TokenKindAccess)); err != nil {
		return nil, apperrors.Unavailable("session store unavailable", err)
	}

	s.audit.LogEvent(ctx, user.ID, auditdomain.EventRefresh, auditdomain.OutcomeSuccess, "")
	return &RefreshResult{AccessToken: accessToken, AccessExpiresAt: accessExp}, nil
}

// Logout ends the user's session: the presented access token is blacklisted
// for its remaining lifetime and both session records are deleted, which also
// invalidates the refresh token via the exact-match check. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID, accessToken string) error {
	if claims, err := s.codec.Verify(accessToken, security.TokenKindAccess); err == nil {
		if err := s.sessions.Blacklist(ctx, accessToken, claims.ExpiresAt); err != nil {
			return apperrors.Unavailable("session store unavailable", err)
		}
	}
	if err := s.sessions.DeleteTokens(ctx, userID); err != nil {
		return apperrors.Unavailable("session store unavailable", err)
	}
	s.audit.LogEvent(ctx, userID, auditdomain.EventLogout, auditdomain.OutcomeSuccess, "")
	return nil
}

// CurrentUser returns the user for id, or a not-found error when the account
// no longer exists.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

// openSession issues a fresh token pair for userID and records both as the
// single active session, superseding any previous one.
func (s *AuthService) openSession(ctx context.Context, userID string) (*TokenPair, error) {
	if err := s.supersedeAccessToken(ctx, userID); err != nil {
		return nil, err
	}

	accessToken, accessExp, err := s.codec.Issue(userID, security.TokenKindAccess)
	if err != nil {
		return nil, apperrors.Internal("issue access token", err)
	}
	refreshToken, refreshExp, err := s.codec.Issue(userID, security.TokenKindRefresh)
	if err != nil {
		return nil, apperrors.Internal("issue refresh token", err)
	}
	if err := s.sessions.SetToken(ctx, userID, security.TokenKindAccess, accessToken, s.codec.TTL(security.TokenKindAccess)); err != nil {
		return nil, apperrors.Unavailable("session store unavailable", err)
	}
	if err := s.sessions.SetToken(ctx, userID, security.TokenKindRefresh, refreshToken, s.codec.TTL(security.TokenKindRefresh)); err != nil {
		return nil, apperrors.Unavailable("session store unavailable", err)
	}
	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// supersedeAccessToken blacklists the user's currently-stored access token
// when it is still valid, so the superseded session stops working immediately
// rather than at natural expiry.
func (s *AuthService) supersedeAccessToken(ctx context.Context, userID string) error {
	old, err := s.sessions.GetToken(ctx, userID, security.TokenKindAccess)
	if err != nil {
		return apperrors.Unavailable("session store unavailable", err)
	}
	if old == "" {
		return nil
	}
	claims, err := s.codec.Verify(old, security.TokenKindAccess)
	if err != nil {
		// Expired or unparseable; nothing left to revoke.
		return nil
	}
	if err := s.sessions.Blacklist(ctx, old, claims.ExpiresAt); err != nil {
		return apperrors.Unavailable("session store unavailable", err)
	}
	return nil
}
