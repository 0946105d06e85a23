package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two token kinds issued as a pair at login.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential presented on every protected request.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived credential used only to mint new access tokens.
	TokenKindRefresh TokenKind = "refresh"
)

var (
	// ErrMissingSecret is returned by NewTokenCodec when no access signing
	// secret is configured. Fatal, not retryable.
	ErrMissingSecret = errors.New("missing signing secret")
	// ErrTokenMalformed is returned when a token cannot be parsed or its
	// signature or claims do not verify.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired is returned when a token parses and verifies but is past
	// its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the verified content of a token. Re-derivable from the token value
// alone; verification performs no store lookup.
type Claims struct {
	Subject   string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind"`
}

// TokenCodec issues and verifies signed, time-bound HS256 tokens carrying a
// subject and a kind claim. Access and refresh tokens are signed with
// independent secrets so that leaking one does not forge the other kind.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenCodec returns a TokenCodec signing with the given secrets. The
// refresh secret falls back to the access secret when empty. Returns
// ErrMissingSecret when the access secret is empty.
func NewTokenCodec(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) (*TokenCodec, error) {
	if accessSecret == "" {
		return nil, ErrMissingSecret
	}
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 168 * time.Hour
	}
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// TTL returns the configured validity window for the given kind. Session
// records are stored with exactly this TTL.
func (c *TokenCodec) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a new token of the given kind for subject and returns the token
// string and its expiry time.
func (c *TokenCodec) Issue(subject string, kind TokenKind) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(c.TTL(kind))
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind: string(kind),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(c.secretFor(kind))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return token, expiresAt, nil
}

// Verify parses tokenString against the secret for the expected kind and
// returns its claims. Returns ErrTokenExpired when past expiry and
// ErrTokenMalformed for every other verification failure, including a kind
// claim that does not match the expected kind.
func (c *TokenCodec) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return c.secretFor(kind), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, ErrTokenMalformed
	}
	if claims.Kind != string(kind) {
		return nil, ErrTokenMalformed
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	out := &Claims{
		Subject:   claims.Subject,
		Kind:      TokenKind(claims.Kind),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func (c *TokenCodec) secretFor(kind TokenKind) []byte {
	if kind == TokenKindRefresh {
		return c.refreshSecret
	}
	return c.accessSecret
}
