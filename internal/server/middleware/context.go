package middleware

import "context"

type contextKey struct{ name string }

var (
	userIDKey      = contextKey{"user_id"}
	userRoleKey    = contextKey{"user_role"}
	accessTokenKey = contextKey{"access_token"}
	clientIPKey    = contextKey{"client_ip"}
)

// WithIdentity returns a context with user_id, role, and the raw access token
// set. Handlers and downstream middleware read these via GetUserID, GetUserRole,
// and GetAccessToken.
func WithIdentity(ctx context.Context, userID, role, accessToken string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, userRoleKey, role)
	ctx = context.WithValue(ctx, accessTokenKey, accessToken)
	return ctx
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// GetUserRole returns the authenticated user's role from context and true if set.
func GetUserRole(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userRoleKey).(string)
	return v, ok
}

// GetAccessToken returns the raw bearer token from context and true if set.
func GetAccessToken(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accessTokenKey).(string)
	return v, ok
}

// WithClientIP returns a context carrying the request's client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP from context and true if set.
func GetClientIP(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(clientIPKey).(string)
	return v, ok
}
