package utils

import "context"

type contextKey string

const authenticatedUserKey contextKey = "authenticated_user"

// WithAuthenticatedUser stores the caller on ctx so MCP tool handlers can read it.
func WithAuthenticatedUser(ctx context.Context, user *AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authenticatedUserKey, user)
}

// GetAuthenticatedUser returns the caller stored by WithAuthenticatedUser.
func GetAuthenticatedUser(ctx context.Context) (*AuthenticatedUser, bool) {
	user, ok := ctx.Value(authenticatedUserKey).(*AuthenticatedUser)
	return user, ok && user != nil
}
