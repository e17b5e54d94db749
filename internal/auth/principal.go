package auth

import (
	"context"
	"strings"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying the email of the caller.
// Middleware sets it once per request; services read it with PrincipalFromContext.
func WithPrincipal(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, principalKey{}, email)
}

// PrincipalFromContext returns the caller's email, or false when the request
// carries no principal.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(principalKey{}).(string)
	if !ok || strings.TrimSpace(email) == "" {
		return "", false
	}
	return email, true
}
