package authgate

import (
	"context"
)

var principalCtxKey = &contextKey{"principal"}
var claimsCtxKey = &contextKey{"claims"}
var rolesCtxKey = &contextKey{"roles"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(Principal)
	return raw, ok
}

// WithClaims sets the AccessClaims in the given context
func WithClaims(ctx context.Context, claims *AccessClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the AccessClaims from the context
func ClaimsFromContext(ctx context.Context) (*AccessClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*AccessClaims)
	return raw, ok
}

// WithRoles sets the granted roles in the given context
func WithRoles(ctx context.Context, roles []UserRole) context.Context {
	return context.WithValue(ctx, rolesCtxKey, roles)
}

// RolesFromContext extracts the granted roles from the context
func RolesFromContext(ctx context.Context) ([]UserRole, bool) {
	raw, ok := ctx.Value(rolesCtxKey).([]UserRole)
	return raw, ok
}

// HasRoleAtLeast reports whether any granted role in the context meets the
// minimum required level.
func HasRoleAtLeast(ctx context.Context, minRole UserRole) bool {
	roles, ok := RolesFromContext(ctx)
	if !ok {
		return false
	}
	for _, role := range roles {
		if role.IsAtLeast(minRole) {
			return true
		}
	}
	return false
}
