package utils

import (
	"context"

	"cinephile/internal/policy"
)

type contextKey string

const (
	PrincipalKey     contextKey = "principal"
	TokenKey         contextKey = "token"
	PrincipalSlotKey contextKey = "principal_slot"
)

// PrincipalSlot lets an outer middleware see the principal resolved by an
// inner one.
type PrincipalSlot struct {
	Principal *policy.Principal
}

func WithPrincipalSlot(ctx context.Context) (context.Context, *PrincipalSlot) {
	slot := &PrincipalSlot{}
	return context.WithValue(ctx, PrincipalSlotKey, slot), slot
}

// GetPrincipalFromContext returns nil for anonymous requests.
func GetPrincipalFromContext(ctx context.Context) *policy.Principal {
	p, _ := ctx.Value(PrincipalKey).(*policy.Principal)
	return p
}

func SetPrincipalContext(ctx context.Context, p *policy.Principal) context.Context {
	if slot, ok := ctx.Value(PrincipalSlotKey).(*PrincipalSlot); ok {
		slot.Principal = p
	}
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetTokenFromContext returns the key the request authenticated with.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
