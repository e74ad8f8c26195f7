package auth

import (
	"context"

	"delivermail/internal/policy"
)

type ctxKey string

const identityKey ctxKey = "identity"

func WithIdentity(ctx context.Context, id policy.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) policy.Identity {
	if v, ok := ctx.Value(identityKey).(policy.Identity); ok {
		return v
	}
	return policy.Identity{}
}

// Subject returns the authenticated account id, or 0 when unauthenticated.
func Subject(ctx context.Context) uint {
	return FromContext(ctx).UserID
}
