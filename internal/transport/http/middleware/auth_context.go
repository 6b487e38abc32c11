package middleware

import "context"

type ctxKey string

const ctxIdentity ctxKey = "identity"

// Identity is the verified caller attached by Auth.
type Identity struct {
	UserID int64
	Email  string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxIdentity).(Identity)
	return v, ok && v.UserID > 0
}
