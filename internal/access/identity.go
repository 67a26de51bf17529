package access

import "context"

// Identity is the resolved subject for a request: who they are and which
// role the store resolved for them. A nil Identity means anonymous.
type Identity struct {
	SubjectID string
	Email     string
	Role      Role
}

type identityContextKey struct{}

// ContextWithIdentity stores the resolved identity in context.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the resolved identity, nil when anonymous.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityContextKey{}).(*Identity)
	return id
}
