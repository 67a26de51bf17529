package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the request session in context. The session
// middleware is the only writer; the gate and guards are the readers.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session, nil when the middleware has not
// run for this request.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
