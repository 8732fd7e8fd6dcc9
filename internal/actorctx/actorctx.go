package actorctx

import "context"

type ctxKey struct{}

// WithUserID records the authenticated user on a request context so code
// below the HTTP layer (repos, loggers) can see who is acting.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)

	return v, ok && v != ""
}
