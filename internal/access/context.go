package access

import "context"

type accessContextKey struct{}

// WithContext stores the assembled access context in ctx.
func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, accessContextKey{}, ac)
}

// FromContext extracts the access context. The zero value (empty role) is
// returned for unauthenticated requests, which Check maps to
// DecisionDenyUnauthenticated.
func FromContext(ctx context.Context) Context {
	ac, _ := ctx.Value(accessContextKey{}).(Context)
	return ac
}
