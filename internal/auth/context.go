// Package auth carries the identity resolved by the authorization gate
// through the request context down to the use cases.
package auth

import (
	"context"

	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
)

type contextKey struct{}

// WithUser returns a context carrying the resolved user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the user resolved by the authorization gate, or false
// when the request never passed through it.
func FromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*domain.User)
	return u, ok
}
