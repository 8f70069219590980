package auth

import (
	"context"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

type contextKey string

const identityKey contextKey = "chisubmit.identity"

// WithIdentity returns a context carrying the authenticated user.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// IdentityFrom returns the authenticated user attached to the context, if any.
func IdentityFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey).(*models.User)
	return user, ok
}
