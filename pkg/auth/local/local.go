// Package local implements the directory bridge against password hashes
// stored in the local identity store.
//
// It exists for deployments without an external directory (development,
// CI, small courses). Password hashes are bcrypt and live on the user
// record; users without a hash can only authenticate with an API key.
package local

import (
	"context"
	"errors"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// Bridge verifies credentials against locally stored bcrypt hashes.
type Bridge struct {
	store auth.IdentityStore
}

// New creates a local directory bridge backed by the identity store.
func New(store auth.IdentityStore) *Bridge {
	return &Bridge{store: store}
}

// Verify compares the password against the user's stored bcrypt hash.
func (b *Bridge) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := b.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if user.PasswordHash == "" {
		return false, nil
	}

	return models.VerifyPassword(password, user.PasswordHash), nil
}
