package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/uchicago-cs/chisubmit-sub001/internal/logger"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// Authenticator resolves a request's credentials to an identity.
//
// The directory bridge is an explicit dependency supplied at
// construction. Passing a nil bridge disables Basic auth entirely
// (API keys still work), which is the right setup for deployments
// without a directory.
type Authenticator struct {
	store  IdentityStore
	bridge DirectoryBridge
}

// NewAuthenticator creates an Authenticator backed by the given identity
// store and directory bridge.
func NewAuthenticator(store IdentityStore, bridge DirectoryBridge) *Authenticator {
	return &Authenticator{
		store:  store,
		bridge: bridge,
	}
}

// Authenticate resolves the request's credentials to a user.
//
// Credential forms are checked in a fixed order: API key first (query
// parameter wins over the header), then HTTP Basic. Credential values
// are never logged.
func (a *Authenticator) Authenticate(r *http.Request) (*models.User, error) {
	ctx := r.Context()

	if apiKey := extractAPIKey(r); apiKey != "" {
		return a.authenticateAPIKey(ctx, apiKey)
	}

	if username, password, ok := r.BasicAuth(); ok {
		return a.authenticateBasic(ctx, username, password)
	}

	return nil, ErrMissingCredentials
}

// extractAPIKey returns the API key carried by the request, preferring
// the query parameter over the header.
func extractAPIKey(r *http.Request) string {
	if key := r.URL.Query().Get(APIKeyQueryParam); key != "" {
		return key
	}
	return r.Header.Get(APIKeyHeader)
}

func (a *Authenticator) authenticateAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	user, err := a.store.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (a *Authenticator) authenticateBasic(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			// The local store must hold a record before directory auth
			// can succeed; the directory is never consulted for
			// unknown identities.
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	if a.bridge == nil {
		logger.Warn("Basic auth attempted but no directory bridge is configured", "user", username)
		return nil, ErrInvalidCredentials
	}

	ok, err := a.bridge.Verify(ctx, username, password)
	if err != nil {
		logger.Warn("Directory verification unavailable", "user", username, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
