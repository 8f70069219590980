// Package auth implements request authentication for the chisubmit API.
//
// Two credential forms are supported, checked in a fixed order: an API
// key (query parameter `api-key`, or header `CHISUBMIT-API-KEY`; the
// query parameter wins when both are present), then HTTP Basic
// username/password verified against an external directory.
package auth

import (
	"context"
	"errors"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// Credential carriers.
const (
	// APIKeyQueryParam is the query parameter carrying an API key.
	APIKeyQueryParam = "api-key"

	// APIKeyHeader is the header carrying an API key.
	APIKeyHeader = "CHISUBMIT-API-KEY"
)

// Authentication failures. The HTTP boundary collapses all of these to a
// single generic "unauthorized" response so usernames cannot be
// enumerated; they stay distinguishable here for logging.
var (
	// ErrMissingCredentials means the request carried no credential of
	// either form.
	ErrMissingCredentials = errors.New("no credentials presented")

	// ErrUnknownIdentity means the username has no local identity record.
	// The directory is never consulted for unknown identities.
	ErrUnknownIdentity = errors.New("unknown identity")

	// ErrInvalidCredentials means the API key or password did not verify.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDirectoryUnavailable means the external directory could not be
	// reached. For the authentication decision it is equivalent to
	// ErrInvalidCredentials, but it is logged distinctly.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
)

// DirectoryBridge verifies a username/password pair against an external
// credential service.
//
// The returned bool is the verification outcome. A non-nil error means
// the directory could not be consulted at all (network or protocol
// failure); callers treat that as verification failure but may log it
// distinctly from a genuine bad password.
type DirectoryBridge interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// IdentityStore is the subset of the store the authenticator needs.
type IdentityStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
}
