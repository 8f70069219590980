// Package ldap implements the directory bridge against an LDAP server.
//
// Verification is a bind with the user's own credentials: the user DN is
// derived from a configurable template and the bind either succeeds or
// fails. Transport errors are reported separately from failed binds so
// callers can log an unreachable directory distinctly from a bad
// password.
package ldap

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	goldap "github.com/go-ldap/ldap/v3"

	"github.com/uchicago-cs/chisubmit-sub001/internal/logger"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
)

// DefaultTimeout bounds the blocking directory call.
const DefaultTimeout = 5 * time.Second

// Config contains LDAP directory configuration.
type Config struct {
	// URL is the directory address, e.g. "ldaps://ldap.uchicago.edu:636".
	URL string `mapstructure:"url" yaml:"url"`

	// BindDNTemplate turns a username into a bind DN. It must contain
	// exactly one %s verb, e.g. "uid=%s,ou=people,dc=uchicago,dc=edu".
	BindDNTemplate string `mapstructure:"bind_dn_template" yaml:"bind_dn_template"`

	// SkipTLSVerify disables certificate verification. This weakens
	// the channel and must be an explicit opt-in; a warning is logged
	// whenever it is enabled.
	SkipTLSVerify bool `mapstructure:"skip_tls_verify" yaml:"skip_tls_verify"`

	// Timeout bounds each directory call. Default: DefaultTimeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("ldap url is required")
	}
	if c.BindDNTemplate == "" {
		return fmt.Errorf("ldap bind dn template is required")
	}
	return nil
}

// Bridge verifies credentials by binding to an LDAP directory.
type Bridge struct {
	config Config
}

// New creates an LDAP directory bridge.
func New(config Config) (*Bridge, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ldap configuration: %w", err)
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	if config.SkipTLSVerify {
		logger.Warn("LDAP certificate verification is disabled", "url", config.URL)
	}

	return &Bridge{config: config}, nil
}

// Verify binds to the directory with the user's credentials.
//
// A failed bind returns (false, nil). A connection or protocol error
// returns (false, err) wrapping auth.ErrDirectoryUnavailable; for the
// authentication decision both are failures.
func (b *Bridge) Verify(ctx context.Context, username, password string) (bool, error) {
	// An empty password would turn the bind into an anonymous bind,
	// which some directories accept.
	if password == "" {
		return false, nil
	}

	conn, err := goldap.DialURL(b.config.URL,
		goldap.DialWithTLSConfig(&tls.Config{
			InsecureSkipVerify: b.config.SkipTLSVerify,
		}))
	if err != nil {
		return false, fmt.Errorf("%w: %v", auth.ErrDirectoryUnavailable, err)
	}
	defer conn.Close()

	timeout := b.config.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	conn.SetTimeout(timeout)

	bindDN := fmt.Sprintf(b.config.BindDNTemplate, goldap.EscapeDN(username))
	if err := conn.Bind(bindDN, password); err != nil {
		if goldap.IsErrorWithCode(err, goldap.LDAPResultInvalidCredentials) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", auth.ErrDirectoryUnavailable, err)
	}

	return true, nil
}
