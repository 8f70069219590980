package ldap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				URL:            "ldaps://ldap.example.edu:636",
				BindDNTemplate: "uid=%s,ou=people,dc=example,dc=edu",
			},
			wantErr: false,
		},
		{
			name: "missing url",
			config: Config{
				BindDNTemplate: "uid=%s,ou=people,dc=example,dc=edu",
			},
			wantErr: true,
		},
		{
			name: "missing template",
			config: Config{
				URL: "ldaps://ldap.example.edu:636",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_DefaultsTimeout(t *testing.T) {
	bridge, err := New(Config{
		URL:            "ldaps://ldap.example.edu:636",
		BindDNTemplate: "uid=%s,ou=people,dc=example,dc=edu",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, bridge.config.Timeout)
}

func TestVerify_EmptyPassword(t *testing.T) {
	bridge, err := New(Config{
		URL:            "ldaps://ldap.example.edu:636",
		BindDNTemplate: "uid=%s,ou=people,dc=example,dc=edu",
	})
	require.NoError(t, err)

	// Must not attempt an anonymous bind, and must not dial at all.
	ok, err := bridge.Verify(context.Background(), "jdoe", "")
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestVerify_UnreachableDirectory(t *testing.T) {
	bridge, err := New(Config{
		URL:            "ldap://127.0.0.1:1",
		BindDNTemplate: "uid=%s,ou=people,dc=example,dc=edu",
		Timeout:        500 * time.Millisecond,
	})
	require.NoError(t, err)

	ok, err := bridge.Verify(context.Background(), "jdoe", "secret")
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, auth.ErrDirectoryUnavailable))
}
