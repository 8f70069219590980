package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

type stubStore struct {
	users map[string]*models.User
}

func (s *stubStore) GetUser(_ context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, models.ErrUserNotFound
}

func (s *stubStore) GetUserByAPIKey(_ context.Context, _ string) (*models.User, error) {
	return nil, models.ErrUserNotFound
}

func TestVerify(t *testing.T) {
	hash, err := models.HashPassword("secret")
	require.NoError(t, err)
	user := &models.User{ID: "jdoe", FirstName: "Jane", LastName: "Doe", Email: "jdoe@uchicago.edu", PasswordHash: hash}

	bridge := New(&stubStore{users: map[string]*models.User{"jdoe": user}})
	ctx := context.Background()

	t.Run("correct password", func(t *testing.T) {
		ok, err := bridge.Verify(ctx, "jdoe", "secret")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := bridge.Verify(ctx, "jdoe", "wrong")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown user", func(t *testing.T) {
		ok, err := bridge.Verify(ctx, "nobody", "secret")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("user without hash", func(t *testing.T) {
		keyOnly := &models.User{ID: "apionly", FirstName: "A", LastName: "B", Email: "apionly@uchicago.edu"}
		b := New(&stubStore{users: map[string]*models.User{"apionly": keyOnly}})
		ok, err := b.Verify(ctx, "apionly", "anything")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
