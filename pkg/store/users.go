package store

import (
	"context"
	"fmt"
	"os"

	"github.com/uchicago-cs/chisubmit-sub001/internal/logger"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// GetUser retrieves a user by ID.
func (s *GORMStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return getByField[models.User](ctx, s.db, "id", id, models.ErrUserNotFound)
}

// GetUserByAPIKey retrieves the user holding the given API key.
// The lookup is an exact match against the stored key.
func (s *GORMStore) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	return getByField[models.User](ctx, s.db, "api_key", apiKey, models.ErrUserNotFound)
}

// ListUsers retrieves all users.
func (s *GORMStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return listAll[models.User](ctx, s.db, nil)
}

// CreateUser creates a new user.
func (s *GORMStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	return create(ctx, s.db, user, models.ErrDuplicateUser)
}

// UpdateUser updates an existing user.
func (s *GORMStore) UpdateUser(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"admin":      user.Admin,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// DeleteUser deletes a user by ID.
func (s *GORMStore) DeleteUser(ctx context.Context, id string) error {
	return deleteByConds[models.User](ctx, s.db, map[string]any{"id": id}, models.ErrUserNotFound)
}

// SetAPIKey replaces the user's API key.
func (s *GORMStore) SetAPIKey(ctx context.Context, id string, apiKey string) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("api_key", apiKey)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// EnsureAdminUser creates the built-in admin user if it doesn't exist.
//
// On first run the admin's API key is taken from CHISUBMIT_ADMIN_API_KEY
// if set, otherwise a random key is generated and logged once so the
// operator can capture it.
func (s *GORMStore) EnsureAdminUser(ctx context.Context) (*models.User, bool, error) {
	existing, err := s.GetUser(ctx, models.AdminUserID)
	if err == nil {
		return existing, false, nil
	}
	if err != models.ErrUserNotFound {
		return nil, false, err
	}

	apiKey := os.Getenv(models.EnvAdminAPIKey)
	generated := false
	if apiKey == "" {
		apiKey, err = models.GenerateAPIKey()
		if err != nil {
			return nil, false, fmt.Errorf("failed to generate admin API key: %w", err)
		}
		generated = true
	}

	admin := &models.User{
		ID:        models.AdminUserID,
		FirstName: "Admin",
		LastName:  "User",
		Email:     "admin@localhost",
		APIKey:    &apiKey,
		Admin:     true,
	}

	if err := s.CreateUser(ctx, admin); err != nil {
		// Lost a race with another instance bootstrapping the same database.
		if err == models.ErrDuplicateUser {
			existing, err = s.GetUser(ctx, models.AdminUserID)
			return existing, false, err
		}
		return nil, false, err
	}

	if generated {
		logger.Info("Created admin user with generated API key",
			"user", models.AdminUserID,
			"api_key", apiKey)
	} else {
		logger.Info("Created admin user", "user", models.AdminUserID)
	}

	return admin, true, nil
}
