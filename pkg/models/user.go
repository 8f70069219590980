package models

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AdminUserID is the id of the bootstrap administrator identity.
const AdminUserID = "admin"

// EnvAdminAPIKey optionally pins the bootstrap admin api key instead of
// generating a random one on first start.
const EnvAdminAPIKey = "CHISUBMIT_ADMIN_API_KEY"

// DefaultBcryptCost is the default cost parameter for bcrypt hashing.
// Cost 10 provides a good balance between security and performance.
const DefaultBcryptCost = 10

// APIKeyBytes is the number of random bytes in a generated api key
// (hex-encoded, so keys are twice as many characters).
const APIKeyBytes = 20

// User represents a person usable for authentication: an instructor, grader,
// student, or administrator.
//
// The id is externally assigned (typically the institution's account name)
// and is the natural key for roster reconciliation. The api key is an opaque
// secret looked up by exact match; it is nullable so placeholder roster rows
// can exist before a person ever logs in. PasswordHash is only populated when
// the local directory backend is in use; with the LDAP backend the password
// never touches the local store.
type User struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	FirstName    string    `gorm:"size:255" json:"first_name"`
	LastName     string    `gorm:"size:255" json:"last_name"`
	Email        string    `gorm:"size:255" json:"email,omitempty"`
	APIKey       *string   `gorm:"uniqueIndex;size:64" json:"-"`
	Admin        bool      `gorm:"default:false" json:"admin"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// FullName returns "First Last", or the id if neither name is set.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.ID
	}
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// HasAPIKey reports whether the user has an api key set.
func (u *User) HasAPIKey() bool {
	return u.APIKey != nil && *u.APIKey != ""
}

// Validate checks if the user has valid configuration.
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	return nil
}

// GenerateAPIKey returns a new random api key.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, APIKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword creates a bcrypt hash of the given password.
// Only used by the local directory backend.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if a password matches a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
