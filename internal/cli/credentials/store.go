// Package credentials stores the chisubmit CLI's server connection
// settings and API key.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigDirName is the directory under XDG_CONFIG_HOME holding CLI state.
	ConfigDirName = "chisubmit"
	// CredentialsFileName is the name of the credentials file.
	CredentialsFileName = "credentials.json"
	// FilePermissions for the credentials file (owner read/write only).
	FilePermissions = 0600
	// DirPermissions for the config directory.
	DirPermissions = 0700
)

// ErrNotLoggedIn indicates no stored credentials exist.
var ErrNotLoggedIn = errors.New("not logged in - run 'chisubmit login' first")

// Credentials holds everything the CLI needs to talk to a server.
type Credentials struct {
	ServerURL     string `json:"server_url"`
	Username      string `json:"username,omitempty"`
	APIKey        string `json:"api_key"`
	DefaultCourse string `json:"default_course,omitempty"`
}

// Store manages credential persistence.
type Store struct {
	path string
}

// NewStore creates a store rooted at the default config path.
func NewStore() (*Store, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// NewStoreAt creates a store backed by an explicit file path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// credentialsPath returns the default credentials file location.
func credentialsPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDirName, CredentialsFileName), nil
}

// Load reads stored credentials. Returns ErrNotLoggedIn if none exist.
func (s *Store) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("corrupt credentials file %s: %w", s.path, err)
	}
	if creds.APIKey == "" {
		return nil, ErrNotLoggedIn
	}

	return &creds, nil
}

// Save writes credentials to disk, creating the config directory as
// needed. The file is owner-readable only since it holds the API key.
func (s *Store) Save(creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), DirPermissions); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, FilePermissions)
}

// SetDefaultCourse sets the course used when --course is not given.
func (s *Store) SetDefaultCourse(courseID string) error {
	creds, err := s.Load()
	if err != nil {
		return err
	}
	creds.DefaultCourse = courseID
	return s.Save(creds)
}

// Clear deletes stored credentials (logout).
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Path returns the credentials file location.
func (s *Store) Path() string {
	return s.path
}
