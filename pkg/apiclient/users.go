package apiclient

import "fmt"

// User is a user as returned by the API.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Admin     bool   `json:"admin,omitempty"`
}

// CreateUserRequest contains the fields for creating a user.
type CreateUserRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

// UpdateUserRequest contains the fields for updating a user. Nil fields
// are left unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// APIKey is a freshly generated credential for a user.
type APIKey struct {
	ID     string `json:"id"`
	APIKey string `json:"api_key"`
}

// Me returns the authenticated user.
func (c *Client) Me() (*User, error) {
	var user User
	if err := c.get("/api/v1/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users. Requires admin.
func (c *Client) ListUsers() ([]User, error) {
	var users []User
	if err := c.get("/api/v1/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a single user.
func (c *Client) GetUser(username string) (*User, error) {
	var user User
	if err := c.get(fmt.Sprintf("/api/v1/users/%s", username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user. Requires admin.
func (c *Client) CreateUser(req CreateUserRequest) (*User, error) {
	var user User
	if err := c.post("/api/v1/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user. Requires admin.
func (c *Client) UpdateUser(username string, req UpdateUserRequest) (*User, error) {
	var user User
	if err := c.put(fmt.Sprintf("/api/v1/users/%s", username), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a user. Requires admin.
func (c *Client) DeleteUser(username string) error {
	return c.delete(fmt.Sprintf("/api/v1/users/%s", username))
}

// RegenerateAPIKey rotates a user's API key and returns the new key.
// The old key stops working immediately.
func (c *Client) RegenerateAPIKey(username string) (*APIKey, error) {
	var key APIKey
	if err := c.post(fmt.Sprintf("/api/v1/users/%s/api-key", username), nil, &key); err != nil {
		return nil, err
	}
	return &key, nil
}
