package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

// UserHandler serves user management endpoints.
type UserHandler struct {
	store store.Store
}

// NewUserHandler creates a user handler.
func NewUserHandler(st store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// UserResponse is the public view of a user. The API key and password
// hash are never included; keys are only returned by the dedicated
// api-key endpoint.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Admin     bool   `json:"admin,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Admin:     u.Admin,
	}
}

// CreateUserRequest is the request body for creating a user.
type CreateUserRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
}

// Me returns the authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := identityFrom(w, r)
	if !ok {
		return
	}
	WriteJSONOK(w, toUserResponse(user))
}

// List returns all users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to list users")
		return
	}

	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, toUserResponse(&users[i]))
	}
	WriteJSONOK(w, response)
}

// Get returns a single user. Non-admin callers can only fetch themselves.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "username")
	if !caller.Admin && caller.ID != userID {
		Forbidden(w, "Cannot view other users")
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			NotFound(w, "User not found")
		} else {
			InternalServerError(w, "Failed to get user")
		}
		return
	}

	WriteJSONOK(w, toUserResponse(user))
}

// Create creates a new user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user := &models.User{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Password != "" {
		hash, err := models.HashPassword(req.Password)
		if err != nil {
			InternalServerError(w, "Failed to hash password")
			return
		}
		user.PasswordHash = hash
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateUser):
			Conflict(w, "User already exists")
		default:
			BadRequest(w, err.Error())
		}
		return
	}

	WriteJSONCreated(w, toUserResponse(user))
}

// Update updates a user's profile fields.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "username")

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			NotFound(w, "User not found")
		} else {
			InternalServerError(w, "Failed to get user")
		}
		return
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := h.store.UpdateUser(r.Context(), user); err != nil {
		BadRequest(w, err.Error())
		return
	}

	WriteJSONOK(w, toUserResponse(user))
}

// Delete removes a user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "username")
	if userID == models.AdminUserID {
		Forbidden(w, "The built-in admin user cannot be deleted")
		return
	}

	if err := h.store.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			NotFound(w, "User not found")
		} else {
			InternalServerError(w, "Failed to delete user")
		}
		return
	}

	WriteNoContent(w)
}

// APIKeyResponse carries a freshly generated API key. This is the only
// place a key ever appears in a response body.
type APIKeyResponse struct {
	ID     string `json:"id"`
	APIKey string `json:"api_key"`
}

// RegenerateAPIKey replaces the user's API key and returns the new one.
// The previous key stops working immediately. Admins can rotate any
// user's key; everyone else only their own.
func (h *UserHandler) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "username")
	if !caller.Admin && caller.ID != userID {
		Forbidden(w, "Cannot rotate another user's API key")
		return
	}

	apiKey, err := models.GenerateAPIKey()
	if err != nil {
		InternalServerError(w, "Failed to generate API key")
		return
	}

	if err := h.store.SetAPIKey(r.Context(), userID, apiKey); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			NotFound(w, "User not found")
		} else {
			InternalServerError(w, "Failed to set API key")
		}
		return
	}

	WriteJSONCreated(w, APIKeyResponse{ID: userID, APIKey: apiKey})
}
