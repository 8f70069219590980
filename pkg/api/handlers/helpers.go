package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful, false if decoding fails (error response is written automatically).
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}

// identityFrom returns the authenticated user, writing a 401 if the
// middleware did not attach one.
func identityFrom(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := auth.IdentityFrom(r.Context())
	if !ok {
		Unauthorized(w)
		return nil, false
	}
	return user, true
}

// loadCourse fetches the course (members preloaded) and writes the
// appropriate problem response on failure.
func loadCourse(w http.ResponseWriter, r *http.Request, st store.Store, courseID string) (*models.Course, bool) {
	course, err := st.GetCourse(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			NotFound(w, "Course not found")
		} else {
			InternalServerError(w, "Failed to load course")
		}
		return nil, false
	}
	return course, true
}

// requireElevated loads the course and checks the caller has elevated
// permissions on it (instructor, grader, or admin).
func requireElevated(w http.ResponseWriter, r *http.Request, st store.Store, courseID string) (*models.User, *models.Course, bool) {
	user, ok := identityFrom(w, r)
	if !ok {
		return nil, nil, false
	}

	course, ok := loadCourse(w, r, st, courseID)
	if !ok {
		return nil, nil, false
	}

	if !models.HasElevatedPermissions(user, course) {
		Forbidden(w, "Instructor or grader role required")
		return nil, nil, false
	}

	return user, course, true
}

// requireInstructor loads the course and checks the caller is an
// instructor of it (or an admin).
func requireInstructor(w http.ResponseWriter, r *http.Request, st store.Store, courseID string) (*models.User, *models.Course, bool) {
	user, ok := identityFrom(w, r)
	if !ok {
		return nil, nil, false
	}

	course, ok := loadCourse(w, r, st, courseID)
	if !ok {
		return nil, nil, false
	}

	if !user.Admin && !course.IsInstructor(user.ID) {
		Forbidden(w, "Instructor role required")
		return nil, nil, false
	}

	return user, course, true
}

// requireMember loads the course and checks the caller is a member of it
// (or an admin).
func requireMember(w http.ResponseWriter, r *http.Request, st store.Store, courseID string) (*models.User, *models.Course, bool) {
	user, ok := identityFrom(w, r)
	if !ok {
		return nil, nil, false
	}

	course, ok := loadCourse(w, r, st, courseID)
	if !ok {
		return nil, nil, false
	}

	if !user.Admin && !course.IsMember(user.ID) {
		Forbidden(w, "Course membership required")
		return nil, nil, false
	}

	return user, course, true
}
