package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/uchicago-cs/chisubmit-sub001/internal/logger"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/reconcile"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

// CourseHandler serves course and membership endpoints.
type CourseHandler struct {
	store store.Store
	db    *gorm.DB
}

// NewCourseHandler creates a course handler. The raw database handle is
// used by the roster import, which reconciles users by natural key.
func NewCourseHandler(st store.Store, db *gorm.DB) *CourseHandler {
	return &CourseHandler{store: st, db: db}
}

// CourseResponse is the public view of a course.
type CourseResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{ID: c.ID, Name: c.Name}
}

// List returns courses visible to the caller: all of them for admins,
// otherwise only courses the caller is a member of.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(w, r)
	if !ok {
		return
	}

	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		InternalServerError(w, "Failed to list courses")
		return
	}

	response := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		if !caller.Admin {
			course, err := h.store.GetCourse(r.Context(), courses[i].ID)
			if err != nil || !course.IsMember(caller.ID) {
				continue
			}
		}
		response = append(response, toCourseResponse(&courses[i]))
	}
	WriteJSONOK(w, response)
}

// Get returns a single course. Course members and admins only.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireMember(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}
	WriteJSONOK(w, toCourseResponse(course))
}

// Create creates a new course.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	course := &models.Course{ID: req.ID, Name: req.Name}
	if err := h.store.CreateCourse(r.Context(), course); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateCourse):
			Conflict(w, "Course already exists")
		default:
			BadRequest(w, err.Error())
		}
		return
	}

	WriteJSONCreated(w, toCourseResponse(course))
}

// Update updates a course's name. Instructors and admins only.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	course.Name = req.Name
	if err := h.store.UpdateCourse(r.Context(), course); err != nil {
		BadRequest(w, err.Error())
		return
	}

	WriteJSONOK(w, toCourseResponse(course))
}

// Delete removes a course and everything scoped to it.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "course")

	if err := h.store.DeleteCourse(r.Context(), courseID); err != nil {
		if errors.Is(err, models.ErrCourseNotFound) {
			NotFound(w, "Course not found")
		} else {
			InternalServerError(w, "Failed to delete course")
		}
		return
	}

	WriteNoContent(w)
}

// MemberResponse is the public view of a course membership.
type MemberResponse struct {
	UserID  string            `json:"user_id"`
	Role    models.CourseRole `json:"role"`
	Dropped bool              `json:"dropped,omitempty"`
	User    *UserResponse     `json:"user,omitempty"`
}

func toMemberResponse(m *models.CourseMember) MemberResponse {
	response := MemberResponse{
		UserID:  m.UserID,
		Role:    m.Role,
		Dropped: m.Dropped,
	}
	if m.User != nil {
		user := toUserResponse(m.User)
		response.User = &user
	}
	return response
}

// ListMembers returns course memberships, optionally filtered with
// ?role=instructor|grader|student. Elevated permissions required.
func (h *CourseHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireElevated(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	role := models.CourseRole(r.URL.Query().Get("role"))
	if role != "" && !role.IsValid() {
		BadRequest(w, "Invalid role")
		return
	}

	members, err := h.store.ListCourseMembers(r.Context(), course.ID, role)
	if err != nil {
		InternalServerError(w, "Failed to list members")
		return
	}

	response := make([]MemberResponse, 0, len(members))
	for i := range members {
		response = append(response, toMemberResponse(&members[i]))
	}
	WriteJSONOK(w, response)
}

// AddMember enrolls an existing user in the course.
func (h *CourseHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	var req struct {
		UserID string            `json:"user_id"`
		Role   models.CourseRole `json:"role"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if _, err := h.store.GetUser(r.Context(), req.UserID); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			NotFound(w, "User not found")
		} else {
			InternalServerError(w, "Failed to get user")
		}
		return
	}

	member := &models.CourseMember{
		CourseID: course.ID,
		UserID:   req.UserID,
		Role:     req.Role,
	}
	if err := h.store.AddCourseMember(r.Context(), member); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateMember):
			Conflict(w, "User already has a role in the course")
		default:
			BadRequest(w, err.Error())
		}
		return
	}

	WriteJSONCreated(w, toMemberResponse(member))
}

// UpdateMember updates a membership's role or dropped flag.
func (h *CourseHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	member, err := h.store.GetCourseMember(r.Context(), course.ID, chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, models.ErrMemberNotFound) {
			NotFound(w, "User is not a member of the course")
		} else {
			InternalServerError(w, "Failed to get member")
		}
		return
	}

	var req struct {
		Role    *models.CourseRole `json:"role"`
		Dropped *bool              `json:"dropped"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Role != nil {
		member.Role = *req.Role
	}
	if req.Dropped != nil {
		member.Dropped = *req.Dropped
	}

	if err := h.store.UpdateCourseMember(r.Context(), member); err != nil {
		BadRequest(w, err.Error())
		return
	}

	WriteJSONOK(w, toMemberResponse(member))
}

// RemoveMember removes a user from the course entirely. Use the dropped
// flag instead to keep the student's record around.
func (h *CourseHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	err := h.store.RemoveCourseMember(r.Context(), course.ID, chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, models.ErrMemberNotFound) {
			NotFound(w, "User is not a member of the course")
		} else {
			InternalServerError(w, "Failed to remove member")
		}
		return
	}

	WriteNoContent(w)
}

// RosterEntry is one student in a roster import.
type RosterEntry struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// RosterImportResponse summarizes a roster import.
type RosterImportResponse struct {
	UsersCreated    int `json:"users_created"`
	Enrolled        int `json:"enrolled"`
	AlreadyEnrolled int `json:"already_enrolled"`
}

// ImportRoster enrolls a batch of students, creating user records as
// needed. Users are reconciled by id, so re-importing an overlapping
// roster is idempotent: existing users are reused, existing enrollments
// are left alone.
func (h *CourseHandler) ImportRoster(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	var entries []RosterEntry
	if !decodeJSONBody(w, r, &entries) {
		return
	}

	// One reconciler per import: the whole batch is one unit of work.
	reconciler := reconcile.New(h.db)
	var summary RosterImportResponse

	for _, entry := range entries {
		if entry.ID == "" {
			BadRequest(w, "Roster entry with empty id")
			return
		}

		existedBefore := true
		user, err := reconcile.Resolve(r.Context(), reconciler, "user",
			reconcile.Key{"id": entry.ID},
			func() (*models.User, error) {
				existedBefore = false
				return &models.User{
					ID:        entry.ID,
					FirstName: entry.FirstName,
					LastName:  entry.LastName,
					Email:     entry.Email,
				}, nil
			},
			func(u *models.User) reconcile.Key {
				return reconcile.Key{"id": u.ID}
			})
		if err != nil {
			logger.Error("Roster import failed", "course", course.ID, "user", entry.ID, "error", err)
			InternalServerError(w, "Failed to reconcile user "+entry.ID)
			return
		}
		if !existedBefore {
			summary.UsersCreated++
		}

		member := &models.CourseMember{
			CourseID: course.ID,
			UserID:   user.ID,
			Role:     models.RoleStudent,
		}
		switch err := h.store.AddCourseMember(r.Context(), member); {
		case err == nil:
			summary.Enrolled++
		case errors.Is(err, models.ErrDuplicateMember):
			summary.AlreadyEnrolled++
		default:
			InternalServerError(w, "Failed to enroll "+user.ID)
			return
		}
	}

	logger.Info("Roster imported",
		"course", course.ID,
		"users_created", summary.UsersCreated,
		"enrolled", summary.Enrolled,
		"already_enrolled", summary.AlreadyEnrolled,
	)
	WriteJSONOK(w, summary)
}
