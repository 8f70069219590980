package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

// AssignmentHandler serves assignment and rubric endpoints.
type AssignmentHandler struct {
	store store.Store
}

// NewAssignmentHandler creates an assignment handler.
func NewAssignmentHandler(st store.Store) *AssignmentHandler {
	return &AssignmentHandler{store: st}
}

// AssignmentResponse is the public view of an assignment.
type AssignmentResponse struct {
	ID         string                    `json:"id"`
	CourseID   string                    `json:"course_id"`
	Name       string                    `json:"name"`
	Deadline   time.Time                 `json:"deadline"`
	MaxPoints  float64                   `json:"max_points"`
	Components []RubricComponentResponse `json:"components,omitempty"`
}

// RubricComponentResponse is the public view of a rubric component.
type RubricComponentResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
	Position    int     `json:"position"`
}

func toAssignmentResponse(a *models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:        a.ID,
		CourseID:  a.CourseID,
		Name:      a.Name,
		Deadline:  a.Deadline,
		MaxPoints: a.MaxPoints(),
	}
	for _, rc := range a.SortedComponents() {
		response.Components = append(response.Components, RubricComponentResponse{
			ID:          rc.ID,
			Description: rc.Description,
			Points:      rc.Points,
			Position:    rc.Position,
		})
	}
	return response
}

// List returns all assignments in the course. Course members only.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireMember(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	assignments, err := h.store.ListAssignments(r.Context(), course.ID)
	if err != nil {
		InternalServerError(w, "Failed to list assignments")
		return
	}

	response := make([]AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		response = append(response, toAssignmentResponse(&assignments[i]))
	}
	WriteJSONOK(w, response)
}

// Get returns a single assignment with its rubric. Course members only.
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireMember(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	assignment, err := h.store.GetAssignment(r.Context(), course.ID, chi.URLParam(r, "assignment"))
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			NotFound(w, "Assignment not found")
		} else {
			InternalServerError(w, "Failed to get assignment")
		}
		return
	}

	WriteJSONOK(w, toAssignmentResponse(assignment))
}

// Create creates a new assignment. Instructors only.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	var req struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Deadline time.Time `json:"deadline"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	assignment := &models.Assignment{
		CourseID: course.ID,
		ID:       req.ID,
		Name:     req.Name,
		Deadline: req.Deadline,
	}
	if err := h.store.CreateAssignment(r.Context(), assignment); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateAssignment):
			Conflict(w, "Assignment already exists")
		default:
			BadRequest(w, err.Error())
		}
		return
	}

	WriteJSONCreated(w, toAssignmentResponse(assignment))
}

// Update updates an assignment's name or deadline. Instructors only.
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	assignment, err := h.store.GetAssignment(r.Context(), course.ID, chi.URLParam(r, "assignment"))
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			NotFound(w, "Assignment not found")
		} else {
			InternalServerError(w, "Failed to get assignment")
		}
		return
	}

	var req struct {
		Name     *string    `json:"name"`
		Deadline *time.Time `json:"deadline"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Name != nil {
		assignment.Name = *req.Name
	}
	if req.Deadline != nil {
		assignment.Deadline = *req.Deadline
	}

	if err := h.store.UpdateAssignment(r.Context(), assignment); err != nil {
		BadRequest(w, err.Error())
		return
	}

	WriteJSONOK(w, toAssignmentResponse(assignment))
}

// Delete removes an assignment and its rubric. Instructors only.
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	err := h.store.DeleteAssignment(r.Context(), course.ID, chi.URLParam(r, "assignment"))
	if err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			NotFound(w, "Assignment not found")
		} else {
			InternalServerError(w, "Failed to delete assignment")
		}
		return
	}

	WriteNoContent(w)
}

// AddRubricComponent adds a rubric component. Instructors only.
func (h *AssignmentHandler) AddRubricComponent(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	assignmentID := chi.URLParam(r, "assignment")
	if _, err := h.store.GetAssignment(r.Context(), course.ID, assignmentID); err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			NotFound(w, "Assignment not found")
		} else {
			InternalServerError(w, "Failed to get assignment")
		}
		return
	}

	var req struct {
		Description string  `json:"description"`
		Points      float64 `json:"points"`
		Position    int     `json:"position"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	component := &models.RubricComponent{
		CourseID:     course.ID,
		AssignmentID: assignmentID,
		Description:  req.Description,
		Points:       req.Points,
		Position:     req.Position,
	}
	if err := h.store.CreateRubricComponent(r.Context(), component); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateRubricComponent):
			Conflict(w, "Rubric component with this description already exists")
		default:
			BadRequest(w, err.Error())
		}
		return
	}

	WriteJSONCreated(w, RubricComponentResponse{
		ID:          component.ID,
		Description: component.Description,
		Points:      component.Points,
		Position:    component.Position,
	})
}

// DeleteRubricComponent removes a rubric component and any grades
// recorded against it. Instructors only.
func (h *AssignmentHandler) DeleteRubricComponent(w http.ResponseWriter, r *http.Request) {
	_, _, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	err := h.store.DeleteRubricComponent(r.Context(), chi.URLParam(r, "component"))
	if err != nil {
		if errors.Is(err, models.ErrRubricComponentNotFound) {
			NotFound(w, "Rubric component not found")
		} else {
			InternalServerError(w, "Failed to delete rubric component")
		}
		return
	}

	WriteNoContent(w)
}
