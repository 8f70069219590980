package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/reconcile"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

// TeamHandler serves team, registration and grading endpoints.
type TeamHandler struct {
	store store.Store
	db    *gorm.DB
}

// NewTeamHandler creates a team handler. The raw database handle is used
// to reconcile registrations by their natural key.
func NewTeamHandler(st store.Store, db *gorm.DB) *TeamHandler {
	return &TeamHandler{store: st, db: db}
}

// TeamResponse is the public view of a team.
type TeamResponse struct {
	ID            string                 `json:"id"`
	CourseID      string                 `json:"course_id"`
	Members       []string               `json:"members"`
	Registrations []RegistrationResponse `json:"registrations,omitempty"`
}

// RegistrationResponse is the public view of a registration.
type RegistrationResponse struct {
	ID           string            `json:"id"`
	TeamID       string            `json:"team_id"`
	AssignmentID string            `json:"assignment_id"`
	GraderID     *string           `json:"grader_id,omitempty"`
	Grades       []GradeResponse   `json:"grades,omitempty"`
	Penalties    []PenaltyResponse `json:"penalties,omitempty"`
	TotalPoints  float64           `json:"total_points"`
}

// GradeResponse is the public view of a grade.
type GradeResponse struct {
	RubricComponentID string  `json:"rubric_component_id"`
	Points            float64 `json:"points"`
}

// PenaltyResponse is the public view of a penalty.
type PenaltyResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
}

func toRegistrationResponse(reg *models.Registration) RegistrationResponse {
	response := RegistrationResponse{
		ID:           reg.ID,
		TeamID:       reg.TeamID,
		AssignmentID: reg.AssignmentID,
		GraderID:     reg.GraderID,
		TotalPoints:  reg.TotalPoints(),
	}
	for i := range reg.Grades {
		response.Grades = append(response.Grades, GradeResponse{
			RubricComponentID: reg.Grades[i].RubricComponentID,
			Points:            reg.Grades[i].Points,
		})
	}
	for i := range reg.Penalties {
		response.Penalties = append(response.Penalties, PenaltyResponse{
			ID:          reg.Penalties[i].ID,
			Description: reg.Penalties[i].Description,
			Points:      reg.Penalties[i].Points,
		})
	}
	return response
}

func toTeamResponse(team *models.Team) TeamResponse {
	response := TeamResponse{
		ID:       team.ID,
		CourseID: team.CourseID,
	}
	for i := range team.Members {
		response.Members = append(response.Members, team.Members[i].UserID)
	}
	for i := range team.Registrations {
		response.Registrations = append(response.Registrations, toRegistrationResponse(&team.Registrations[i]))
	}
	return response
}

// List returns all teams in the course. Elevated permissions required.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireElevated(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	teams, err := h.store.ListTeams(r.Context(), course.ID)
	if err != nil {
		InternalServerError(w, "Failed to list teams")
		return
	}

	response := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		response = append(response, toTeamResponse(&teams[i]))
	}
	WriteJSONOK(w, response)
}

// Get returns a single team. Team members see their own team; anyone
// with elevated permissions sees all teams.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, course, ok := requireMember(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	team, err := h.store.GetTeam(r.Context(), course.ID, chi.URLParam(r, "team"))
	if err != nil {
		if errors.Is(err, models.ErrTeamNotFound) {
			NotFound(w, "Team not found")
		} else {
			InternalServerError(w, "Failed to get team")
		}
		return
	}

	if !models.HasElevatedPermissions(caller, course) && !team.HasMember(caller.ID) {
		Forbidden(w, "Not a member of this team")
		return
	}

	WriteJSONOK(w, toTeamResponse(team))
}

// Create creates a new team. Active students create teams they belong
// to; instructors and admins can create any team.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, course, ok := requireMember(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	var req struct {
		ID      string   `json:"id"`
		Members []string `json:"members"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	elevated := models.HasElevatedPermissions(caller, course)
	if !elevated {
		if !course.IsActiveStudent(caller.ID) {
			Forbidden(w, "Only active students can create teams")
			return
		}
		found := false
		for _, m := range req.Members {
			if m == caller.ID {
				found = true
				break
			}
		}
		if !found {
			Forbidden(w, "Students can only create teams they belong to")
			return
		}
	}

	for _, userID := range req.Members {
		if !course.IsActiveStudent(userID) {
			BadRequest(w, "Team member "+userID+" is not an active student in the course")
			return
		}
	}

	team := &models.Team{CourseID: course.ID, ID: req.ID}
	if err := h.store.CreateTeam(r.Context(), team); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateTeam):
			Conflict(w, "Team already exists")
		default:
			BadRequest(w, err.Error())
		}
		return
	}

	for _, userID := range req.Members {
		err := h.store.AddTeamMember(r.Context(), &models.TeamMember{
			CourseID: course.ID,
			TeamID:   team.ID,
			UserID:   userID,
		})
		if err != nil && !errors.Is(err, models.ErrDuplicateTeamMember) {
			InternalServerError(w, "Failed to add team member "+userID)
			return
		}
	}

	created, err := h.store.GetTeam(r.Context(), course.ID, team.ID)
	if err != nil {
		InternalServerError(w, "Failed to reload team")
		return
	}
	WriteJSONCreated(w, toTeamResponse(created))
}

// Delete removes a team and its registrations. Instructors only.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	if err := h.store.DeleteTeam(r.Context(), course.ID, chi.URLParam(r, "team")); err != nil {
		if errors.Is(err, models.ErrTeamNotFound) {
			NotFound(w, "Team not found")
		} else {
			InternalServerError(w, "Failed to delete team")
		}
		return
	}

	WriteNoContent(w)
}

// AddMember adds a user to the team. Instructors only; students join at
// team creation.
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if !course.IsActiveStudent(req.UserID) {
		BadRequest(w, "User is not an active student in the course")
		return
	}

	member := &models.TeamMember{
		CourseID: course.ID,
		TeamID:   chi.URLParam(r, "team"),
		UserID:   req.UserID,
	}
	if err := h.store.AddTeamMember(r.Context(), member); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateTeamMember):
			Conflict(w, "User is already a member of the team")
		default:
			BadRequest(w, err.Error())
		}
		return
	}

	WriteJSONCreated(w, map[string]string{
		"team_id": member.TeamID,
		"user_id": member.UserID,
	})
}

// RemoveMember removes a user from the team. Instructors only.
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	err := h.store.RemoveTeamMember(r.Context(), course.ID,
		chi.URLParam(r, "team"), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, models.ErrTeamMemberNotFound) {
			NotFound(w, "User is not a member of the team")
		} else {
			InternalServerError(w, "Failed to remove team member")
		}
		return
	}

	WriteNoContent(w)
}

// Register registers the team for an assignment. Registration is
// get-or-create: registering an already-registered team returns the
// existing registration instead of failing, so concurrent submissions
// from two team members both succeed.
func (h *TeamHandler) Register(w http.ResponseWriter, r *http.Request) {
	caller, course, ok := requireMember(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	team, err := h.store.GetTeam(r.Context(), course.ID, chi.URLParam(r, "team"))
	if err != nil {
		if errors.Is(err, models.ErrTeamNotFound) {
			NotFound(w, "Team not found")
		} else {
			InternalServerError(w, "Failed to get team")
		}
		return
	}

	if !models.HasElevatedPermissions(caller, course) && !team.HasMember(caller.ID) {
		Forbidden(w, "Not a member of this team")
		return
	}

	var req struct {
		AssignmentID string `json:"assignment_id"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if _, err := h.store.GetAssignment(r.Context(), course.ID, req.AssignmentID); err != nil {
		if errors.Is(err, models.ErrAssignmentNotFound) {
			NotFound(w, "Assignment not found")
		} else {
			InternalServerError(w, "Failed to get assignment")
		}
		return
	}

	reconciler := reconcile.New(h.db)
	registration, err := reconcile.Resolve(r.Context(), reconciler, "registration",
		reconcile.Key{
			"course_id":     course.ID,
			"team_id":       team.ID,
			"assignment_id": req.AssignmentID,
		},
		func() (*models.Registration, error) {
			return &models.Registration{
				ID:           uuid.NewString(),
				CourseID:     course.ID,
				TeamID:       team.ID,
				AssignmentID: req.AssignmentID,
			}, nil
		},
		func(reg *models.Registration) reconcile.Key {
			return reconcile.Key{
				"course_id":     reg.CourseID,
				"team_id":       reg.TeamID,
				"assignment_id": reg.AssignmentID,
			}
		})
	if err != nil {
		InternalServerError(w, "Failed to register team")
		return
	}

	WriteJSONCreated(w, toRegistrationResponse(registration))
}

// ListRegistrations returns all registrations for an assignment.
// Elevated permissions required.
func (h *TeamHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireElevated(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	registrations, err := h.store.ListRegistrationsByAssignment(r.Context(),
		course.ID, chi.URLParam(r, "assignment"))
	if err != nil {
		InternalServerError(w, "Failed to list registrations")
		return
	}

	response := make([]RegistrationResponse, 0, len(registrations))
	for i := range registrations {
		response = append(response, toRegistrationResponse(&registrations[i]))
	}
	WriteJSONOK(w, response)
}

// AssignGrader assigns a grader to a registration. Instructors only.
func (h *TeamHandler) AssignGrader(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	registration, ok := h.loadRegistration(w, r, course.ID)
	if !ok {
		return
	}

	var req struct {
		GraderID string `json:"grader_id"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if !course.IsGrader(req.GraderID) && !course.IsInstructor(req.GraderID) {
		BadRequest(w, "Grader must be a grader or instructor of the course")
		return
	}

	registration.GraderID = &req.GraderID
	if err := h.store.UpdateRegistration(r.Context(), registration); err != nil {
		InternalServerError(w, "Failed to assign grader")
		return
	}

	WriteJSONOK(w, toRegistrationResponse(registration))
}

// SubmitGrade records the grade for one rubric component. Instructors,
// or the grader assigned to the registration. Regrading overwrites.
func (h *TeamHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	caller, course, ok := requireElevated(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	registration, ok := h.loadRegistration(w, r, course.ID)
	if !ok {
		return
	}

	if !caller.Admin && !course.IsInstructor(caller.ID) {
		if registration.GraderID == nil || *registration.GraderID != caller.ID {
			Forbidden(w, "Only the assigned grader can grade this registration")
			return
		}
	}

	var req struct {
		RubricComponentID string  `json:"rubric_component_id"`
		Points            float64 `json:"points"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	component, err := h.store.GetRubricComponent(r.Context(), req.RubricComponentID)
	if err != nil {
		if errors.Is(err, models.ErrRubricComponentNotFound) {
			NotFound(w, "Rubric component not found")
		} else {
			InternalServerError(w, "Failed to get rubric component")
		}
		return
	}
	if component.AssignmentID != registration.AssignmentID || component.CourseID != registration.CourseID {
		BadRequest(w, "Rubric component does not belong to the registration's assignment")
		return
	}

	grade := &models.Grade{
		RegistrationID:    registration.ID,
		RubricComponentID: component.ID,
		Points:            req.Points,
	}
	if err := grade.ValidateAgainst(component); err != nil {
		UnprocessableEntity(w, err.Error())
		return
	}

	if err := h.store.UpsertGrade(r.Context(), grade); err != nil {
		InternalServerError(w, "Failed to record grade")
		return
	}

	WriteJSONOK(w, GradeResponse{
		RubricComponentID: grade.RubricComponentID,
		Points:            grade.Points,
	})
}

// AddPenalty records a penalty adjustment on a registration.
// Instructors only.
func (h *TeamHandler) AddPenalty(w http.ResponseWriter, r *http.Request) {
	_, course, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	registration, ok := h.loadRegistration(w, r, course.ID)
	if !ok {
		return
	}

	var req struct {
		Description string  `json:"description"`
		Points      float64 `json:"points"`
	}
	if !decodeJSONBody(w, r, &req) {
		return
	}

	penalty := &models.Penalty{
		RegistrationID: registration.ID,
		Description:    req.Description,
		Points:         req.Points,
	}
	if err := h.store.CreatePenalty(r.Context(), penalty); err != nil {
		BadRequest(w, err.Error())
		return
	}

	WriteJSONCreated(w, PenaltyResponse{
		ID:          penalty.ID,
		Description: penalty.Description,
		Points:      penalty.Points,
	})
}

// DeletePenalty removes a penalty adjustment. Instructors only.
func (h *TeamHandler) DeletePenalty(w http.ResponseWriter, r *http.Request) {
	_, _, ok := requireInstructor(w, r, h.store, chi.URLParam(r, "course"))
	if !ok {
		return
	}

	if err := h.store.DeletePenalty(r.Context(), chi.URLParam(r, "penalty")); err != nil {
		if errors.Is(err, models.ErrPenaltyNotFound) {
			NotFound(w, "Penalty not found")
		} else {
			InternalServerError(w, "Failed to delete penalty")
		}
		return
	}

	WriteNoContent(w)
}

// loadRegistration fetches the registration named in the URL and checks
// it belongs to the course being operated on.
func (h *TeamHandler) loadRegistration(w http.ResponseWriter, r *http.Request, courseID string) (*models.Registration, bool) {
	registration, err := h.store.GetRegistration(r.Context(), chi.URLParam(r, "registration"))
	if err != nil {
		if errors.Is(err, models.ErrRegistrationNotFound) {
			NotFound(w, "Registration not found")
		} else {
			InternalServerError(w, "Failed to get registration")
		}
		return nil, false
	}
	if registration.CourseID != courseID {
		NotFound(w, "Registration not found")
		return nil, false
	}
	return registration, true
}
