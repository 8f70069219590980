// Package store provides persistence for chisubmit entities.
//
// The store is backed by a relational database (SQLite or PostgreSQL)
// through GORM. All unique-entity invariants enforced at the application
// layer are backed by database unique constraints, so concurrent writers
// racing on the same natural key surface as constraint violations rather
// than duplicate rows.
package store

import (
	"context"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// Store defines the interface for chisubmit persistence.
//
// All methods are safe for concurrent use.
type Store interface {
	// ========================================================================
	// User Management
	// ========================================================================

	// GetUser retrieves a user by ID.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// GetUserByAPIKey retrieves the user holding the given API key.
	// Returns models.ErrUserNotFound if no user holds the key.
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)

	// ListUsers retrieves all users.
	ListUsers(ctx context.Context) ([]models.User, error)

	// CreateUser creates a new user.
	// Returns models.ErrDuplicateUser if the ID is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUser updates an existing user.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes a user by ID.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, id string) error

	// SetAPIKey replaces the user's API key.
	// Returns models.ErrUserNotFound if the user doesn't exist.
	SetAPIKey(ctx context.Context, id string, apiKey string) error

	// EnsureAdminUser creates the built-in admin user if it doesn't exist,
	// generating an API key (or honoring CHISUBMIT_ADMIN_API_KEY).
	// Returns the admin user and whether it was created by this call.
	EnsureAdminUser(ctx context.Context) (*models.User, bool, error)

	// ========================================================================
	// Course Management
	// ========================================================================

	// GetCourse retrieves a course by ID, with members preloaded.
	// Returns models.ErrCourseNotFound if the course doesn't exist.
	GetCourse(ctx context.Context, id string) (*models.Course, error)

	// ListCourses retrieves all courses.
	ListCourses(ctx context.Context) ([]models.Course, error)

	// CreateCourse creates a new course.
	// Returns models.ErrDuplicateCourse if the ID is already taken.
	CreateCourse(ctx context.Context, course *models.Course) error

	// UpdateCourse updates an existing course.
	// Returns models.ErrCourseNotFound if the course doesn't exist.
	UpdateCourse(ctx context.Context, course *models.Course) error

	// DeleteCourse deletes a course and its dependent records.
	// Returns models.ErrCourseNotFound if the course doesn't exist.
	DeleteCourse(ctx context.Context, id string) error

	// AddCourseMember enrolls a user in a course with a role.
	// Returns models.ErrDuplicateMember if the user is already enrolled.
	AddCourseMember(ctx context.Context, member *models.CourseMember) error

	// GetCourseMember retrieves a single course membership.
	// Returns models.ErrMemberNotFound if the user is not enrolled.
	GetCourseMember(ctx context.Context, courseID, userID string) (*models.CourseMember, error)

	// ListCourseMembers retrieves course memberships, optionally filtered by role.
	ListCourseMembers(ctx context.Context, courseID string, role models.CourseRole) ([]models.CourseMember, error)

	// UpdateCourseMember updates an existing membership (role, dropped flag).
	// Returns models.ErrMemberNotFound if the user is not enrolled.
	UpdateCourseMember(ctx context.Context, member *models.CourseMember) error

	// RemoveCourseMember removes a user from a course entirely.
	// Returns models.ErrMemberNotFound if the user is not enrolled.
	RemoveCourseMember(ctx context.Context, courseID, userID string) error

	// ========================================================================
	// Assignment Management
	// ========================================================================

	// GetAssignment retrieves an assignment with its rubric components.
	// Returns models.ErrAssignmentNotFound if the assignment doesn't exist.
	GetAssignment(ctx context.Context, courseID, id string) (*models.Assignment, error)

	// ListAssignments retrieves all assignments in a course.
	ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error)

	// CreateAssignment creates a new assignment.
	// Returns models.ErrDuplicateAssignment if the ID is already taken in the course.
	CreateAssignment(ctx context.Context, assignment *models.Assignment) error

	// UpdateAssignment updates an existing assignment.
	// Returns models.ErrAssignmentNotFound if the assignment doesn't exist.
	UpdateAssignment(ctx context.Context, assignment *models.Assignment) error

	// DeleteAssignment deletes an assignment and its rubric.
	// Returns models.ErrAssignmentNotFound if the assignment doesn't exist.
	DeleteAssignment(ctx context.Context, courseID, id string) error

	// CreateRubricComponent adds a rubric component to an assignment.
	CreateRubricComponent(ctx context.Context, component *models.RubricComponent) error

	// GetRubricComponent retrieves a rubric component by its ID.
	// Returns models.ErrRubricComponentNotFound if it doesn't exist.
	GetRubricComponent(ctx context.Context, id string) (*models.RubricComponent, error)

	// UpdateRubricComponent updates an existing rubric component.
	UpdateRubricComponent(ctx context.Context, component *models.RubricComponent) error

	// DeleteRubricComponent deletes a rubric component.
	// Returns models.ErrRubricComponentNotFound if it doesn't exist.
	DeleteRubricComponent(ctx context.Context, id string) error

	// ========================================================================
	// Team Management
	// ========================================================================

	// GetTeam retrieves a team with members and registrations preloaded.
	// Returns models.ErrTeamNotFound if the team doesn't exist.
	GetTeam(ctx context.Context, courseID, id string) (*models.Team, error)

	// ListTeams retrieves all teams in a course.
	ListTeams(ctx context.Context, courseID string) ([]models.Team, error)

	// CreateTeam creates a new team.
	// Returns models.ErrDuplicateTeam if the ID is already taken in the course.
	CreateTeam(ctx context.Context, team *models.Team) error

	// DeleteTeam deletes a team and its dependent records.
	// Returns models.ErrTeamNotFound if the team doesn't exist.
	DeleteTeam(ctx context.Context, courseID, id string) error

	// AddTeamMember adds a user to a team.
	AddTeamMember(ctx context.Context, member *models.TeamMember) error

	// RemoveTeamMember removes a user from a team.
	RemoveTeamMember(ctx context.Context, courseID, teamID, userID string) error

	// ========================================================================
	// Registrations and Grading
	// ========================================================================

	// CreateRegistration registers a team for an assignment.
	// Returns models.ErrDuplicateRegistration if the team is already registered.
	CreateRegistration(ctx context.Context, registration *models.Registration) error

	// GetRegistration retrieves a registration with grades and penalties.
	// Returns models.ErrRegistrationNotFound if it doesn't exist.
	GetRegistration(ctx context.Context, id string) (*models.Registration, error)

	// GetRegistrationByTeamAssignment retrieves a registration by its natural key.
	// Returns models.ErrRegistrationNotFound if it doesn't exist.
	GetRegistrationByTeamAssignment(ctx context.Context, courseID, teamID, assignmentID string) (*models.Registration, error)

	// ListRegistrationsByAssignment retrieves all registrations for an assignment.
	ListRegistrationsByAssignment(ctx context.Context, courseID, assignmentID string) ([]models.Registration, error)

	// UpdateRegistration updates an existing registration (grader assignment).
	// Returns models.ErrRegistrationNotFound if it doesn't exist.
	UpdateRegistration(ctx context.Context, registration *models.Registration) error

	// UpsertGrade records or replaces the grade for a rubric component.
	UpsertGrade(ctx context.Context, grade *models.Grade) error

	// CreatePenalty records a penalty or bonus adjustment on a registration.
	CreatePenalty(ctx context.Context, penalty *models.Penalty) error

	// DeletePenalty removes a penalty adjustment.
	DeletePenalty(ctx context.Context, id string) error

	// ========================================================================
	// Lifecycle
	// ========================================================================

	// Healthcheck verifies the backing database is reachable.
	Healthcheck() error

	// Close closes the store and releases resources.
	Close() error
}
