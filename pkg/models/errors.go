package models

import "errors"

// Common errors for identity and course management operations.
var (
	// User errors
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")

	// Course errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrDuplicateCourse = errors.New("course already exists")

	// Membership errors
	ErrMemberNotFound  = errors.New("user is not a member of the course")
	ErrDuplicateMember = errors.New("user already has a role in the course")

	// Assignment errors
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrDuplicateAssignment = errors.New("assignment already exists")

	// Rubric errors
	ErrRubricComponentNotFound  = errors.New("rubric component not found")
	ErrDuplicateRubricComponent = errors.New("rubric component with the same description already exists")

	// Team errors
	ErrTeamNotFound        = errors.New("team not found")
	ErrDuplicateTeam       = errors.New("team already exists")
	ErrTeamMemberNotFound  = errors.New("user is not a member of the team")
	ErrDuplicateTeamMember = errors.New("user is already a member of the team")

	// Registration errors
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("team is already registered for the assignment")

	// Grade errors
	ErrGradeOutOfRange = errors.New("grade exceeds the rubric component maximum")
	ErrGradeNotFound   = errors.New("grade not found")

	// Penalty errors
	ErrPenaltyNotFound = errors.New("penalty not found")

	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")
)
