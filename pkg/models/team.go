package models

import (
	"fmt"
	"time"
)

// Team groups students within a course. Team ids are unique within their
// course (composite primary key). A team submits work by registering for
// assignments; the Registration carries all grading state.
type Team struct {
	CourseID  string    `gorm:"primaryKey;size:64" json:"course_id"`
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Members       []TeamMember   `gorm:"foreignKey:CourseID,TeamID;references:CourseID,ID" json:"members,omitempty"`
	Registrations []Registration `gorm:"foreignKey:CourseID,TeamID;references:CourseID,ID" json:"registrations,omitempty"`
}

// TableName returns the table name for Team.
func (Team) TableName() string {
	return "teams"
}

// Validate checks if the team has valid configuration.
func (t *Team) Validate() error {
	if t.CourseID == "" || t.ID == "" {
		return fmt.Errorf("course id and team id are required")
	}
	return nil
}

// HasMember reports whether the user belongs to the team.
func (t *Team) HasMember(userID string) bool {
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			return true
		}
	}
	return false
}

// RegistrationFor returns the team's registration for the given assignment.
func (t *Team) RegistrationFor(assignmentID string) (*Registration, bool) {
	for i := range t.Registrations {
		if t.Registrations[i].AssignmentID == assignmentID {
			return &t.Registrations[i], true
		}
	}
	return nil, false
}

// TeamMember links a student to a team.
type TeamMember struct {
	CourseID string `gorm:"primaryKey;size:64" json:"course_id"`
	TeamID   string `gorm:"primaryKey;size:64" json:"team_id"`
	UserID   string `gorm:"primaryKey;size:64" json:"user_id"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName returns the table name for TeamMember.
func (TeamMember) TableName() string {
	return "team_members"
}

// Registration links a team to an assignment and owns its grading state.
// The unique index on (course_id, team_id, assignment_id) is the database
// backstop for the at-most-one-registration-per-pair rule that
// pkg/reconcile relies on to recover from concurrent creation races.
type Registration struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	CourseID     string    `gorm:"size:64;not null;uniqueIndex:idx_team_assignment" json:"course_id"`
	TeamID       string    `gorm:"size:64;not null;uniqueIndex:idx_team_assignment" json:"team_id"`
	AssignmentID string    `gorm:"size:64;not null;uniqueIndex:idx_team_assignment" json:"assignment_id"`
	GraderID     *string   `gorm:"size:64" json:"grader_id,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Grades    []Grade   `gorm:"foreignKey:RegistrationID" json:"grades,omitempty"`
	Penalties []Penalty `gorm:"foreignKey:RegistrationID" json:"penalties,omitempty"`
}

// TableName returns the table name for Registration.
func (Registration) TableName() string {
	return "registrations"
}

// GradeFor returns the grade recorded for the given rubric component.
func (r *Registration) GradeFor(componentID string) (*Grade, bool) {
	for i := range r.Grades {
		if r.Grades[i].RubricComponentID == componentID {
			return &r.Grades[i], true
		}
	}
	return nil, false
}

// TotalPoints returns the sum of recorded grades plus penalties.
// Penalty points are stored negative, so the sum is the final score.
func (r *Registration) TotalPoints() float64 {
	var total float64
	for i := range r.Grades {
		total += r.Grades[i].Points
	}
	for i := range r.Penalties {
		total += r.Penalties[i].Points
	}
	return total
}

// Grade records the points awarded for one rubric component of one
// registration. The composite primary key enforces one grade per
// (registration, component) pair; pkg/store upserts on conflict.
type Grade struct {
	RegistrationID    string  `gorm:"primaryKey;size:36" json:"registration_id"`
	RubricComponentID string  `gorm:"primaryKey;size:36" json:"rubric_component_id"`
	Points            float64 `gorm:"not null" json:"points"`
}

// TableName returns the table name for Grade.
func (Grade) TableName() string {
	return "grades"
}

// ValidateAgainst checks the grade against its rubric component's bounds.
func (g *Grade) ValidateAgainst(rc *RubricComponent) error {
	if g.Points < 0 {
		return fmt.Errorf("grade points must be non-negative")
	}
	if g.Points > rc.Points {
		return ErrGradeOutOfRange
	}
	return nil
}

// Penalty is a point deduction applied to a registration as a whole,
// e.g. for late submission. Points are negative.
type Penalty struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	RegistrationID string  `gorm:"size:36;not null" json:"registration_id"`
	Description    string  `gorm:"size:255;not null" json:"description"`
	Points         float64 `gorm:"not null" json:"points"`
}

// TableName returns the table name for Penalty.
func (Penalty) TableName() string {
	return "penalties"
}

// Validate checks if the penalty has valid configuration.
func (p *Penalty) Validate() error {
	if p.Description == "" {
		return fmt.Errorf("penalty description is required")
	}
	if p.Points > 0 {
		return fmt.Errorf("penalty points must be zero or negative")
	}
	return nil
}
