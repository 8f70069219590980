package models

import (
	"fmt"
	"time"
)

// CourseRole represents the role of a user within a course.
type CourseRole string

const (
	// RoleInstructor can manage every aspect of a course.
	RoleInstructor CourseRole = "instructor"
	// RoleGrader can grade registrations assigned to them.
	RoleGrader CourseRole = "grader"
	// RoleStudent can manage their own teams and registrations.
	RoleStudent CourseRole = "student"
)

// IsValid checks if the role is a valid CourseRole.
func (r CourseRole) IsValid() bool {
	return r == RoleInstructor || r == RoleGrader || r == RoleStudent
}

// Course is the aggregate root for assignments and teams.
//
// Role predicates (IsInstructor, IsGrader, ...) evaluate against the loaded
// Members slice; callers must fetch the course with memberships preloaded
// before authorizing against it.
type Course struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Members     []CourseMember `gorm:"foreignKey:CourseID" json:"members,omitempty"`
	Assignments []Assignment   `gorm:"foreignKey:CourseID" json:"assignments,omitempty"`
	Teams       []Team         `gorm:"foreignKey:CourseID" json:"teams,omitempty"`
}

// TableName returns the table name for Course.
func (Course) TableName() string {
	return "courses"
}

// Validate checks if the course has valid configuration.
func (c *Course) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("course id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("course name is required")
	}
	return nil
}

// RoleOf returns the member record for the given user id.
// The composite primary key on (course_id, user_id) guarantees a user holds
// at most one role per course.
func (c *Course) RoleOf(userID string) (*CourseMember, bool) {
	for i := range c.Members {
		if c.Members[i].UserID == userID {
			return &c.Members[i], true
		}
	}
	return nil, false
}

// IsInstructor reports whether the user is an instructor in the course.
func (c *Course) IsInstructor(userID string) bool {
	m, ok := c.RoleOf(userID)
	return ok && m.Role == RoleInstructor
}

// IsGrader reports whether the user is a grader in the course.
func (c *Course) IsGrader(userID string) bool {
	m, ok := c.RoleOf(userID)
	return ok && m.Role == RoleGrader
}

// IsStudent reports whether the user is enrolled as a student, dropped or not.
// Dropped enrollment is soft state; the row is never deleted.
func (c *Course) IsStudent(userID string) bool {
	m, ok := c.RoleOf(userID)
	return ok && m.Role == RoleStudent
}

// IsActiveStudent reports whether the user is an enrolled student who has
// not dropped the course.
func (c *Course) IsActiveStudent(userID string) bool {
	m, ok := c.RoleOf(userID)
	return ok && m.Role == RoleStudent && !m.Dropped
}

// IsMember reports whether the user holds any role in the course.
func (c *Course) IsMember(userID string) bool {
	_, ok := c.RoleOf(userID)
	return ok
}

// HasElevatedPermissions reports whether the user may act on course data
// beyond their own: instructors, graders, and site admins.
func HasElevatedPermissions(u *User, c *Course) bool {
	if u == nil {
		return false
	}
	if u.Admin {
		return true
	}
	return c.IsInstructor(u.ID) || c.IsGrader(u.ID)
}

// CourseMember links a user to a course with a single role.
// The Dropped flag only applies to students.
type CourseMember struct {
	CourseID string     `gorm:"primaryKey;size:64" json:"course_id"`
	UserID   string     `gorm:"primaryKey;size:64" json:"user_id"`
	Role     CourseRole `gorm:"not null;size:50" json:"role"`
	Dropped  bool       `gorm:"default:false" json:"dropped"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName returns the table name for CourseMember.
func (CourseMember) TableName() string {
	return "course_members"
}

// Validate checks if the membership has valid configuration.
func (m *CourseMember) Validate() error {
	if m.CourseID == "" || m.UserID == "" {
		return fmt.Errorf("course id and user id are required")
	}
	if !m.Role.IsValid() {
		return fmt.Errorf("invalid role %q", m.Role)
	}
	if m.Dropped && m.Role != RoleStudent {
		return fmt.Errorf("only students can be dropped")
	}
	return nil
}
