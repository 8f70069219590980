package models

import (
	"fmt"
	"sort"
	"time"
)

// Assignment is a graded piece of coursework with a deadline and a rubric.
// Assignment ids are unique within their course (composite primary key).
type Assignment struct {
	CourseID string    `gorm:"primaryKey;size:64" json:"course_id"`
	ID       string    `gorm:"primaryKey;size:64" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Deadline time.Time `gorm:"not null" json:"deadline"`

	Components []RubricComponent `gorm:"foreignKey:CourseID,AssignmentID;references:CourseID,ID" json:"components,omitempty"`
}

// TableName returns the table name for Assignment.
func (Assignment) TableName() string {
	return "assignments"
}

// Validate checks if the assignment has valid configuration.
func (a *Assignment) Validate() error {
	if a.CourseID == "" || a.ID == "" {
		return fmt.Errorf("course id and assignment id are required")
	}
	if a.Name == "" {
		return fmt.Errorf("assignment name is required")
	}
	if a.Deadline.IsZero() {
		return fmt.Errorf("assignment deadline is required")
	}
	for i := range a.Components {
		if err := a.Components[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IsPastDeadline reports whether the deadline has passed at the reference time.
func (a *Assignment) IsPastDeadline(reference time.Time) bool {
	return reference.After(a.Deadline)
}

// SortedComponents returns the rubric components in rubric order.
func (a *Assignment) SortedComponents() []RubricComponent {
	components := make([]RubricComponent, len(a.Components))
	copy(components, a.Components)
	sort.SliceStable(components, func(i, j int) bool {
		return components[i].Position < components[j].Position
	})
	return components
}

// MaxPoints returns the total points available across the rubric.
func (a *Assignment) MaxPoints() float64 {
	var total float64
	for i := range a.Components {
		total += a.Components[i].Points
	}
	return total
}

// ComponentByID returns the rubric component with the given id.
func (a *Assignment) ComponentByID(id string) (*RubricComponent, bool) {
	for i := range a.Components {
		if a.Components[i].ID == id {
			return &a.Components[i], true
		}
	}
	return nil, false
}

// RubricComponent is one gradable item of an assignment's rubric.
// Position fixes the rubric order; Points is the component maximum.
type RubricComponent struct {
	ID           string  `gorm:"primaryKey;size:36" json:"id"`
	CourseID     string  `gorm:"size:64;not null;uniqueIndex:idx_rubric_component" json:"course_id"`
	AssignmentID string  `gorm:"size:64;not null;uniqueIndex:idx_rubric_component" json:"assignment_id"`
	Description  string  `gorm:"size:255;not null;uniqueIndex:idx_rubric_component" json:"description"`
	Points       float64 `gorm:"not null" json:"points"`
	Position     int     `gorm:"not null" json:"position"`
}

// TableName returns the table name for RubricComponent.
func (RubricComponent) TableName() string {
	return "rubric_components"
}

// Validate checks if the rubric component has valid configuration.
func (rc *RubricComponent) Validate() error {
	if rc.Description == "" {
		return fmt.Errorf("rubric component description is required")
	}
	if rc.Points < 0 {
		return fmt.Errorf("rubric component points must be non-negative")
	}
	return nil
}
