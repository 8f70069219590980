package apiclient

import (
	"fmt"
	"time"
)

// Assignment is an assignment as returned by the API.
type Assignment struct {
	ID         string            `json:"id"`
	CourseID   string            `json:"course_id"`
	Name       string            `json:"name"`
	Deadline   time.Time         `json:"deadline"`
	MaxPoints  float64           `json:"max_points"`
	Components []RubricComponent `json:"components,omitempty"`
}

// RubricComponent is one gradable item in an assignment's rubric.
type RubricComponent struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
	Position    int     `json:"position"`
}

// ListAssignments returns a course's assignments.
func (c *Client) ListAssignments(courseID string) ([]Assignment, error) {
	var assignments []Assignment
	if err := c.get(fmt.Sprintf("/api/v1/courses/%s/assignments", courseID), &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// GetAssignment returns a single assignment with its rubric.
func (c *Client) GetAssignment(courseID, assignmentID string) (*Assignment, error) {
	var assignment Assignment
	if err := c.get(fmt.Sprintf("/api/v1/courses/%s/assignments/%s", courseID, assignmentID), &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateAssignment creates a new assignment. Requires instructor.
func (c *Client) CreateAssignment(courseID, id, name string, deadline time.Time) (*Assignment, error) {
	req := struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Deadline time.Time `json:"deadline"`
	}{ID: id, Name: name, Deadline: deadline}

	var assignment Assignment
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/assignments", courseID), req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateAssignment changes an assignment's name or deadline. Nil fields
// are left unchanged.
func (c *Client) UpdateAssignment(courseID, assignmentID string, name *string, deadline *time.Time) (*Assignment, error) {
	req := struct {
		Name     *string    `json:"name,omitempty"`
		Deadline *time.Time `json:"deadline,omitempty"`
	}{Name: name, Deadline: deadline}

	var assignment Assignment
	if err := c.put(fmt.Sprintf("/api/v1/courses/%s/assignments/%s", courseID, assignmentID), req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// DeleteAssignment deletes an assignment and its rubric.
func (c *Client) DeleteAssignment(courseID, assignmentID string) error {
	return c.delete(fmt.Sprintf("/api/v1/courses/%s/assignments/%s", courseID, assignmentID))
}

// AddRubricComponent appends a gradable item to an assignment's rubric.
func (c *Client) AddRubricComponent(courseID, assignmentID, description string, points float64, position int) (*RubricComponent, error) {
	req := struct {
		Description string  `json:"description"`
		Points      float64 `json:"points"`
		Position    int     `json:"position"`
	}{Description: description, Points: points, Position: position}

	var component RubricComponent
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/assignments/%s/rubric", courseID, assignmentID), req, &component); err != nil {
		return nil, err
	}
	return &component, nil
}

// DeleteRubricComponent removes a rubric item and any grades attached
// to it.
func (c *Client) DeleteRubricComponent(courseID, assignmentID, componentID string) error {
	return c.delete(fmt.Sprintf("/api/v1/courses/%s/assignments/%s/rubric/%s", courseID, assignmentID, componentID))
}

// ListAssignmentRegistrations returns all registrations for an
// assignment. Requires grader or instructor.
func (c *Client) ListAssignmentRegistrations(courseID, assignmentID string) ([]Registration, error) {
	var registrations []Registration
	if err := c.get(fmt.Sprintf("/api/v1/courses/%s/assignments/%s/registrations", courseID, assignmentID), &registrations); err != nil {
		return nil, err
	}
	return registrations, nil
}
