package apiclient

import "fmt"

// Team is a team as returned by the API.
type Team struct {
	ID            string         `json:"id"`
	CourseID      string         `json:"course_id"`
	Members       []string       `json:"members"`
	Registrations []Registration `json:"registrations,omitempty"`
}

// Registration is a team's registration for an assignment.
type Registration struct {
	ID           string    `json:"id"`
	TeamID       string    `json:"team_id"`
	AssignmentID string    `json:"assignment_id"`
	GraderID     *string   `json:"grader_id,omitempty"`
	Grades       []Grade   `json:"grades,omitempty"`
	Penalties    []Penalty `json:"penalties,omitempty"`
	TotalPoints  float64   `json:"total_points"`
}

// Grade is the score for one rubric component.
type Grade struct {
	RubricComponentID string  `json:"rubric_component_id"`
	Points            float64 `json:"points"`
}

// Penalty is a point adjustment applied to a registration.
type Penalty struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
}

// TeamMembership confirms a user's addition to a team.
type TeamMembership struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

// ListTeams returns a course's teams. Requires grader or instructor.
func (c *Client) ListTeams(courseID string) ([]Team, error) {
	var teams []Team
	if err := c.get(fmt.Sprintf("/api/v1/courses/%s/teams", courseID), &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// GetTeam returns a single team with its registrations and grades.
func (c *Client) GetTeam(courseID, teamID string) (*Team, error) {
	var team Team
	if err := c.get(fmt.Sprintf("/api/v1/courses/%s/teams/%s", courseID, teamID), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateTeam creates a team with the given members. Students can only
// create teams they are on themselves.
func (c *Client) CreateTeam(courseID, teamID string, members []string) (*Team, error) {
	req := struct {
		ID      string   `json:"id"`
		Members []string `json:"members"`
	}{ID: teamID, Members: members}

	var team Team
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/teams", courseID), req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam deletes a team and its registrations. Requires instructor.
func (c *Client) DeleteTeam(courseID, teamID string) error {
	return c.delete(fmt.Sprintf("/api/v1/courses/%s/teams/%s", courseID, teamID))
}

// AddTeamMember adds a user to a team. Requires instructor.
func (c *Client) AddTeamMember(courseID, teamID, userID string) (*TeamMembership, error) {
	req := struct {
		UserID string `json:"user_id"`
	}{UserID: userID}

	var membership TeamMembership
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/teams/%s/members", courseID, teamID), req, &membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

// RemoveTeamMember removes a user from a team. Requires instructor.
func (c *Client) RemoveTeamMember(courseID, teamID, userID string) error {
	return c.delete(fmt.Sprintf("/api/v1/courses/%s/teams/%s/members/%s", courseID, teamID, userID))
}

// Register registers a team for an assignment. Registering twice for
// the same assignment returns the existing registration.
func (c *Client) Register(courseID, teamID, assignmentID string) (*Registration, error) {
	req := struct {
		AssignmentID string `json:"assignment_id"`
	}{AssignmentID: assignmentID}

	var registration Registration
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/teams/%s/registrations", courseID, teamID), req, &registration); err != nil {
		return nil, err
	}
	return &registration, nil
}

// AssignGrader assigns a grader to a registration. Requires instructor.
func (c *Client) AssignGrader(courseID, registrationID, graderID string) (*Registration, error) {
	req := struct {
		GraderID string `json:"grader_id"`
	}{GraderID: graderID}

	var registration Registration
	if err := c.put(fmt.Sprintf("/api/v1/courses/%s/registrations/%s/grader", courseID, registrationID), req, &registration); err != nil {
		return nil, err
	}
	return &registration, nil
}

// SubmitGrade records the score for one rubric component and returns
// the recorded grade. Submitting a grade for an already-graded
// component replaces the previous score.
func (c *Client) SubmitGrade(courseID, registrationID, componentID string, points float64) (*Grade, error) {
	req := struct {
		RubricComponentID string  `json:"rubric_component_id"`
		Points            float64 `json:"points"`
	}{RubricComponentID: componentID, Points: points}

	var grade Grade
	if err := c.put(fmt.Sprintf("/api/v1/courses/%s/registrations/%s/grades", courseID, registrationID), req, &grade); err != nil {
		return nil, err
	}
	return &grade, nil
}

// AddPenalty applies a point adjustment to a registration and returns
// the created penalty. Requires instructor.
func (c *Client) AddPenalty(courseID, registrationID, description string, points float64) (*Penalty, error) {
	req := struct {
		Description string  `json:"description"`
		Points      float64 `json:"points"`
	}{Description: description, Points: points}

	var penalty Penalty
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/registrations/%s/penalties", courseID, registrationID), req, &penalty); err != nil {
		return nil, err
	}
	return &penalty, nil
}

// DeletePenalty removes a penalty from a registration.
func (c *Client) DeletePenalty(courseID, registrationID, penaltyID string) error {
	return c.delete(fmt.Sprintf("/api/v1/courses/%s/registrations/%s/penalties/%s", courseID, registrationID, penaltyID))
}
