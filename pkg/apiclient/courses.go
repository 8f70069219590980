package apiclient

import "fmt"

// Course is a course as returned by the API.
type Course struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CourseMember is a user's enrollment in a course.
type CourseMember struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	Dropped bool   `json:"dropped,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// RosterEntry is one student in a roster import.
type RosterEntry struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// RosterImportResult summarizes a roster import.
type RosterImportResult struct {
	UsersCreated    int `json:"users_created"`
	Enrolled        int `json:"enrolled"`
	AlreadyEnrolled int `json:"already_enrolled"`
}

// ListCourses returns the courses visible to the authenticated user.
func (c *Client) ListCourses() ([]Course, error) {
	var courses []Course
	if err := c.get("/api/v1/courses", &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse returns a single course.
func (c *Client) GetCourse(courseID string) (*Course, error) {
	var course Course
	if err := c.get(fmt.Sprintf("/api/v1/courses/%s", courseID), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates a new course. Requires admin.
func (c *Client) CreateCourse(id, name string) (*Course, error) {
	req := struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{ID: id, Name: name}

	var course Course
	if err := c.post("/api/v1/courses", req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse renames a course.
func (c *Client) UpdateCourse(courseID, name string) (*Course, error) {
	req := struct {
		Name string `json:"name"`
	}{Name: name}

	var course Course
	if err := c.put(fmt.Sprintf("/api/v1/courses/%s", courseID), req, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse deletes a course and everything enrolled in it. Requires
// admin.
func (c *Client) DeleteCourse(courseID string) error {
	return c.delete(fmt.Sprintf("/api/v1/courses/%s", courseID))
}

// ListCourseMembers returns a course's members, optionally filtered by
// role (instructor, grader or student).
func (c *Client) ListCourseMembers(courseID, role string) ([]CourseMember, error) {
	path := fmt.Sprintf("/api/v1/courses/%s/members", courseID)
	if role != "" {
		path += "?role=" + role
	}

	var members []CourseMember
	if err := c.get(path, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddCourseMember enrolls a user in a course with the given role.
func (c *Client) AddCourseMember(courseID, userID, role string) (*CourseMember, error) {
	req := struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	}{UserID: userID, Role: role}

	var member CourseMember
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/members", courseID), req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// DropCourseMember marks a student as dropped without deleting their
// enrollment record.
func (c *Client) DropCourseMember(courseID, userID string) (*CourseMember, error) {
	dropped := true
	req := struct {
		Dropped *bool `json:"dropped"`
	}{Dropped: &dropped}

	var member CourseMember
	if err := c.put(fmt.Sprintf("/api/v1/courses/%s/members/%s", courseID, userID), req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveCourseMember removes a user's enrollment entirely.
func (c *Client) RemoveCourseMember(courseID, userID string) error {
	return c.delete(fmt.Sprintf("/api/v1/courses/%s/members/%s", courseID, userID))
}

// ImportRoster enrolls a batch of students, creating user records as
// needed. Re-importing an overlapping roster is safe.
func (c *Client) ImportRoster(courseID string, entries []RosterEntry) (*RosterImportResult, error) {
	var result RosterImportResult
	if err := c.post(fmt.Sprintf("/api/v1/courses/%s/students", courseID), entries, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
