//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/auth"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

type testServer struct {
	router http.Handler
	store  *store.GORMStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	authenticator := auth.NewAuthenticator(s, nil)
	return &testServer{
		router: NewRouter(s, s.DB(), authenticator),
		store:  s,
	}
}

// seedUser creates a user whose API key equals its id, mirroring how
// test fixtures are usually written for this API.
func (ts *testServer) seedUser(t *testing.T, id string, admin bool) {
	t.Helper()
	key := id
	err := ts.store.CreateUser(context.Background(), &models.User{
		ID:        id,
		FirstName: "Test",
		LastName:  id,
		Email:     id + "@uchicago.edu",
		APIKey:    &key,
		Admin:     admin,
	})
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
}

func (ts *testServer) seedCourse(t *testing.T, id string, members map[string]models.CourseRole) {
	t.Helper()
	ctx := context.Background()
	if err := ts.store.CreateCourse(ctx, &models.Course{ID: id, Name: "Course " + id}); err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}
	for userID, role := range members {
		err := ts.store.AddCourseMember(ctx, &models.CourseMember{
			CourseID: id, UserID: userID, Role: role,
		})
		if err != nil {
			t.Fatalf("failed to enroll %s: %v", userID, err)
		}
	}
}

// do performs a request as the given user (empty apiKey sends no credentials).
func (ts *testServer) do(t *testing.T, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	if apiKey != "" {
		r.Header.Set(auth.APIKeyHeader, apiKey)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, r)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w = ts.do(t, "GET", "/health/ready", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "jinstr", false)

	t.Run("api key via query parameter", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/auth/me?api-key=jinstr", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		me := decodeBody[map[string]any](t, w)
		if me["id"] != "jinstr" {
			t.Errorf("expected jinstr, got %v", me["id"])
		}
	})

	t.Run("api key via header", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/auth/me", "jinstr", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unknown api key", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/auth/me?api-key=bogus", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/auth/me", "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		bogus := ts.do(t, "GET", "/api/v1/auth/me?api-key=bogus", "", nil)
		missing := ts.do(t, "GET", "/api/v1/auth/me", "", nil)
		if bogus.Body.String() != missing.Body.String() {
			t.Error("unauthorized responses must not reveal the failure kind")
		}
	})
}

func TestUserManagement(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "admin1", true)
	ts.seedUser(t, "plain", false)

	t.Run("admin creates user", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/users/", "admin1", map[string]string{
			"id": "newbie", "first_name": "New", "last_name": "Bee", "email": "newbie@uchicago.edu",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("non-admin cannot create users", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/users/", "plain", map[string]string{"id": "x"})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("non-admin cannot view others", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/users/admin1", "plain", nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("user rotates own api key", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/users/plain/api-key", "plain", nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		response := decodeBody[map[string]string](t, w)
		newKey := response["api_key"]
		if newKey == "" || newKey == "plain" {
			t.Fatalf("expected a fresh key, got %q", newKey)
		}

		// The old key stops working, the new one works.
		if w := ts.do(t, "GET", "/api/v1/auth/me", "plain", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("expected old key to be rejected, got %d", w.Code)
		}
		if w := ts.do(t, "GET", "/api/v1/auth/me", newKey, nil); w.Code != http.StatusOK {
			t.Errorf("expected new key to work, got %d", w.Code)
		}
	})

	t.Run("user cannot rotate another user's key", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/users/admin1/api-key", "newbie-key-invalid", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestCourseAuthorization(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "admin1", true)
	ts.seedUser(t, "jinstr", false)
	ts.seedUser(t, "ggrader", false)
	ts.seedUser(t, "sstudent", false)
	ts.seedUser(t, "outsider", false)
	ts.seedCourse(t, "cmsc40100", map[string]models.CourseRole{
		"jinstr":   models.RoleInstructor,
		"ggrader":  models.RoleGrader,
		"sstudent": models.RoleStudent,
	})

	t.Run("member can view course", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/courses/cmsc40100/", "sstudent", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("outsider cannot view course", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/courses/cmsc40100/", "outsider", nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("admin with no course role can view course", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/courses/cmsc40100/", "admin1", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("grader can list members, student cannot", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/courses/cmsc40100/members/", "ggrader", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 for grader, got %d", w.Code)
		}

		roles := map[string]models.CourseRole{}
		for _, m := range decodeBody[[]map[string]any](t, w) {
			roles[m["user_id"].(string)] = models.CourseRole(m["role"].(string))
		}
		if roles["jinstr"] != models.RoleInstructor {
			t.Errorf("expected jinstr to be instructor, got %q", roles["jinstr"])
		}
		if roles["sstudent"] != models.RoleStudent {
			t.Errorf("expected sstudent to be student, got %q", roles["sstudent"])
		}

		w = ts.do(t, "GET", "/api/v1/courses/cmsc40100/members/", "sstudent", nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 for student, got %d", w.Code)
		}
	})

	t.Run("only instructor can add members", func(t *testing.T) {
		ts.seedUser(t, "latecomer", false)

		w := ts.do(t, "POST", "/api/v1/courses/cmsc40100/members/", "ggrader", map[string]string{
			"user_id": "latecomer", "role": "student",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 for grader, got %d", w.Code)
		}

		w = ts.do(t, "POST", "/api/v1/courses/cmsc40100/members/", "jinstr", map[string]string{
			"user_id": "latecomer", "role": "student",
		})
		if w.Code != http.StatusCreated {
			t.Errorf("expected 201 for instructor, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("only admin can create courses", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/courses/", "jinstr", map[string]string{
			"id": "cmsc40200", "name": "Other",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}

		w = ts.do(t, "POST", "/api/v1/courses/", "admin1", map[string]string{
			"id": "cmsc40200", "name": "Other",
		})
		if w.Code != http.StatusCreated {
			t.Errorf("expected 201, got %d", w.Code)
		}
	})
}

func TestRosterImport(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "jinstr", false)
	ts.seedUser(t, "existing", false)
	ts.seedCourse(t, "cmsc23300", map[string]models.CourseRole{
		"jinstr": models.RoleInstructor,
	})

	roster := []map[string]string{
		{"id": "existing", "first_name": "Already", "last_name": "Here", "email": "existing@uchicago.edu"},
		{"id": "fresh1", "first_name": "Fresh", "last_name": "One", "email": "fresh1@uchicago.edu"},
		{"id": "fresh2", "first_name": "Fresh", "last_name": "Two", "email": "fresh2@uchicago.edu"},
	}

	w := ts.do(t, "POST", "/api/v1/courses/cmsc23300/students", "jinstr", roster)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	summary := decodeBody[map[string]int](t, w)
	if summary["users_created"] != 2 {
		t.Errorf("expected 2 users created, got %d", summary["users_created"])
	}
	if summary["enrolled"] != 3 {
		t.Errorf("expected 3 enrolled, got %d", summary["enrolled"])
	}

	// Re-importing the same roster is idempotent.
	w = ts.do(t, "POST", "/api/v1/courses/cmsc23300/students", "jinstr", roster)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on re-import, got %d", w.Code)
	}
	summary = decodeBody[map[string]int](t, w)
	if summary["users_created"] != 0 {
		t.Errorf("expected no users created on re-import, got %d", summary["users_created"])
	}
	if summary["already_enrolled"] != 3 {
		t.Errorf("expected 3 already enrolled, got %d", summary["already_enrolled"])
	}
}

func TestGradingWorkflow(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "jinstr", false)
	ts.seedUser(t, "ggrader", false)
	ts.seedUser(t, "alice", false)
	ts.seedUser(t, "bob", false)
	ts.seedCourse(t, "cmsc23300", map[string]models.CourseRole{
		"jinstr":  models.RoleInstructor,
		"ggrader": models.RoleGrader,
		"alice":   models.RoleStudent,
		"bob":     models.RoleStudent,
	})

	deadline := time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339)
	w := ts.do(t, "POST", "/api/v1/courses/cmsc23300/assignments/", "jinstr", map[string]string{
		"id": "p1", "name": "Project 1", "deadline": deadline,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create assignment: %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, "POST", "/api/v1/courses/cmsc23300/assignments/p1/rubric", "jinstr", map[string]any{
		"description": "Correctness", "points": 100.0, "position": 1,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create rubric component: %d %s", w.Code, w.Body.String())
	}
	component := decodeBody[map[string]any](t, w)
	componentID := component["id"].(string)

	t.Run("student creates own team", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/courses/cmsc23300/teams/", "alice", map[string]any{
			"id": "alice-bob", "members": []string{"alice", "bob"},
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("student cannot create a team they are not on", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/courses/cmsc23300/teams/", "alice", map[string]any{
			"id": "bob-solo", "members": []string{"bob"},
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	var registrationID string

	t.Run("team member registers for assignment", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/courses/cmsc23300/teams/alice-bob/registrations", "bob", map[string]string{
			"assignment_id": "p1",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		registration := decodeBody[map[string]any](t, w)
		registrationID = registration["id"].(string)

		// Registering again returns the same registration.
		w = ts.do(t, "POST", "/api/v1/courses/cmsc23300/teams/alice-bob/registrations", "alice", map[string]string{
			"assignment_id": "p1",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 on re-register, got %d", w.Code)
		}
		again := decodeBody[map[string]any](t, w)
		if again["id"].(string) != registrationID {
			t.Error("expected re-registration to return the existing registration")
		}
	})

	graderPath := fmt.Sprintf("/api/v1/courses/cmsc23300/registrations/%s/grader", registrationID)
	gradesPath := fmt.Sprintf("/api/v1/courses/cmsc23300/registrations/%s/grades", registrationID)

	t.Run("grader cannot grade before assignment", func(t *testing.T) {
		w := ts.do(t, "PUT", gradesPath, "ggrader", map[string]any{
			"rubric_component_id": componentID, "points": 90.0,
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})

	t.Run("instructor assigns grader", func(t *testing.T) {
		w := ts.do(t, "PUT", graderPath, "jinstr", map[string]string{"grader_id": "ggrader"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("assigned grader grades", func(t *testing.T) {
		w := ts.do(t, "PUT", gradesPath, "ggrader", map[string]any{
			"rubric_component_id": componentID, "points": 90.0,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("grade above component maximum is rejected", func(t *testing.T) {
		w := ts.do(t, "PUT", gradesPath, "ggrader", map[string]any{
			"rubric_component_id": componentID, "points": 150.0,
		})
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("expected 422, got %d", w.Code)
		}
	})

	t.Run("instructor applies penalty", func(t *testing.T) {
		penaltiesPath := fmt.Sprintf("/api/v1/courses/cmsc23300/registrations/%s/penalties", registrationID)
		w := ts.do(t, "POST", penaltiesPath, "jinstr", map[string]any{
			"description": "late submission", "points": -10.0,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		w = ts.do(t, "GET", "/api/v1/courses/cmsc23300/teams/alice-bob/", "alice", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		team := decodeBody[map[string]any](t, w)
		registrations := team["registrations"].([]any)
		total := registrations[0].(map[string]any)["total_points"].(float64)
		if total != 80 {
			t.Errorf("expected total 80, got %v", total)
		}
	})

	t.Run("student cannot list other teams", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/courses/cmsc23300/teams/", "alice", nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})
}
