package apiclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/courses/cmsc23300/teams", r.URL.Path)

		var req struct {
			ID      string   `json:"id"`
			Members []string `json:"members"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"jdoe", "asmith"}, req.Members)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Team{
			ID:       req.ID,
			CourseID: "cmsc23300",
			Members:  req.Members,
		})
	}))
	defer server.Close()

	client := New(server.URL).WithAPIKey("test-key")
	team, err := client.CreateTeam("cmsc23300", "jdoe-asmith", []string{"jdoe", "asmith"})

	require.NoError(t, err)
	assert.Equal(t, "jdoe-asmith", team.ID)
	assert.Len(t, team.Members, 2)
}

func TestRegister(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/courses/cmsc23300/teams/jdoe-asmith/registrations", r.URL.Path)

		var req struct {
			AssignmentID string `json:"assignment_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.AssignmentID)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Registration{
			ID:           "reg-1",
			TeamID:       "jdoe-asmith",
			AssignmentID: "p1",
		})
	}))
	defer server.Close()

	client := New(server.URL).WithAPIKey("test-key")
	registration, err := client.Register("cmsc23300", "jdoe-asmith", "p1")

	require.NoError(t, err)
	assert.Equal(t, "reg-1", registration.ID)
	assert.Equal(t, "p1", registration.AssignmentID)
}

func TestSubmitGrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/courses/cmsc23300/registrations/reg-1/grades", r.URL.Path)

		var req struct {
			RubricComponentID string  `json:"rubric_component_id"`
			Points            float64 `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 42.5, req.Points)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Grade{
			RubricComponentID: req.RubricComponentID,
			Points:            req.Points,
		})
	}))
	defer server.Close()

	client := New(server.URL).WithAPIKey("grader-key")
	grade, err := client.SubmitGrade("cmsc23300", "reg-1", "rc-1", 42.5)

	require.NoError(t, err)
	assert.Equal(t, "rc-1", grade.RubricComponentID)
	assert.Equal(t, 42.5, grade.Points)
}

func TestAddPenalty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/courses/cmsc23300/registrations/reg-1/penalties", r.URL.Path)

		var req struct {
			Description string  `json:"description"`
			Points      float64 `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, -5.0, req.Points)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Penalty{
			ID:          "pen-1",
			Description: req.Description,
			Points:      req.Points,
		})
	}))
	defer server.Close()

	client := New(server.URL).WithAPIKey("instr-key")
	penalty, err := client.AddPenalty("cmsc23300", "reg-1", "late submission", -5.0)

	require.NoError(t, err)
	assert.Equal(t, "pen-1", penalty.ID)
	assert.Equal(t, "late submission", penalty.Description)
	assert.Equal(t, -5.0, penalty.Points)
}

func TestAddTeamMember(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/courses/cmsc23300/teams/jdoe-asmith/members", r.URL.Path)

		var req struct {
			UserID string `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "bnew", req.UserID)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"team_id": "jdoe-asmith",
			"user_id": req.UserID,
		})
	}))
	defer server.Close()

	client := New(server.URL).WithAPIKey("instr-key")
	membership, err := client.AddTeamMember("cmsc23300", "jdoe-asmith", "bnew")

	require.NoError(t, err)
	assert.Equal(t, "jdoe-asmith", membership.TeamID)
	assert.Equal(t, "bnew", membership.UserID)
}

func TestSubmitGrade_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title":  "Forbidden",
			"status": http.StatusForbidden,
			"detail": "Not the assigned grader",
		})
	}))
	defer server.Close()

	client := New(server.URL).WithAPIKey("student-key")
	_, err := client.SubmitGrade("cmsc23300", "reg-1", "rc-1", 100)

	require.Error(t, err)
	assert.True(t, IsForbidden(err))
}
