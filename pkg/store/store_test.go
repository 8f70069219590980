//go:build integration

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// createTestStore creates an in-memory SQLite store for testing.
func createTestStore(t *testing.T) *GORMStore {
	t.Helper()
	store, err := New(&Config{
		Type: DatabaseTypeSQLite,
		SQLite: SQLiteConfig{
			Path: ":memory:",
		},
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	return store
}

func mustCreateUser(t *testing.T, s *GORMStore, id string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        id,
		FirstName: "Test",
		LastName:  "User",
		Email:     id + "@uchicago.edu",
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", id, err)
	}
	return user
}

func mustCreateCourse(t *testing.T, s *GORMStore, id string) *models.Course {
	t.Helper()
	course := &models.Course{ID: id, Name: "Test Course"}
	if err := s.CreateCourse(context.Background(), course); err != nil {
		t.Fatalf("failed to create course %s: %v", id, err)
	}
	return course
}

func TestNew(t *testing.T) {
	t.Run("default config uses sqlite", func(t *testing.T) {
		config := &Config{}
		config.ApplyDefaults()

		if config.Type != DatabaseTypeSQLite {
			t.Errorf("expected SQLite, got %s", config.Type)
		}
	})

	t.Run("invalid config returns error", func(t *testing.T) {
		config := &Config{
			Type: "invalid",
		}
		_, err := New(config)
		if err == nil {
			t.Error("expected error for invalid config")
		}
	})

	t.Run("creates in-memory store", func(t *testing.T) {
		store := createTestStore(t)
		defer store.Close()

		if err := store.Healthcheck(); err != nil {
			t.Errorf("healthcheck failed: %v", err)
		}
	})
}

func TestUserOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("create and get user", func(t *testing.T) {
		mustCreateUser(t, store, "jdoe")

		got, err := store.GetUser(ctx, "jdoe")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Email != "jdoe@uchicago.edu" {
			t.Errorf("expected jdoe@uchicago.edu, got %s", got.Email)
		}
	})

	t.Run("duplicate user fails", func(t *testing.T) {
		user := &models.User{ID: "jdoe", FirstName: "Other", LastName: "Person", Email: "other@uchicago.edu"}
		err := store.CreateUser(ctx, user)
		if !errors.Is(err, models.ErrDuplicateUser) {
			t.Errorf("expected ErrDuplicateUser, got %v", err)
		}
	})

	t.Run("get nonexistent user", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nobody")
		if !errors.Is(err, models.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("set and look up api key", func(t *testing.T) {
		key, err := models.GenerateAPIKey()
		if err != nil {
			t.Fatalf("failed to generate key: %v", err)
		}
		if err := store.SetAPIKey(ctx, "jdoe", key); err != nil {
			t.Fatalf("failed to set api key: %v", err)
		}

		got, err := store.GetUserByAPIKey(ctx, key)
		if err != nil {
			t.Fatalf("failed to look up by api key: %v", err)
		}
		if got.ID != "jdoe" {
			t.Errorf("expected jdoe, got %s", got.ID)
		}
	})

	t.Run("unknown api key returns not found", func(t *testing.T) {
		_, err := store.GetUserByAPIKey(ctx, "not-a-key")
		if !errors.Is(err, models.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("update user", func(t *testing.T) {
		user, _ := store.GetUser(ctx, "jdoe")
		user.FirstName = "Jane"
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		got, _ := store.GetUser(ctx, "jdoe")
		if got.FirstName != "Jane" {
			t.Errorf("expected Jane, got %s", got.FirstName)
		}
	})

	t.Run("delete user", func(t *testing.T) {
		mustCreateUser(t, store, "temp")
		if err := store.DeleteUser(ctx, "temp"); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}
		if err := store.DeleteUser(ctx, "temp"); !errors.Is(err, models.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("list users", func(t *testing.T) {
		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) == 0 {
			t.Error("expected at least one user")
		}
	})
}

func TestEnsureAdminUser(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	admin, created, err := store.EnsureAdminUser(ctx)
	if err != nil {
		t.Fatalf("failed to ensure admin user: %v", err)
	}
	if !created {
		t.Error("expected admin to be created on first call")
	}
	if !admin.Admin {
		t.Error("expected admin flag set")
	}
	if !admin.HasAPIKey() {
		t.Error("expected admin to have an API key")
	}

	again, created, err := store.EnsureAdminUser(ctx)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if created {
		t.Error("expected admin not to be created again")
	}
	if *again.APIKey != *admin.APIKey {
		t.Error("expected second call to return the same key")
	}
}

func TestCourseOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	t.Run("create and get course", func(t *testing.T) {
		mustCreateCourse(t, store, "cmsc23300")

		got, err := store.GetCourse(ctx, "cmsc23300")
		if err != nil {
			t.Fatalf("failed to get course: %v", err)
		}
		if got.Name != "Test Course" {
			t.Errorf("unexpected name %q", got.Name)
		}
	})

	t.Run("duplicate course fails", func(t *testing.T) {
		err := store.CreateCourse(ctx, &models.Course{ID: "cmsc23300", Name: "Again"})
		if !errors.Is(err, models.ErrDuplicateCourse) {
			t.Errorf("expected ErrDuplicateCourse, got %v", err)
		}
	})

	t.Run("memberships", func(t *testing.T) {
		mustCreateUser(t, store, "instr")
		mustCreateUser(t, store, "stud")

		err := store.AddCourseMember(ctx, &models.CourseMember{
			CourseID: "cmsc23300", UserID: "instr", Role: models.RoleInstructor,
		})
		if err != nil {
			t.Fatalf("failed to add instructor: %v", err)
		}

		err = store.AddCourseMember(ctx, &models.CourseMember{
			CourseID: "cmsc23300", UserID: "stud", Role: models.RoleStudent,
		})
		if err != nil {
			t.Fatalf("failed to add student: %v", err)
		}

		// Same user cannot hold a second role in the course.
		err = store.AddCourseMember(ctx, &models.CourseMember{
			CourseID: "cmsc23300", UserID: "stud", Role: models.RoleGrader,
		})
		if !errors.Is(err, models.ErrDuplicateMember) {
			t.Errorf("expected ErrDuplicateMember, got %v", err)
		}

		course, err := store.GetCourse(ctx, "cmsc23300")
		if err != nil {
			t.Fatalf("failed to reload course: %v", err)
		}
		if !course.IsInstructor("instr") {
			t.Error("expected instr to be instructor")
		}
		if !course.IsStudent("stud") {
			t.Error("expected stud to be student")
		}

		students, err := store.ListCourseMembers(ctx, "cmsc23300", models.RoleStudent)
		if err != nil {
			t.Fatalf("failed to list students: %v", err)
		}
		if len(students) != 1 {
			t.Errorf("expected 1 student, got %d", len(students))
		}
	})

	t.Run("drop student", func(t *testing.T) {
		member, err := store.GetCourseMember(ctx, "cmsc23300", "stud")
		if err != nil {
			t.Fatalf("failed to get member: %v", err)
		}

		member.Dropped = true
		if err := store.UpdateCourseMember(ctx, member); err != nil {
			t.Fatalf("failed to drop student: %v", err)
		}

		course, _ := store.GetCourse(ctx, "cmsc23300")
		if !course.IsStudent("stud") {
			t.Error("dropped student should still count as student")
		}
		if course.IsActiveStudent("stud") {
			t.Error("dropped student should not be active")
		}
	})

	t.Run("delete course cascades", func(t *testing.T) {
		mustCreateCourse(t, store, "doomed")
		err := store.AddCourseMember(ctx, &models.CourseMember{
			CourseID: "doomed", UserID: "instr", Role: models.RoleInstructor,
		})
		if err != nil {
			t.Fatalf("failed to add member: %v", err)
		}

		if err := store.DeleteCourse(ctx, "doomed"); err != nil {
			t.Fatalf("failed to delete course: %v", err)
		}

		if _, err := store.GetCourse(ctx, "doomed"); !errors.Is(err, models.ErrCourseNotFound) {
			t.Errorf("expected ErrCourseNotFound, got %v", err)
		}
		if _, err := store.GetCourseMember(ctx, "doomed", "instr"); !errors.Is(err, models.ErrMemberNotFound) {
			t.Errorf("expected ErrMemberNotFound, got %v", err)
		}
	})
}

func TestAssignmentOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	mustCreateCourse(t, store, "cmsc40100")

	deadline := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second)
	assignment := &models.Assignment{
		CourseID: "cmsc40100",
		ID:       "p1",
		Name:     "Project 1",
		Deadline: deadline,
	}

	t.Run("create and get assignment", func(t *testing.T) {
		if err := store.CreateAssignment(ctx, assignment); err != nil {
			t.Fatalf("failed to create assignment: %v", err)
		}

		got, err := store.GetAssignment(ctx, "cmsc40100", "p1")
		if err != nil {
			t.Fatalf("failed to get assignment: %v", err)
		}
		if !got.Deadline.Equal(deadline) {
			t.Errorf("expected deadline %v, got %v", deadline, got.Deadline)
		}
	})

	t.Run("duplicate assignment fails", func(t *testing.T) {
		err := store.CreateAssignment(ctx, &models.Assignment{
			CourseID: "cmsc40100", ID: "p1", Name: "Again", Deadline: deadline,
		})
		if !errors.Is(err, models.ErrDuplicateAssignment) {
			t.Errorf("expected ErrDuplicateAssignment, got %v", err)
		}
	})

	t.Run("same id in other course succeeds", func(t *testing.T) {
		mustCreateCourse(t, store, "cmsc40200")
		err := store.CreateAssignment(ctx, &models.Assignment{
			CourseID: "cmsc40200", ID: "p1", Name: "Other P1", Deadline: deadline,
		})
		if err != nil {
			t.Fatalf("expected same assignment id in another course to work: %v", err)
		}
	})

	t.Run("rubric components", func(t *testing.T) {
		first := &models.RubricComponent{
			CourseID:     "cmsc40100",
			AssignmentID: "p1",
			Description:  "Tests",
			Points:       50,
			Position:     1,
		}
		if err := store.CreateRubricComponent(ctx, first); err != nil {
			t.Fatalf("failed to create component: %v", err)
		}

		dup := &models.RubricComponent{
			CourseID:     "cmsc40100",
			AssignmentID: "p1",
			Description:  "Tests",
			Points:       10,
			Position:     2,
		}
		if err := store.CreateRubricComponent(ctx, dup); !errors.Is(err, models.ErrDuplicateRubricComponent) {
			t.Errorf("expected ErrDuplicateRubricComponent, got %v", err)
		}

		second := &models.RubricComponent{
			CourseID:     "cmsc40100",
			AssignmentID: "p1",
			Description:  "Design",
			Points:       25,
			Position:     2,
		}
		if err := store.CreateRubricComponent(ctx, second); err != nil {
			t.Fatalf("failed to create second component: %v", err)
		}

		got, err := store.GetAssignment(ctx, "cmsc40100", "p1")
		if err != nil {
			t.Fatalf("failed to reload assignment: %v", err)
		}
		if len(got.Components) != 2 {
			t.Fatalf("expected 2 components, got %d", len(got.Components))
		}
		if got.MaxPoints() != 75 {
			t.Errorf("expected 75 max points, got %v", got.MaxPoints())
		}
	})

	t.Run("delete assignment removes rubric", func(t *testing.T) {
		if err := store.DeleteAssignment(ctx, "cmsc40100", "p1"); err != nil {
			t.Fatalf("failed to delete assignment: %v", err)
		}
		if _, err := store.GetAssignment(ctx, "cmsc40100", "p1"); !errors.Is(err, models.ErrAssignmentNotFound) {
			t.Errorf("expected ErrAssignmentNotFound, got %v", err)
		}
	})
}

func TestTeamAndGradingOperations(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	mustCreateCourse(t, store, "cmsc23300")
	mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")
	mustCreateUser(t, store, "grader1")

	deadline := time.Now().Add(48 * time.Hour)
	if err := store.CreateAssignment(ctx, &models.Assignment{
		CourseID: "cmsc23300", ID: "p1", Name: "Project 1", Deadline: deadline,
	}); err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}

	component := &models.RubricComponent{
		CourseID:     "cmsc23300",
		AssignmentID: "p1",
		Description:  "Correctness",
		Points:       100,
		Position:     1,
	}
	if err := store.CreateRubricComponent(ctx, component); err != nil {
		t.Fatalf("failed to create component: %v", err)
	}

	t.Run("create team and members", func(t *testing.T) {
		team := &models.Team{CourseID: "cmsc23300", ID: "alice-bob"}
		if err := store.CreateTeam(ctx, team); err != nil {
			t.Fatalf("failed to create team: %v", err)
		}

		for _, userID := range []string{"alice", "bob"} {
			err := store.AddTeamMember(ctx, &models.TeamMember{
				CourseID: "cmsc23300", TeamID: "alice-bob", UserID: userID,
			})
			if err != nil {
				t.Fatalf("failed to add %s: %v", userID, err)
			}
		}

		err := store.AddTeamMember(ctx, &models.TeamMember{
			CourseID: "cmsc23300", TeamID: "alice-bob", UserID: "alice",
		})
		if !errors.Is(err, models.ErrDuplicateTeamMember) {
			t.Errorf("expected ErrDuplicateTeamMember, got %v", err)
		}

		got, err := store.GetTeam(ctx, "cmsc23300", "alice-bob")
		if err != nil {
			t.Fatalf("failed to get team: %v", err)
		}
		if !got.HasMember("alice") || !got.HasMember("bob") {
			t.Error("expected both members on team")
		}
	})

	var registrationID string

	t.Run("register team for assignment", func(t *testing.T) {
		registration := &models.Registration{
			CourseID:     "cmsc23300",
			TeamID:       "alice-bob",
			AssignmentID: "p1",
		}
		if err := store.CreateRegistration(ctx, registration); err != nil {
			t.Fatalf("failed to create registration: %v", err)
		}
		registrationID = registration.ID

		err := store.CreateRegistration(ctx, &models.Registration{
			CourseID:     "cmsc23300",
			TeamID:       "alice-bob",
			AssignmentID: "p1",
		})
		if !errors.Is(err, models.ErrDuplicateRegistration) {
			t.Errorf("expected ErrDuplicateRegistration, got %v", err)
		}
	})

	t.Run("assign grader", func(t *testing.T) {
		registration, err := store.GetRegistration(ctx, registrationID)
		if err != nil {
			t.Fatalf("failed to get registration: %v", err)
		}

		graderID := "grader1"
		registration.GraderID = &graderID
		if err := store.UpdateRegistration(ctx, registration); err != nil {
			t.Fatalf("failed to assign grader: %v", err)
		}

		got, _ := store.GetRegistration(ctx, registrationID)
		if got.GraderID == nil || *got.GraderID != "grader1" {
			t.Error("expected grader1 assigned")
		}
	})

	t.Run("upsert grade overwrites", func(t *testing.T) {
		grade := &models.Grade{
			RegistrationID:    registrationID,
			RubricComponentID: component.ID,
			Points:            80,
		}
		if err := store.UpsertGrade(ctx, grade); err != nil {
			t.Fatalf("failed to record grade: %v", err)
		}

		grade.Points = 95
		if err := store.UpsertGrade(ctx, grade); err != nil {
			t.Fatalf("failed to regrade: %v", err)
		}

		got, err := store.GetRegistration(ctx, registrationID)
		if err != nil {
			t.Fatalf("failed to reload registration: %v", err)
		}
		if len(got.Grades) != 1 {
			t.Fatalf("expected exactly one grade row, got %d", len(got.Grades))
		}
		if got.Grades[0].Points != 95 {
			t.Errorf("expected 95 points, got %v", got.Grades[0].Points)
		}
	})

	t.Run("penalties affect total", func(t *testing.T) {
		penalty := &models.Penalty{
			RegistrationID: registrationID,
			Description:    "late submission",
			Points:         -10,
		}
		if err := store.CreatePenalty(ctx, penalty); err != nil {
			t.Fatalf("failed to create penalty: %v", err)
		}

		got, _ := store.GetRegistration(ctx, registrationID)
		if total := got.TotalPoints(); total != 85 {
			t.Errorf("expected total 85, got %v", total)
		}

		if err := store.DeletePenalty(ctx, penalty.ID); err != nil {
			t.Fatalf("failed to delete penalty: %v", err)
		}
		got, _ = store.GetRegistration(ctx, registrationID)
		if total := got.TotalPoints(); total != 95 {
			t.Errorf("expected total 95 after removing penalty, got %v", total)
		}
	})

	t.Run("delete team cascades", func(t *testing.T) {
		if err := store.DeleteTeam(ctx, "cmsc23300", "alice-bob"); err != nil {
			t.Fatalf("failed to delete team: %v", err)
		}
		if _, err := store.GetRegistration(ctx, registrationID); !errors.Is(err, models.ErrRegistrationNotFound) {
			t.Errorf("expected ErrRegistrationNotFound, got %v", err)
		}
	})
}
