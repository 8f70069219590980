package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// GetTeam retrieves a team with members and registrations preloaded.
func (s *GORMStore) GetTeam(ctx context.Context, courseID, id string) (*models.Team, error) {
	var team models.Team

	err := s.db.WithContext(ctx).
		Preload("Members").
		Preload("Members.User").
		Preload("Registrations").
		Preload("Registrations.Grades").
		Preload("Registrations.Penalties").
		Where("course_id = ? AND id = ?", courseID, id).
		First(&team).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrTeamNotFound)
	}

	return &team, nil
}

// ListTeams retrieves all teams in a course.
func (s *GORMStore) ListTeams(ctx context.Context, courseID string) ([]models.Team, error) {
	return listAll[models.Team](ctx, s.db,
		map[string]any{"course_id": courseID}, "Members", "Registrations")
}

// CreateTeam creates a new team.
func (s *GORMStore) CreateTeam(ctx context.Context, team *models.Team) error {
	if err := team.Validate(); err != nil {
		return err
	}
	return create(ctx, s.db, team, models.ErrDuplicateTeam)
}

// DeleteTeam deletes a team, its memberships, registrations and grades.
func (s *GORMStore) DeleteTeam(ctx context.Context, courseID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team models.Team
		err := tx.Where("course_id = ? AND id = ?", courseID, id).
			First(&team).Error
		if err != nil {
			return convertNotFoundError(err, models.ErrTeamNotFound)
		}

		var registrationIDs []string
		if err := tx.Model(&models.Registration{}).
			Where("course_id = ? AND team_id = ?", courseID, id).
			Pluck("id", &registrationIDs).Error; err != nil {
			return err
		}

		if len(registrationIDs) > 0 {
			if err := tx.Where("registration_id IN ?", registrationIDs).
				Delete(&models.Grade{}).Error; err != nil {
				return err
			}
			if err := tx.Where("registration_id IN ?", registrationIDs).
				Delete(&models.Penalty{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ? AND team_id = ?", courseID, id).
				Delete(&models.Registration{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ? AND team_id = ?", courseID, id).
			Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&team).Error
	})
}

// AddTeamMember adds a user to a team.
func (s *GORMStore) AddTeamMember(ctx context.Context, member *models.TeamMember) error {
	return create(ctx, s.db, member, models.ErrDuplicateTeamMember)
}

// RemoveTeamMember removes a user from a team.
func (s *GORMStore) RemoveTeamMember(ctx context.Context, courseID, teamID, userID string) error {
	return deleteByConds[models.TeamMember](ctx, s.db,
		map[string]any{"course_id": courseID, "team_id": teamID, "user_id": userID},
		models.ErrTeamMemberNotFound)
}

// CreateRegistration registers a team for an assignment.
// A (course, team, assignment) triple can only be registered once.
func (s *GORMStore) CreateRegistration(ctx context.Context, registration *models.Registration) error {
	ensureID(&registration.ID)
	return create(ctx, s.db, registration, models.ErrDuplicateRegistration)
}

// GetRegistration retrieves a registration with grades and penalties.
func (s *GORMStore) GetRegistration(ctx context.Context, id string) (*models.Registration, error) {
	return getByField[models.Registration](ctx, s.db, "id", id,
		models.ErrRegistrationNotFound, "Grades", "Penalties")
}

// GetRegistrationByTeamAssignment retrieves a registration by its natural key.
func (s *GORMStore) GetRegistrationByTeamAssignment(ctx context.Context, courseID, teamID, assignmentID string) (*models.Registration, error) {
	var registration models.Registration

	err := s.db.WithContext(ctx).
		Preload("Grades").
		Preload("Penalties").
		Where("course_id = ? AND team_id = ? AND assignment_id = ?",
			courseID, teamID, assignmentID).
		First(&registration).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrRegistrationNotFound)
	}

	return &registration, nil
}

// ListRegistrationsByAssignment retrieves all registrations for an assignment.
func (s *GORMStore) ListRegistrationsByAssignment(ctx context.Context, courseID, assignmentID string) ([]models.Registration, error) {
	return listAll[models.Registration](ctx, s.db,
		map[string]any{"course_id": courseID, "assignment_id": assignmentID},
		"Grades", "Penalties")
}

// UpdateRegistration updates an existing registration.
func (s *GORMStore) UpdateRegistration(ctx context.Context, registration *models.Registration) error {
	result := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("id = ?", registration.ID).
		Updates(map[string]any{
			"grader_id": registration.GraderID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRegistrationNotFound
	}

	return nil
}

// UpsertGrade records or replaces the grade for a rubric component.
// Regrading the same component overwrites the previous points.
func (s *GORMStore) UpsertGrade(ctx context.Context, grade *models.Grade) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "registration_id"},
			{Name: "rubric_component_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"points"}),
	}).Create(grade).Error
}

// CreatePenalty records a penalty or bonus adjustment on a registration.
func (s *GORMStore) CreatePenalty(ctx context.Context, penalty *models.Penalty) error {
	if err := penalty.Validate(); err != nil {
		return err
	}
	ensureID(&penalty.ID)
	return s.db.WithContext(ctx).Create(penalty).Error
}

// DeletePenalty removes a penalty adjustment.
func (s *GORMStore) DeletePenalty(ctx context.Context, id string) error {
	return deleteByConds[models.Penalty](ctx, s.db,
		map[string]any{"id": id}, models.ErrPenaltyNotFound)
}
