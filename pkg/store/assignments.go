package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// GetAssignment retrieves an assignment with its rubric components.
func (s *GORMStore) GetAssignment(ctx context.Context, courseID, id string) (*models.Assignment, error) {
	var assignment models.Assignment

	err := s.db.WithContext(ctx).Preload("Components").
		Where("course_id = ? AND id = ?", courseID, id).
		First(&assignment).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrAssignmentNotFound)
	}

	return &assignment, nil
}

// ListAssignments retrieves all assignments in a course.
func (s *GORMStore) ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	return listAll[models.Assignment](ctx, s.db,
		map[string]any{"course_id": courseID}, "Components")
}

// CreateAssignment creates a new assignment.
func (s *GORMStore) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}
	return create(ctx, s.db, assignment, models.ErrDuplicateAssignment)
}

// UpdateAssignment updates an existing assignment.
func (s *GORMStore) UpdateAssignment(ctx context.Context, assignment *models.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("course_id = ? AND id = ?", assignment.CourseID, assignment.ID).
		Updates(map[string]any{
			"name":     assignment.Name,
			"deadline": assignment.Deadline,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrAssignmentNotFound
	}

	return nil
}

// DeleteAssignment deletes an assignment and its rubric.
func (s *GORMStore) DeleteAssignment(ctx context.Context, courseID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assignment models.Assignment
		err := tx.Where("course_id = ? AND id = ?", courseID, id).
			First(&assignment).Error
		if err != nil {
			return convertNotFoundError(err, models.ErrAssignmentNotFound)
		}

		if err := tx.Where("course_id = ? AND assignment_id = ?", courseID, id).
			Delete(&models.RubricComponent{}).Error; err != nil {
			return err
		}

		return tx.Delete(&assignment).Error
	})
}

// CreateRubricComponent adds a rubric component to an assignment.
// The (course, assignment, description) triple must be unique.
func (s *GORMStore) CreateRubricComponent(ctx context.Context, component *models.RubricComponent) error {
	if err := component.Validate(); err != nil {
		return err
	}
	ensureID(&component.ID)
	return create(ctx, s.db, component, models.ErrDuplicateRubricComponent)
}

// GetRubricComponent retrieves a rubric component by its ID.
func (s *GORMStore) GetRubricComponent(ctx context.Context, id string) (*models.RubricComponent, error) {
	return getByField[models.RubricComponent](ctx, s.db, "id", id, models.ErrRubricComponentNotFound)
}

// UpdateRubricComponent updates an existing rubric component.
func (s *GORMStore) UpdateRubricComponent(ctx context.Context, component *models.RubricComponent) error {
	if err := component.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.RubricComponent{}).
		Where("id = ?", component.ID).
		Updates(map[string]any{
			"description": component.Description,
			"points":      component.Points,
			"position":    component.Position,
		})
	if result.Error != nil {
		if IsUniqueConstraintError(result.Error) {
			return models.ErrDuplicateRubricComponent
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrRubricComponentNotFound
	}

	return nil
}

// DeleteRubricComponent deletes a rubric component and any grades against it.
func (s *GORMStore) DeleteRubricComponent(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rubric_component_id = ?", id).
			Delete(&models.Grade{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.RubricComponent{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrRubricComponentNotFound
		}

		return nil
	})
}
