package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/models"
)

// GetCourse retrieves a course by ID, with members preloaded so role
// predicates can be evaluated without further queries.
func (s *GORMStore) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return getByField[models.Course](ctx, s.db, "id", id, models.ErrCourseNotFound,
		"Members", "Members.User")
}

// ListCourses retrieves all courses.
func (s *GORMStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	return listAll[models.Course](ctx, s.db, nil)
}

// CreateCourse creates a new course.
func (s *GORMStore) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}
	return create(ctx, s.db, course, models.ErrDuplicateCourse)
}

// UpdateCourse updates an existing course.
func (s *GORMStore) UpdateCourse(ctx context.Context, course *models.Course) error {
	if err := course.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", course.ID).
		Update("name", course.Name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrCourseNotFound
	}

	return nil
}

// DeleteCourse deletes a course and all records scoped to it.
func (s *GORMStore) DeleteCourse(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.Where("id = ?", id).First(&course).Error; err != nil {
			return convertNotFoundError(err, models.ErrCourseNotFound)
		}

		var registrationIDs []string
		if err := tx.Model(&models.Registration{}).
			Where("course_id = ?", id).
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
		}

		for _, model := range []any{
			&models.Registration{},
			&models.TeamMember{},
			&models.Team{},
			&models.RubricComponent{},
			&models.Assignment{},
			&models.CourseMember{},
		} {
			if err := tx.Where("course_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&course).Error
	})
}

// AddCourseMember enrolls a user in a course with a role.
func (s *GORMStore) AddCourseMember(ctx context.Context, member *models.CourseMember) error {
	if err := member.Validate(); err != nil {
		return err
	}
	return create(ctx, s.db, member, models.ErrDuplicateMember)
}

// GetCourseMember retrieves a single course membership.
func (s *GORMStore) GetCourseMember(ctx context.Context, courseID, userID string) (*models.CourseMember, error) {
	var member models.CourseMember

	err := s.db.WithContext(ctx).Preload("User").
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&member).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrMemberNotFound)
	}

	return &member, nil
}

// ListCourseMembers retrieves course memberships, optionally filtered by role.
func (s *GORMStore) ListCourseMembers(ctx context.Context, courseID string, role models.CourseRole) ([]models.CourseMember, error) {
	conds := map[string]any{"course_id": courseID}
	if role != "" {
		conds["role"] = role
	}
	return listAll[models.CourseMember](ctx, s.db, conds, "User")
}

// UpdateCourseMember updates an existing membership.
func (s *GORMStore) UpdateCourseMember(ctx context.Context, member *models.CourseMember) error {
	if err := member.Validate(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.CourseMember{}).
		Where("course_id = ? AND user_id = ?", member.CourseID, member.UserID).
		Updates(map[string]any{
			"role":    member.Role,
			"dropped": member.Dropped,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrMemberNotFound
	}

	return nil
}

// RemoveCourseMember removes a user from a course entirely.
func (s *GORMStore) RemoveCourseMember(ctx context.Context, courseID, userID string) error {
	return deleteByConds[models.CourseMember](ctx, s.db,
		map[string]any{"course_id": courseID, "user_id": userID},
		models.ErrMemberNotFound)
}
