package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// getByField retrieves a single record by a field value.
// Returns notFoundErr if no record matches.
func getByField[T any](ctx context.Context, db *gorm.DB, field string, value any, notFoundErr error, preloads ...string) (*T, error) {
	var record T

	query := db.WithContext(ctx)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}

	err := query.Where(fmt.Sprintf("%s = ?", field), value).First(&record).Error
	if err != nil {
		return nil, convertNotFoundError(err, notFoundErr)
	}

	return &record, nil
}

// listAll retrieves all records of a type, optionally filtered and preloaded.
func listAll[T any](ctx context.Context, db *gorm.DB, conds map[string]any, preloads ...string) ([]T, error) {
	var records []T

	query := db.WithContext(ctx)
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	if len(conds) > 0 {
		query = query.Where(conds)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// ensureID assigns a fresh UUID when the caller left the ID empty.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// create inserts a record, mapping unique constraint violations to duplicateErr.
func create[T any](ctx context.Context, db *gorm.DB, record *T, duplicateErr error) error {
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		if IsUniqueConstraintError(err) {
			return duplicateErr
		}
		return err
	}
	return nil
}

// deleteByConds deletes records matching the conditions.
// Returns notFoundErr when nothing matched.
func deleteByConds[T any](ctx context.Context, db *gorm.DB, conds map[string]any, notFoundErr error) error {
	var record T

	result := db.WithContext(ctx).Where(conds).Delete(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundErr
	}

	return nil
}
