package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clerkrota/backend/internal/model"
	pkgerrors "clerkrota/backend/pkg/errors"
)

// AssignmentFilter narrows assignment listings. Zero-value fields are
// ignored; From/To bound rotation_date inclusively.
type AssignmentFilter struct {
	StudentID   string
	PreceptorID string
	ClerkshipID string
	From        *time.Time
	To          *time.Time
}

// AssignmentRepository is the only writer-facing data access the scheduling
// core owns.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	BatchCreate(ctx context.Context, assignments []model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	// List returns matches ordered by rotation_date ascending.
	List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	// CountByPreceptorDate counts assignments on (preceptor, date), optionally
	// excluding one record (for in-place updates).
	CountByPreceptorDate(ctx context.Context, preceptorID string, date time.Time, excludeID string) (int64, error)
	// ExistsByStudentDate reports whether the student already has an
	// assignment on the date, optionally excluding one record.
	ExistsByStudentDate(ctx context.Context, studentID string, date time.Time, excludeID string) (bool, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	assignment.RotationDate = model.DateOnly(assignment.RotationDate)
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	for i := range assignments {
		assignments[i].RotationDate = model.DateOnly(assignments[i].RotationDate)
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Preceptor").Preload("Preceptor.Site").
		Preload("Clerkship").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error) {
	db := r.db.WithContext(ctx).Model(&model.Assignment{})

	if filter.StudentID != "" {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.PreceptorID != "" {
		db = db.Where("preceptor_id = ?", filter.PreceptorID)
	}
	if filter.ClerkshipID != "" {
		db = db.Where("clerkship_id = ?", filter.ClerkshipID)
	}
	if filter.From != nil {
		db = db.Where("rotation_date >= ?", model.DateOnly(*filter.From))
	}
	if filter.To != nil {
		db = db.Where("rotation_date <= ?", model.DateOnly(*filter.To))
	}

	var assignments []model.Assignment
	err := db.Order("rotation_date ASC").Find(&assignments).Error
	return assignments, err
}

// Update writes the mutable columns under an optimistic-lock version check.
func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	oldVersion := assignment.Version
	result := r.db.WithContext(ctx).
		Model(assignment).
		Where("assignment_id = ? AND version = ?", assignment.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"preceptor_id":  assignment.PreceptorID,
			"clerkship_id":  assignment.ClerkshipID,
			"rotation_date": model.DateOnly(assignment.RotationDate),
			"status":        assignment.Status,
			"updated_by":    assignment.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	assignment.Version = oldVersion + 1
	return nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("assignment_id = ?", id).
		Delete(&model.Assignment{}).Error
}

func (r *assignmentRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("assignment_id IN ?", ids).
		Delete(&model.Assignment{})
	return result.RowsAffected, result.Error
}

func (r *assignmentRepo) CountByPreceptorDate(ctx context.Context, preceptorID string, date time.Time, excludeID string) (int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("preceptor_id = ? AND rotation_date = ?", preceptorID, model.DateOnly(date))
	if excludeID != "" {
		db = db.Where("assignment_id != ?", excludeID)
	}
	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *assignmentRepo) ExistsByStudentDate(ctx context.Context, studentID string, date time.Time, excludeID string) (bool, error) {
	db := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("student_id = ? AND rotation_date = ?", studentID, model.DateOnly(date))
	if excludeID != "" {
		db = db.Where("assignment_id != ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
