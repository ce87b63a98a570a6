package repository

import (
	"context"

	"gorm.io/gorm"

	"clerkrota/backend/internal/model"
)

// ClerkshipRepository manages rotation-type records.
type ClerkshipRepository interface {
	Create(ctx context.Context, clerkship *model.Clerkship) error
	GetByID(ctx context.Context, id string) (*model.Clerkship, error)
	List(ctx context.Context) ([]model.Clerkship, error)
	Update(ctx context.Context, clerkship *model.Clerkship) error
	Delete(ctx context.Context, id string) error
}

type clerkshipRepo struct {
	db *gorm.DB
}

func NewClerkshipRepo(db *gorm.DB) ClerkshipRepository {
	return &clerkshipRepo{db: db}
}

func (r *clerkshipRepo) Create(ctx context.Context, clerkship *model.Clerkship) error {
	return r.db.WithContext(ctx).Create(clerkship).Error
}

func (r *clerkshipRepo) GetByID(ctx context.Context, id string) (*model.Clerkship, error) {
	var clerkship model.Clerkship
	err := r.db.WithContext(ctx).
		Where("clerkship_id = ?", id).
		First(&clerkship).Error
	if err != nil {
		return nil, err
	}
	return &clerkship, nil
}

func (r *clerkshipRepo) List(ctx context.Context) ([]model.Clerkship, error) {
	var clerkships []model.Clerkship
	err := r.db.WithContext(ctx).Order("name ASC").Find(&clerkships).Error
	return clerkships, err
}

func (r *clerkshipRepo) Update(ctx context.Context, clerkship *model.Clerkship) error {
	return r.db.WithContext(ctx).Save(clerkship).Error
}

func (r *clerkshipRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("clerkship_id = ?", id).
		Delete(&model.Clerkship{}).Error
}
