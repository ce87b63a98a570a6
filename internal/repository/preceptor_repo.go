package repository

import (
	"context"

	"gorm.io/gorm"

	"clerkrota/backend/internal/model"
)

// PreceptorRepository manages preceptor records. Capacity is consulted by
// the scheduling core but never mutated by it.
type PreceptorRepository interface {
	Create(ctx context.Context, preceptor *model.Preceptor) error
	GetByID(ctx context.Context, id string) (*model.Preceptor, error)
	List(ctx context.Context) ([]model.Preceptor, error)
	Update(ctx context.Context, preceptor *model.Preceptor) error
	Delete(ctx context.Context, id string) error
}

type preceptorRepo struct {
	db *gorm.DB
}

func NewPreceptorRepo(db *gorm.DB) PreceptorRepository {
	return &preceptorRepo{db: db}
}

func (r *preceptorRepo) Create(ctx context.Context, preceptor *model.Preceptor) error {
	return r.db.WithContext(ctx).Create(preceptor).Error
}

func (r *preceptorRepo) GetByID(ctx context.Context, id string) (*model.Preceptor, error) {
	var preceptor model.Preceptor
	err := r.db.WithContext(ctx).
		Preload("Site").
		Where("preceptor_id = ?", id).
		First(&preceptor).Error
	if err != nil {
		return nil, err
	}
	return &preceptor, nil
}

func (r *preceptorRepo) List(ctx context.Context) ([]model.Preceptor, error) {
	var preceptors []model.Preceptor
	err := r.db.WithContext(ctx).
		Preload("Site").
		Order("name ASC").
		Find(&preceptors).Error
	return preceptors, err
}

func (r *preceptorRepo) Update(ctx context.Context, preceptor *model.Preceptor) error {
	return r.db.WithContext(ctx).Save(preceptor).Error
}

func (r *preceptorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("preceptor_id = ?", id).
		Delete(&model.Preceptor{}).Error
}
