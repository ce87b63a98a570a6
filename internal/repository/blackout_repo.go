package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clerkrota/backend/internal/model"
)

// BlackoutRepository manages global no-assignment dates.
type BlackoutRepository interface {
	Create(ctx context.Context, blackout *model.BlackoutDate) error
	Contains(ctx context.Context, date time.Time) (bool, error)
	// ListRange returns blackout dates in [from, to].
	ListRange(ctx context.Context, from, to time.Time) ([]model.BlackoutDate, error)
	Delete(ctx context.Context, date time.Time) error
}

type blackoutRepo struct {
	db *gorm.DB
}

func NewBlackoutRepo(db *gorm.DB) BlackoutRepository {
	return &blackoutRepo{db: db}
}

func (r *blackoutRepo) Create(ctx context.Context, blackout *model.BlackoutDate) error {
	blackout.Date = model.DateOnly(blackout.Date)
	return r.db.WithContext(ctx).Create(blackout).Error
}

func (r *blackoutRepo) Contains(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.BlackoutDate{}).
		Where("date = ?", model.DateOnly(date)).
		Count(&count).Error
	return count > 0, err
}

func (r *blackoutRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.BlackoutDate, error) {
	var blackouts []model.BlackoutDate
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", model.DateOnly(from), model.DateOnly(to)).
		Order("date ASC").
		Find(&blackouts).Error
	return blackouts, err
}

func (r *blackoutRepo) Delete(ctx context.Context, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("date = ?", model.DateOnly(date)).
		Delete(&model.BlackoutDate{}).Error
}
