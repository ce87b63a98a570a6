package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clerkrota/backend/internal/model"
)

// AvailabilityRepository manages explicit (preceptor, date) availability
// records. No row for a pair means "no explicit restriction".
type AvailabilityRepository interface {
	// Upsert writes the record for (preceptor, date), replacing any prior one.
	Upsert(ctx context.Context, record *model.AvailabilityRecord) error
	Get(ctx context.Context, preceptorID string, date time.Time) (*model.AvailabilityRecord, error)
	ListByPreceptor(ctx context.Context, preceptorID string) ([]model.AvailabilityRecord, error)
	// ListRange returns every explicit record with date in [from, to].
	ListRange(ctx context.Context, from, to time.Time) ([]model.AvailabilityRecord, error)
	Delete(ctx context.Context, preceptorID string, date time.Time) error
}

type availabilityRepo struct {
	db *gorm.DB
}

func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) Upsert(ctx context.Context, record *model.AvailabilityRecord) error {
	record.Date = model.DateOnly(record.Date)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "preceptor_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"available", "reason", "updated_at"}),
		}).
		Create(record).Error
}

func (r *availabilityRepo) Get(ctx context.Context, preceptorID string, date time.Time) (*model.AvailabilityRecord, error) {
	var record model.AvailabilityRecord
	err := r.db.WithContext(ctx).
		Where("preceptor_id = ? AND date = ?", preceptorID, model.DateOnly(date)).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *availabilityRepo) ListByPreceptor(ctx context.Context, preceptorID string) ([]model.AvailabilityRecord, error) {
	var records []model.AvailabilityRecord
	err := r.db.WithContext(ctx).
		Where("preceptor_id = ?", preceptorID).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *availabilityRepo) ListRange(ctx context.Context, from, to time.Time) ([]model.AvailabilityRecord, error) {
	var records []model.AvailabilityRecord
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", model.DateOnly(from), model.DateOnly(to)).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *availabilityRepo) Delete(ctx context.Context, preceptorID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("preceptor_id = ? AND date = ?", preceptorID, model.DateOnly(date)).
		Delete(&model.AvailabilityRecord{}).Error
}
