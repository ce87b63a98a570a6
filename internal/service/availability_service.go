package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
	pkgerrors "clerkrota/backend/pkg/errors"
)

// ErrInvalidRange rejects availability ranges whose end precedes the start.
var ErrInvalidRange = errors.New("range end is before range start")

// AvailabilityService manages explicit per-date availability records.
// Deleting a record returns the (preceptor, date) to the unset state, which
// the validator treats as available.
type AvailabilityService interface {
	Set(ctx context.Context, req *dto.SetAvailabilityRequest) (*model.AvailabilityRecord, error)
	SetRange(ctx context.Context, req *dto.SetAvailabilityRangeRequest) ([]model.AvailabilityRecord, error)
	ListByPreceptor(ctx context.Context, preceptorID string) ([]model.AvailabilityRecord, error)
	Delete(ctx context.Context, preceptorID string, date time.Time) error
}

type availabilityService struct {
	repo          repository.AvailabilityRepository
	preceptorRepo repository.PreceptorRepository
	logger        *zap.Logger
}

func NewAvailabilityService(repo repository.AvailabilityRepository, preceptorRepo repository.PreceptorRepository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, preceptorRepo: preceptorRepo, logger: logger}
}

func (s *availabilityService) checkPreceptor(ctx context.Context, id string) error {
	_, err := s.preceptorRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NewNotFoundError("preceptor", id)
	}
	return err
}

func (s *availabilityService) Set(ctx context.Context, req *dto.SetAvailabilityRequest) (*model.AvailabilityRecord, error) {
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.checkPreceptor(ctx, req.PreceptorID); err != nil {
		return nil, err
	}
	record := &model.AvailabilityRecord{
		PreceptorID: req.PreceptorID,
		Date:        date,
		Available:   req.Available,
		Reason:      req.Reason,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		s.logger.Error("availability write failed",
			zap.String("preceptor_id", req.PreceptorID), zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (s *availabilityService) SetRange(ctx context.Context, req *dto.SetAvailabilityRangeRequest) ([]model.AvailabilityRecord, error) {
	from, err := dto.ParseDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(req.To)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	if err := s.checkPreceptor(ctx, req.PreceptorID); err != nil {
		return nil, err
	}

	var records []model.AvailabilityRecord
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		record := model.AvailabilityRecord{
			PreceptorID: req.PreceptorID,
			Date:        d,
			Available:   req.Available,
			Reason:      req.Reason,
		}
		if err := s.repo.Upsert(ctx, &record); err != nil {
			s.logger.Error("availability range write failed",
				zap.String("preceptor_id", req.PreceptorID),
				zap.Time("date", d), zap.Error(err))
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *availabilityService) ListByPreceptor(ctx context.Context, preceptorID string) ([]model.AvailabilityRecord, error) {
	if err := s.checkPreceptor(ctx, preceptorID); err != nil {
		return nil, err
	}
	return s.repo.ListByPreceptor(ctx, preceptorID)
}

func (s *availabilityService) Delete(ctx context.Context, preceptorID string, date time.Time) error {
	if _, err := s.repo.Get(ctx, preceptorID, date); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NewNotFoundError("availability record", preceptorID+"/"+dto.FormatDate(date))
		}
		return err
	}
	return s.repo.Delete(ctx, preceptorID, date)
}
