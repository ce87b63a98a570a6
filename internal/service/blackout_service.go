package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
	pkgerrors "clerkrota/backend/pkg/errors"
)

// BlackoutService manages global no-assignment dates.
type BlackoutService interface {
	Create(ctx context.Context, req *dto.CreateBlackoutRequest) (*model.BlackoutDate, error)
	ListRange(ctx context.Context, from, to time.Time) ([]model.BlackoutDate, error)
	Delete(ctx context.Context, date time.Time) error
}

type blackoutService struct {
	repo   repository.BlackoutRepository
	logger *zap.Logger
}

func NewBlackoutService(repo repository.BlackoutRepository, logger *zap.Logger) BlackoutService {
	return &blackoutService{repo: repo, logger: logger}
}

func (s *blackoutService) Create(ctx context.Context, req *dto.CreateBlackoutRequest) (*model.BlackoutDate, error) {
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.Contains(ctx, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkgerrors.NewConflictError("blackout_dates", "date "+req.Date+" is already blacked out")
	}
	blackout := &model.BlackoutDate{Date: date, Reason: req.Reason}
	if err := s.repo.Create(ctx, blackout); err != nil {
		s.logger.Error("blackout creation failed", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}
	return blackout, nil
}

func (s *blackoutService) ListRange(ctx context.Context, from, to time.Time) ([]model.BlackoutDate, error) {
	return s.repo.ListRange(ctx, from, to)
}

func (s *blackoutService) Delete(ctx context.Context, date time.Time) error {
	exists, err := s.repo.Contains(ctx, date)
	if err != nil {
		return err
	}
	if !exists {
		return pkgerrors.NewNotFoundError("blackout date", dto.FormatDate(date))
	}
	return s.repo.Delete(ctx, date)
}
