package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
	pkgerrors "clerkrota/backend/pkg/errors"
)

// ClerkshipService covers the rotation-type CRUD surface.
type ClerkshipService interface {
	Create(ctx context.Context, req *dto.CreateClerkshipRequest, callerID string) (*model.Clerkship, error)
	Get(ctx context.Context, id string) (*model.Clerkship, error)
	List(ctx context.Context) ([]model.Clerkship, error)
	Update(ctx context.Context, id string, req *dto.UpdateClerkshipRequest, callerID string) (*model.Clerkship, error)
	Delete(ctx context.Context, id string) error
}

type clerkshipService struct {
	repo   repository.ClerkshipRepository
	logger *zap.Logger
}

func NewClerkshipService(repo repository.ClerkshipRepository, logger *zap.Logger) ClerkshipService {
	return &clerkshipService{repo: repo, logger: logger}
}

func (s *clerkshipService) Create(ctx context.Context, req *dto.CreateClerkshipRequest, callerID string) (*model.Clerkship, error) {
	clerkship := &model.Clerkship{
		Name:         req.Name,
		RequiredDays: req.RequiredDays,
		Specialty:    req.Specialty,
	}
	if callerID != "" {
		clerkship.CreatedBy = &callerID
	}
	if err := s.repo.Create(ctx, clerkship); err != nil {
		s.logger.Error("clerkship creation failed", zap.Error(err))
		return nil, err
	}
	return clerkship, nil
}

func (s *clerkshipService) Get(ctx context.Context, id string) (*model.Clerkship, error) {
	clerkship, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NewNotFoundError("clerkship", id)
	}
	return clerkship, err
}

func (s *clerkshipService) List(ctx context.Context) ([]model.Clerkship, error) {
	return s.repo.List(ctx)
}

func (s *clerkshipService) Update(ctx context.Context, id string, req *dto.UpdateClerkshipRequest, callerID string) (*model.Clerkship, error) {
	clerkship, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		clerkship.Name = *req.Name
	}
	if req.RequiredDays != nil {
		clerkship.RequiredDays = *req.RequiredDays
	}
	if req.Specialty != nil {
		clerkship.Specialty = *req.Specialty
	}
	if callerID != "" {
		clerkship.UpdatedBy = &callerID
	}
	if err := s.repo.Update(ctx, clerkship); err != nil {
		s.logger.Error("clerkship update failed", zap.String("clerkship_id", id), zap.Error(err))
		return nil, err
	}
	return clerkship, nil
}

func (s *clerkshipService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
