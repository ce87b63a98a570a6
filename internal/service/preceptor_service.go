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

// PreceptorService covers the preceptor CRUD surface. Site references are
// checked here so the scheduling core can trust them.
type PreceptorService interface {
	Create(ctx context.Context, req *dto.CreatePreceptorRequest, callerID string) (*model.Preceptor, error)
	Get(ctx context.Context, id string) (*model.Preceptor, error)
	List(ctx context.Context) ([]model.Preceptor, error)
	Update(ctx context.Context, id string, req *dto.UpdatePreceptorRequest, callerID string) (*model.Preceptor, error)
	Delete(ctx context.Context, id string) error
}

type preceptorService struct {
	repo     repository.PreceptorRepository
	siteRepo repository.SiteRepository
	logger   *zap.Logger
}

func NewPreceptorService(repo repository.PreceptorRepository, siteRepo repository.SiteRepository, logger *zap.Logger) PreceptorService {
	return &preceptorService{repo: repo, siteRepo: siteRepo, logger: logger}
}

func (s *preceptorService) checkSite(ctx context.Context, siteID *string) error {
	if siteID == nil {
		return nil
	}
	_, err := s.siteRepo.GetByID(ctx, *siteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NewNotFoundError("site", *siteID)
	}
	return err
}

func (s *preceptorService) Create(ctx context.Context, req *dto.CreatePreceptorRequest, callerID string) (*model.Preceptor, error) {
	if err := s.checkSite(ctx, req.SiteID); err != nil {
		return nil, err
	}
	preceptor := &model.Preceptor{
		Name:        req.Name,
		Email:       req.Email,
		MaxStudents: req.MaxStudents,
		Specialty:   req.Specialty,
		SiteID:      req.SiteID,
	}
	if callerID != "" {
		preceptor.CreatedBy = &callerID
	}
	if err := s.repo.Create(ctx, preceptor); err != nil {
		s.logger.Error("preceptor creation failed", zap.Error(err))
		return nil, err
	}
	return preceptor, nil
}

func (s *preceptorService) Get(ctx context.Context, id string) (*model.Preceptor, error) {
	preceptor, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NewNotFoundError("preceptor", id)
	}
	return preceptor, err
}

func (s *preceptorService) List(ctx context.Context) ([]model.Preceptor, error) {
	return s.repo.List(ctx)
}

func (s *preceptorService) Update(ctx context.Context, id string, req *dto.UpdatePreceptorRequest, callerID string) (*model.Preceptor, error) {
	preceptor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SiteID != nil {
		if err := s.checkSite(ctx, req.SiteID); err != nil {
			return nil, err
		}
		preceptor.SiteID = req.SiteID
	}
	if req.Name != nil {
		preceptor.Name = *req.Name
	}
	if req.Email != nil {
		preceptor.Email = *req.Email
	}
	if req.MaxStudents != nil {
		preceptor.MaxStudents = *req.MaxStudents
	}
	if req.Specialty != nil {
		preceptor.Specialty = *req.Specialty
	}
	if callerID != "" {
		preceptor.UpdatedBy = &callerID
	}
	if err := s.repo.Update(ctx, preceptor); err != nil {
		s.logger.Error("preceptor update failed", zap.String("preceptor_id", id), zap.Error(err))
		return nil, err
	}
	return preceptor, nil
}

func (s *preceptorService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
