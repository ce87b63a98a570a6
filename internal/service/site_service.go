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

// SiteService covers the clinical-site CRUD surface.
type SiteService interface {
	Create(ctx context.Context, req *dto.CreateSiteRequest, callerID string) (*model.Site, error)
	Get(ctx context.Context, id string) (*model.Site, error)
	List(ctx context.Context) ([]model.Site, error)
	Update(ctx context.Context, id string, req *dto.UpdateSiteRequest, callerID string) (*model.Site, error)
	Delete(ctx context.Context, id string) error
}

type siteService struct {
	repo   repository.SiteRepository
	logger *zap.Logger
}

func NewSiteService(repo repository.SiteRepository, logger *zap.Logger) SiteService {
	return &siteService{repo: repo, logger: logger}
}

func (s *siteService) Create(ctx context.Context, req *dto.CreateSiteRequest, callerID string) (*model.Site, error) {
	site := &model.Site{
		Name:    req.Name,
		Address: req.Address,
	}
	if callerID != "" {
		site.CreatedBy = &callerID
	}
	if err := s.repo.Create(ctx, site); err != nil {
		s.logger.Error("site creation failed", zap.Error(err))
		return nil, err
	}
	return site, nil
}

func (s *siteService) Get(ctx context.Context, id string) (*model.Site, error) {
	site, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.NewNotFoundError("site", id)
	}
	return site, err
}

func (s *siteService) List(ctx context.Context) ([]model.Site, error) {
	return s.repo.List(ctx)
}

func (s *siteService) Update(ctx context.Context, id string, req *dto.UpdateSiteRequest, callerID string) (*model.Site, error) {
	site, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if callerID != "" {
		site.UpdatedBy = &callerID
	}
	if err := s.repo.Update(ctx, site); err != nil {
		s.logger.Error("site update failed", zap.String("site_id", id), zap.Error(err))
		return nil, err
	}
	return site, nil
}

func (s *siteService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
