package service

import (
	"go.uber.org/zap"

	"clerkrota/backend/config"
	"clerkrota/backend/internal/repository"
	"clerkrota/backend/pkg/redis"
)

// Service aggregates every business-logic interface.
type Service struct {
	Assignment   AssignmentService
	Regeneration RegenerationService
	Student      StudentService
	Site         SiteService
	Preceptor    PreceptorService
	Clerkship    ClerkshipService
	Availability AvailabilityService
	Blackout     BlackoutService
}

// NewService wires the service layer. cache may be nil; assignment progress
// then skips caching and reads straight from the store.
func NewService(repo *repository.Repository, cfg *config.Config, cache *redis.Client, logger *zap.Logger) *Service {
	validator := NewAssignmentValidator(RulePolicy{
		SpecialtyMatch: cfg.Scheduling.SpecialtyMatch,
	})

	return &Service{
		Assignment:   NewAssignmentService(repo, validator, cache, cfg.Scheduling.ProgressCacheTTL, logger),
		Regeneration: NewRegenerationService(repo, validator, logger),
		Student:      NewStudentService(repo.Student, logger),
		Site:         NewSiteService(repo.Site, logger),
		Preceptor:    NewPreceptorService(repo.Preceptor, repo.Site, logger),
		Clerkship:    NewClerkshipService(repo.Clerkship, logger),
		Availability: NewAvailabilityService(repo.Availability, repo.Preceptor, logger),
		Blackout:     NewBlackoutService(repo.Blackout, logger),
	}
}
