package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface.
type Repository struct {
	Student      StudentRepository
	Site         SiteRepository
	Preceptor    PreceptorRepository
	Clerkship    ClerkshipRepository
	Assignment   AssignmentRepository
	Availability AvailabilityRepository
	Blackout     BlackoutRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student:      NewStudentRepo(db),
		Site:         NewSiteRepo(db),
		Preceptor:    NewPreceptorRepo(db),
		Clerkship:    NewClerkshipRepo(db),
		Assignment:   NewAssignmentRepo(db),
		Availability: NewAvailabilityRepo(db),
		Blackout:     NewBlackoutRepo(db),
	}
}
