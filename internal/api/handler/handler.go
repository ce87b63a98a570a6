package handler

import "clerkrota/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Assignment   *AssignmentHandler
	Regeneration *RegenerationHandler
	Student      *StudentHandler
	Site         *SiteHandler
	Preceptor    *PreceptorHandler
	Clerkship    *ClerkshipHandler
	Availability *AvailabilityHandler
	Blackout     *BlackoutHandler
}

// NewHandler wires the handler layer onto the service aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Regeneration: NewRegenerationHandler(svc.Regeneration),
		Student:      NewStudentHandler(svc.Student),
		Site:         NewSiteHandler(svc.Site),
		Preceptor:    NewPreceptorHandler(svc.Preceptor),
		Clerkship:    NewClerkshipHandler(svc.Clerkship),
		Availability: NewAvailabilityHandler(svc.Availability),
		Blackout:     NewBlackoutHandler(svc.Blackout),
	}
}
