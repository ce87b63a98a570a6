package dto

// Thin request shapes for the entity CRUD surface. Responses reuse the
// model types directly; they already carry JSON tags.

type CreateStudentRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type UpdateStudentRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type CreateSiteRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type UpdateSiteRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

type CreatePreceptorRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email"`
	MaxStudents int     `json:"max_students"`
	Specialty   string  `json:"specialty"`
	SiteID      *string `json:"site_id"`
}

type UpdatePreceptorRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	MaxStudents *int    `json:"max_students"`
	Specialty   *string `json:"specialty"`
	SiteID      *string `json:"site_id"`
}

type CreateClerkshipRequest struct {
	Name         string `json:"name" binding:"required"`
	RequiredDays int    `json:"required_days" binding:"required"`
	Specialty    string `json:"specialty"`
}

type UpdateClerkshipRequest struct {
	Name         *string `json:"name"`
	RequiredDays *int    `json:"required_days"`
	Specialty    *string `json:"specialty"`
}

// SetAvailabilityRequest marks one (preceptor, date) available/unavailable.
type SetAvailabilityRequest struct {
	PreceptorID string `json:"preceptor_id" binding:"required"`
	Date        string `json:"date"         binding:"required"` // YYYY-MM-DD
	Available   bool   `json:"available"`
	Reason      string `json:"reason"`
}

// SetAvailabilityRangeRequest marks every date in [from, to] at once.
type SetAvailabilityRangeRequest struct {
	PreceptorID string `json:"preceptor_id" binding:"required"`
	From        string `json:"from"         binding:"required"` // YYYY-MM-DD
	To          string `json:"to"           binding:"required"` // YYYY-MM-DD
	Available   bool   `json:"available"`
	Reason      string `json:"reason"`
}

// CreateBlackoutRequest blocks a date for everyone.
type CreateBlackoutRequest struct {
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason string `json:"reason"`
}
