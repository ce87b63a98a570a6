package dto

// RegenerationRequest drives both impact preview and apply. Strategy is
// "full_reoptimize" or "minimal_change".
type RegenerationRequest struct {
	CutoverDate string `json:"cutover_date" binding:"required"` // YYYY-MM-DD
	WindowEnd   string `json:"window_end"   binding:"required"` // YYYY-MM-DD
	Strategy    string `json:"strategy"     binding:"required"`
}

// AffectedAssignmentResponse is a future assignment that no longer validates
// under current facts, with the proposed replacement preceptor or null when
// no eligible replacement exists.
type AffectedAssignmentResponse struct {
	Assignment             AssignmentResponse `json:"assignment"`
	ReplacementPreceptorID *string            `json:"replacement_preceptor_id"`
}

// PairProgressResponse is credit-adjusted remaining work for one
// (student, clerkship) pair.
type PairProgressResponse struct {
	StudentID     string `json:"student_id"`
	ClerkshipID   string `json:"clerkship_id"`
	CompletedDays int    `json:"completed_days"`
	RemainingDays int    `json:"remaining_days"`
}

// ImpactReportResponse describes what a regeneration would do, without
// having done any of it.
type ImpactReportResponse struct {
	Strategy       string                       `json:"strategy"`
	CutoverDate    string                       `json:"cutover_date"`
	WindowEnd      string                       `json:"window_end"`
	PastCount      int                          `json:"past_count"`
	PreservedCount int                          `json:"preserved_count"`
	DeletedCount   int                          `json:"deleted_count"`
	AffectedCount  int                          `json:"affected_count"`
	Affected       []AffectedAssignmentResponse `json:"affected"`
	Progress       []PairProgressResponse       `json:"progress"`
}

// ApplyRegenerationResponse reports what an applied regeneration changed.
// Unresolved carries affected assignments that had no eligible replacement;
// they are left in place for human or generator intervention.
type ApplyRegenerationResponse struct {
	DeletedCount    int                          `json:"deleted_count"`
	PreservedCount  int                          `json:"preserved_count"`
	ReassignedCount int                          `json:"reassigned_count"`
	Unresolved      []AffectedAssignmentResponse `json:"unresolved"`
}
