package dto

import pkgerrors "clerkrota/backend/pkg/errors"

// CreateAssignmentRequest proposes one rotation assignment.
type CreateAssignmentRequest struct {
	StudentID    string `json:"student_id"    binding:"required"`
	PreceptorID  string `json:"preceptor_id"  binding:"required"`
	ClerkshipID  string `json:"clerkship_id"  binding:"required"`
	RotationDate string `json:"rotation_date" binding:"required"` // YYYY-MM-DD
	Status       string `json:"status"`
}

// UpdateAssignmentRequest patches an existing assignment. Nil fields are
// left unchanged; the merged record is what gets validated.
type UpdateAssignmentRequest struct {
	PreceptorID  *string `json:"preceptor_id"`
	ClerkshipID  *string `json:"clerkship_id"`
	RotationDate *string `json:"rotation_date"` // YYYY-MM-DD
	Status       *string `json:"status"`
}

// ValidateAssignmentRequest runs the rule set without writing anything.
// ExcludeAssignmentID lets an in-place update validate without colliding
// with its own stored record.
type ValidateAssignmentRequest struct {
	CreateAssignmentRequest
	ExcludeAssignmentID string `json:"exclude_assignment_id"`
}

// ValidationResultResponse reports every violated rule for one attempt.
type ValidationResultResponse struct {
	Valid  bool                  `json:"valid"`
	Errors []pkgerrors.Violation `json:"errors"`
}

// AssignmentResponse is the wire shape of one assignment.
type AssignmentResponse struct {
	ID           string `json:"assignment_id"`
	StudentID    string `json:"student_id"`
	PreceptorID  string `json:"preceptor_id"`
	ClerkshipID  string `json:"clerkship_id"`
	RotationDate string `json:"rotation_date"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// BulkCreateAssignmentsRequest proposes a batch. Semantics are best-effort
// per item: one invalid item never aborts the rest.
type BulkCreateAssignmentsRequest struct {
	Assignments []CreateAssignmentRequest `json:"assignments"`
}

// BulkItemFailure identifies a rejected batch item by its input index.
type BulkItemFailure struct {
	Index      int                   `json:"index"`
	Violations []pkgerrors.Violation `json:"violations,omitempty"`
	Message    string                `json:"message,omitempty"`
}

// BulkCreateAssignmentsResponse reports partial success explicitly so a
// caller can retry only the failures.
type BulkCreateAssignmentsResponse struct {
	Successful []AssignmentResponse `json:"successful"`
	Failed     []BulkItemFailure    `json:"failed"`
}
