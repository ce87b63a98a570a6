package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOptimisticLock signals that a versioned record was modified by another
// operation between read and write.
var ErrOptimisticLock = errors.New("record was modified by another operation, refresh and retry")

// ── Rule codes ──

// RuleCode identifies which scheduling rule a violation came from.
// Codes are stable so callers and tests can branch on them.
type RuleCode string

const (
	RuleExistence       RuleCode = "existence"
	RuleSpecialty       RuleCode = "specialty_match"
	RuleStudentConflict RuleCode = "student_conflict"
	RuleCapacity        RuleCode = "preceptor_capacity"
	RuleAvailability    RuleCode = "preceptor_availability"
	RuleBlackout        RuleCode = "blackout_date"
)

// Violation is a single business-rule failure, carrying enough detail for a
// human to resolve it without reading logs.
type Violation struct {
	Rule    RuleCode `json:"rule"`
	Message string   `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s", v.Rule, v.Message)
}

// ── ValidationError ──

// ValidationError aggregates every rule violation found for one write
// attempt. It is user-correctable and never retried automatically.
type ValidationError struct {
	Violations []Violation
}

func NewValidationError(violations []Violation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ── NotFoundError ──

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// ── ConflictError ──

// ConflictError reports a store-level uniqueness violation that slipped past
// validation due to a concurrent writer. Callers should re-validate once
// rather than blindly retry.
type ConflictError struct {
	Constraint string
	Detail     string
}

func NewConflictError(constraint, detail string) *ConflictError {
	return &ConflictError{Constraint: constraint, Detail: detail}
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("conflict on %s", e.Constraint)
	}
	return fmt.Sprintf("conflict on %s: %s", e.Constraint, e.Detail)
}
