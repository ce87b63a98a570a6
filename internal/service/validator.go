package service

import (
	"fmt"

	"clerkrota/backend/internal/model"
	pkgerrors "clerkrota/backend/pkg/errors"
)

// RulePolicy toggles the optional validation rules. Deployments have run
// with specialty matching both on and off, so it is explicit configuration
// rather than a guess baked into the code.
type RulePolicy struct {
	SpecialtyMatch bool
}

// ValidationResult reports every rule violated by one proposed assignment.
type ValidationResult struct {
	Valid      bool
	Violations []pkgerrors.Violation
}

// AssignmentValidator is the pure decision function behind every assignment
// write. It never errors for rule violations: all applicable violations are
// accumulated so a caller can report every problem in one pass. Rule order
// is fixed so error output is reproducible.
type AssignmentValidator struct {
	policy RulePolicy
}

func NewAssignmentValidator(policy RulePolicy) *AssignmentValidator {
	return &AssignmentValidator{policy: policy}
}

// Policy returns the active rule policy.
func (v *AssignmentValidator) Policy() RulePolicy { return v.policy }

// Validate checks a proposed assignment against the context's facts.
// excludeID names the stored record an in-place update is replacing, so the
// proposal does not collide with itself.
//
// Existence failures short-circuit: the remaining rules are meaningless
// against entities that do not exist.
func (v *AssignmentValidator) Validate(sc *SchedulingContext, proposed model.Assignment, excludeID string) ValidationResult {
	var violations []pkgerrors.Violation
	date := model.DateOnly(proposed.RotationDate)

	// Rule 1: existence.
	student, studentOK := sc.Student(proposed.StudentID)
	preceptor, preceptorOK := sc.Preceptor(proposed.PreceptorID)
	clerkship, clerkshipOK := sc.Clerkship(proposed.ClerkshipID)
	if !studentOK {
		violations = append(violations, pkgerrors.Violation{
			Rule:    pkgerrors.RuleExistence,
			Message: fmt.Sprintf("student %q does not exist", proposed.StudentID),
		})
	}
	if !preceptorOK {
		violations = append(violations, pkgerrors.Violation{
			Rule:    pkgerrors.RuleExistence,
			Message: fmt.Sprintf("preceptor %q does not exist", proposed.PreceptorID),
		})
	}
	if !clerkshipOK {
		violations = append(violations, pkgerrors.Violation{
			Rule:    pkgerrors.RuleExistence,
			Message: fmt.Sprintf("clerkship %q does not exist", proposed.ClerkshipID),
		})
	}
	if len(violations) > 0 {
		return ValidationResult{Valid: false, Violations: violations}
	}

	// Rule 2: specialty match (policy-gated).
	if v.policy.SpecialtyMatch && preceptor.Specialty != clerkship.Specialty {
		violations = append(violations, pkgerrors.Violation{
			Rule: pkgerrors.RuleSpecialty,
			Message: fmt.Sprintf("preceptor %s specialty %q does not match clerkship %s specialty %q",
				preceptor.Name, preceptor.Specialty, clerkship.Name, clerkship.Specialty),
		})
	}

	// Rule 3: student non-conflict.
	if sc.StudentBusy(proposed.StudentID, date, excludeID) {
		violations = append(violations, pkgerrors.Violation{
			Rule: pkgerrors.RuleStudentConflict,
			Message: fmt.Sprintf("student %s already has an assignment on %s",
				student.Name, date.Format("2006-01-02")),
		})
	}

	// Rule 4: preceptor capacity. A preceptor with no configured capacity
	// (MaxStudents <= 0) is treated as at capacity: fails closed.
	load := sc.PreceptorLoad(proposed.PreceptorID, date, excludeID)
	if preceptor.MaxStudents <= 0 || load >= preceptor.MaxStudents {
		violations = append(violations, pkgerrors.Violation{
			Rule: pkgerrors.RuleCapacity,
			Message: fmt.Sprintf("preceptor %s is at capacity (%d/%d) on %s",
				preceptor.Name, load, preceptor.MaxStudents, date.Format("2006-01-02")),
		})
	}

	// Rule 5: explicit unavailability. No record does not reject.
	if sc.Availability(proposed.PreceptorID, date) == model.AvailabilityUnavailable {
		violations = append(violations, pkgerrors.Violation{
			Rule: pkgerrors.RuleAvailability,
			Message: fmt.Sprintf("preceptor %s is marked unavailable on %s",
				preceptor.Name, date.Format("2006-01-02")),
		})
	}

	// Rule 6: blackout.
	if sc.IsBlackout(date) {
		violations = append(violations, pkgerrors.Violation{
			Rule:    pkgerrors.RuleBlackout,
			Message: fmt.Sprintf("%s is a blackout date", date.Format("2006-01-02")),
		})
	}

	return ValidationResult{Valid: len(violations) == 0, Violations: violations}
}
