package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
)

func newTestRegenService(r *repository.Repository) RegenerationService {
	return NewRegenerationService(r, NewAssignmentValidator(RulePolicy{}), zap.NewNop())
}

func regenRequest(strategy string) *dto.RegenerationRequest {
	return &dto.RegenerationRequest{
		CutoverDate: "2026-03-10",
		WindowEnd:   "2026-03-31",
		Strategy:    strategy,
	}
}

func TestParseStrategyRejectsUnknown(t *testing.T) {
	if _, err := ParseStrategy("partial"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("want ErrUnknownStrategy, got %v", err)
	}
	for _, s := range []string{"full_reoptimize", "minimal_change"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
}

func TestAnalyzeImpactRejectsUnknownStrategy(t *testing.T) {
	svc := newTestRegenService(newMockRepos())
	if _, err := svc.AnalyzeImpact(context.Background(), regenRequest("partial")); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("want ErrUnknownStrategy, got %v", err)
	}
}

func TestAnalyzeImpactFullReoptimizeMarksEveryFuture(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	seedAssignment(r, "h1", "s1", "p1", "c1", "2026-03-05") // history
	seedAssignment(r, "h2", "s1", "p1", "c1", "2026-03-06") // history
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	seedAssignment(r, "f2", "s1", "p1", "c1", "2026-03-13")
	svc := newTestRegenService(r)

	report, err := svc.AnalyzeImpact(context.Background(), regenRequest("full_reoptimize"))
	if err != nil {
		t.Fatal(err)
	}

	if report.PastCount != 2 || report.DeletedCount != 2 || report.PreservedCount != 0 || report.AffectedCount != 0 {
		t.Fatalf("wrong partition: %+v", report)
	}

	// History credit: 2 of 5 required days already served.
	if len(report.Progress) != 1 {
		t.Fatalf("want one credited pair, got %+v", report.Progress)
	}
	p := report.Progress[0]
	if p.CompletedDays != 2 || p.RemainingDays != 3 {
		t.Fatalf("credit = %+v, want 2 completed / 3 remaining", p)
	}

	// Preview must not write.
	stored, _ := r.Assignment.List(context.Background(), repository.AssignmentFilter{})
	if len(stored) != 4 {
		t.Fatalf("preview mutated the store: %d assignments left", len(stored))
	}
}

func TestAnalyzeImpactIsRepeatable(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	svc := newTestRegenService(r)

	first, err := svc.AnalyzeImpact(context.Background(), regenRequest("full_reoptimize"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.AnalyzeImpact(context.Background(), regenRequest("full_reoptimize"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same store, different reports:\n%+v\n%+v", first, second)
	}
}

func TestMinimalChangePartitionsFutures(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedStudent(r, "s2", "Blake")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedPreceptor(r, "p2", "Dr. Osei", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")

	// p1 became unavailable on the 12th, so f1 no longer validates; f2 on
	// the 13th is untouched.
	_ = r.Availability.Upsert(context.Background(), &model.AvailabilityRecord{
		PreceptorID: "p1", Date: day("2026-03-12"), Available: false,
	})
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	seedAssignment(r, "f2", "s2", "p1", "c1", "2026-03-13")
	svc := newTestRegenService(r)

	report, err := svc.AnalyzeImpact(context.Background(), regenRequest("minimal_change"))
	if err != nil {
		t.Fatal(err)
	}

	if report.PreservedCount != 1 || report.AffectedCount != 1 || report.DeletedCount != 0 {
		t.Fatalf("wrong partition: %+v", report)
	}
	if report.PreservedCount+report.AffectedCount != 2 {
		t.Fatal("preserved and affected must partition the future set")
	}

	aff := report.Affected[0]
	if aff.Assignment.ID != "f1" {
		t.Fatalf("affected = %s, want f1", aff.Assignment.ID)
	}
	if aff.ReplacementPreceptorID == nil || *aff.ReplacementPreceptorID != "p2" {
		t.Fatalf("replacement = %v, want p2", aff.ReplacementPreceptorID)
	}
}

func TestMinimalChangeReplacementTieBreaksByID(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedPreceptor(r, "p2", "Dr. Osei", 2, "", nil)
	seedPreceptor(r, "p3", "Dr. Reyes", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	_ = r.Availability.Upsert(context.Background(), &model.AvailabilityRecord{
		PreceptorID: "p1", Date: day("2026-03-12"), Available: false,
	})
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	svc := newTestRegenService(r)

	report, err := svc.AnalyzeImpact(context.Background(), regenRequest("minimal_change"))
	if err != nil {
		t.Fatal(err)
	}

	// p2 and p3 carry equal load; the lower ID wins.
	aff := report.Affected[0]
	if aff.ReplacementPreceptorID == nil || *aff.ReplacementPreceptorID != "p2" {
		t.Fatalf("replacement = %v, want p2 by ID tie-break", aff.ReplacementPreceptorID)
	}
}

func TestMinimalChangeReplacementPrefersLowerLoad(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedStudent(r, "s2", "Blake")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedPreceptor(r, "p2", "Dr. Osei", 2, "", nil)
	seedPreceptor(r, "p3", "Dr. Reyes", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	_ = r.Availability.Upsert(context.Background(), &model.AvailabilityRecord{
		PreceptorID: "p1", Date: day("2026-03-12"), Available: false,
	})
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	// p2 already has a student that day, p3 is free.
	seedAssignment(r, "f2", "s2", "p2", "c1", "2026-03-12")
	svc := newTestRegenService(r)

	report, err := svc.AnalyzeImpact(context.Background(), regenRequest("minimal_change"))
	if err != nil {
		t.Fatal(err)
	}

	aff := report.Affected[0]
	if aff.ReplacementPreceptorID == nil || *aff.ReplacementPreceptorID != "p3" {
		t.Fatalf("replacement = %v, want p3 with the lower load", aff.ReplacementPreceptorID)
	}
}

func TestMinimalChangeReplacementRespectsSitePool(t *testing.T) {
	r := newMockRepos()
	siteA, siteB := "site-a", "site-b"
	seedStudent(r, "s1", "Avery")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", &siteA)
	seedPreceptor(r, "p2", "Dr. Osei", 2, "", &siteB) // wrong site, lower ID
	seedPreceptor(r, "p3", "Dr. Reyes", 2, "", &siteA)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	_ = r.Availability.Upsert(context.Background(), &model.AvailabilityRecord{
		PreceptorID: "p1", Date: day("2026-03-12"), Available: false,
	})
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	svc := newTestRegenService(r)

	report, err := svc.AnalyzeImpact(context.Background(), regenRequest("minimal_change"))
	if err != nil {
		t.Fatal(err)
	}

	aff := report.Affected[0]
	if aff.ReplacementPreceptorID == nil || *aff.ReplacementPreceptorID != "p3" {
		t.Fatalf("replacement = %v, want p3 from the same site", aff.ReplacementPreceptorID)
	}
}

func TestMinimalChangeBlackoutHasNoReplacement(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedPreceptor(r, "p2", "Dr. Osei", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	_ = r.Blackout.Create(context.Background(), &model.BlackoutDate{Date: day("2026-03-12")})
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	svc := newTestRegenService(r)

	report, err := svc.AnalyzeImpact(context.Background(), regenRequest("minimal_change"))
	if err != nil {
		t.Fatal(err)
	}

	// No preceptor swap can fix a blackout; the assignment is reported with
	// a null replacement, never dropped silently.
	if report.AffectedCount != 1 {
		t.Fatalf("want 1 affected, got %+v", report)
	}
	if report.Affected[0].ReplacementPreceptorID != nil {
		t.Fatalf("blackout must yield nil replacement, got %v", *report.Affected[0].ReplacementPreceptorID)
	}
}

func TestApplyFullReoptimizeDeletesFuturesOnly(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	seedAssignment(r, "h1", "s1", "p1", "c1", "2026-03-05")
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	seedAssignment(r, "f2", "s1", "p1", "c1", "2026-03-13")
	svc := newTestRegenService(r)

	resp, err := svc.Apply(context.Background(), regenRequest("full_reoptimize"), "admin-1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.DeletedCount != 2 || resp.PreservedCount != 0 || resp.ReassignedCount != 0 {
		t.Fatalf("wrong apply result: %+v", resp)
	}

	stored, _ := r.Assignment.List(context.Background(), repository.AssignmentFilter{})
	if len(stored) != 1 || stored[0].AssignmentID != "h1" {
		t.Fatalf("history must survive, got %+v", stored)
	}
}

func TestApplyMinimalChangeReassigns(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedStudent(r, "s2", "Blake")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedPreceptor(r, "p2", "Dr. Osei", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	_ = r.Availability.Upsert(context.Background(), &model.AvailabilityRecord{
		PreceptorID: "p1", Date: day("2026-03-12"), Available: false,
	})
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	seedAssignment(r, "f2", "s2", "p1", "c1", "2026-03-13")
	svc := newTestRegenService(r)

	resp, err := svc.Apply(context.Background(), regenRequest("minimal_change"), "admin-1")
	if err != nil {
		t.Fatal(err)
	}
	if resp.DeletedCount != 0 || resp.PreservedCount != 1 || resp.ReassignedCount != 1 || len(resp.Unresolved) != 0 {
		t.Fatalf("wrong apply result: %+v", resp)
	}

	moved, err := r.Assignment.GetByID(context.Background(), "f1")
	if err != nil {
		t.Fatal(err)
	}
	if moved.PreceptorID != "p2" {
		t.Fatalf("f1 preceptor = %s, want p2", moved.PreceptorID)
	}

	kept, _ := r.Assignment.GetByID(context.Background(), "f2")
	if kept.PreceptorID != "p1" {
		t.Fatalf("preserved f2 must stay on p1, got %s", kept.PreceptorID)
	}
}

func TestApplyMinimalChangeReportsUnresolved(t *testing.T) {
	r := newMockRepos()
	seedStudent(r, "s1", "Avery")
	seedPreceptor(r, "p1", "Dr. Kim", 2, "", nil)
	seedClerkship(r, "c1", "Family Medicine", 5, "")
	_ = r.Blackout.Create(context.Background(), &model.BlackoutDate{Date: day("2026-03-12")})
	seedAssignment(r, "f1", "s1", "p1", "c1", "2026-03-12")
	svc := newTestRegenService(r)

	resp, err := svc.Apply(context.Background(), regenRequest("minimal_change"), "")
	if err != nil {
		t.Fatal(err)
	}
	if resp.ReassignedCount != 0 || len(resp.Unresolved) != 1 {
		t.Fatalf("want one unresolved, got %+v", resp)
	}

	// The unresolvable assignment stays in place.
	if _, err := r.Assignment.GetByID(context.Background(), "f1"); err != nil {
		t.Fatalf("unresolved assignment must not be deleted: %v", err)
	}
}
