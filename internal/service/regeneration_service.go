package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
)

// RegenStrategy selects how the engine treats assignments on/after the
// cutover date.
type RegenStrategy string

const (
	// StrategyFullReoptimize discards every future assignment; an external
	// generator re-plans from the credit-adjusted context.
	StrategyFullReoptimize RegenStrategy = "full_reoptimize"
	// StrategyMinimalChange keeps every future assignment that still
	// validates under current facts and proposes replacements for the rest.
	StrategyMinimalChange RegenStrategy = "minimal_change"
)

// ErrUnknownStrategy rejects strategies outside the two supported ones.
var ErrUnknownStrategy = errors.New("unknown regeneration strategy")

// ParseStrategy validates a wire strategy string.
func ParseStrategy(s string) (RegenStrategy, error) {
	switch RegenStrategy(s) {
	case StrategyFullReoptimize, StrategyMinimalChange:
		return RegenStrategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// RegenerationService re-plans a schedule from a cutover date. AnalyzeImpact
// and Apply share one pure planner; only Apply mutates, and it always
// re-derives its plan from current facts rather than trusting a preview.
type RegenerationService interface {
	AnalyzeImpact(ctx context.Context, req *dto.RegenerationRequest) (*dto.ImpactReportResponse, error)
	Apply(ctx context.Context, req *dto.RegenerationRequest, callerID string) (*dto.ApplyRegenerationResponse, error)
}

type regenerationService struct {
	repo      *repository.Repository
	validator *AssignmentValidator
	logger    *zap.Logger
}

func NewRegenerationService(repo *repository.Repository, validator *AssignmentValidator, logger *zap.Logger) RegenerationService {
	return &regenerationService{repo: repo, validator: validator, logger: logger}
}

// ── Plan types ──

type affectedAssignment struct {
	assignment    model.Assignment
	replacementID *string // nil when no eligible replacement exists
}

// regenPlan is the descriptive, non-mutating output of the planner.
type regenPlan struct {
	strategy  RegenStrategy
	cutover   time.Time
	windowEnd time.Time

	past     []model.Assignment
	preserve []model.Assignment
	del      []model.Assignment
	affected []affectedAssignment

	// credited is the credit-adjusted context a downstream generator plans
	// against.
	credited *SchedulingContext
}

// ── Fact loading ──

// loadFacts snapshots everything a regeneration needs: all entities, the
// window's availability and blackouts, the candidate-future assignment set,
// and the full preserved-past history for crediting.
func (s *regenerationService) loadFacts(ctx context.Context, cutover, windowEnd time.Time) (*SchedulingContext, []model.Assignment, error) {
	cutover = model.DateOnly(cutover)
	windowEnd = model.DateOnly(windowEnd)

	students, err := s.repo.Student.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	preceptors, err := s.repo.Preceptor.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	clerkships, err := s.repo.Clerkship.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	availability, err := s.repo.Availability.ListRange(ctx, cutover, windowEnd)
	if err != nil {
		return nil, nil, err
	}
	blackouts, err := s.repo.Blackout.ListRange(ctx, cutover, windowEnd)
	if err != nil {
		return nil, nil, err
	}
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{To: &windowEnd})
	if err != nil {
		return nil, nil, err
	}

	var history []model.Assignment
	for _, a := range assignments {
		if model.DateOnly(a.RotationDate).Before(cutover) {
			history = append(history, a)
		}
	}

	sc, err := BuildContext(ContextInput{
		Students:     students,
		Preceptors:   preceptors,
		Clerkships:   clerkships,
		Availability: availability,
		Blackouts:    blackouts,
		Assignments:  assignments, // builder keeps only [cutover, windowEnd]
		WindowStart:  cutover,
		WindowEnd:    windowEnd,
	})
	if err != nil {
		return nil, nil, err
	}
	return sc, history, nil
}

// ── Planner (pure) ──

// plan splits the schedule at the cutover. History strictly before the
// cutover is never touched and pays down each (student, clerkship)
// requirement as credit. The candidate-future set is handled per strategy.
func (s *regenerationService) plan(sc *SchedulingContext, history []model.Assignment, strategy RegenStrategy, cutover time.Time) *regenPlan {
	cutover = model.DateOnly(cutover)
	_, windowEnd := sc.Window()

	p := &regenPlan{
		strategy:  strategy,
		cutover:   cutover,
		windowEnd: windowEnd,
		past:      history,
		credited:  sc.ApplyHistoryCredit(history),
	}

	future := sc.AssignmentsFrom(cutover)

	if strategy == StrategyFullReoptimize {
		// Unconditional: everything on/after the cutover is slated for
		// deletion; the external generator refills from the credited
		// context.
		p.del = future
		return p
	}

	// minimal_change: re-validate each future assignment against current
	// facts, not the facts it was created under.
	planned := make(map[preceptorDateKey]int)
	for _, a := range future {
		result := s.validator.Validate(sc, a, a.AssignmentID)
		if result.Valid {
			p.preserve = append(p.preserve, a)
			continue
		}
		replacement := s.findReplacement(sc, a, planned)
		if replacement != nil {
			planned[preceptorDateKey{*replacement, model.DateOnly(a.RotationDate)}]++
		}
		p.affected = append(p.affected, affectedAssignment{
			assignment:    a,
			replacementID: replacement,
		})
	}
	return p
}

// findReplacement picks a preceptor that would make the affected assignment
// valid today: same site pool as the original preceptor (no site means the
// whole pool), explicitly-available-or-unset on the date, free capacity
// counting replacements already planned in this run, and specialty policy if
// enabled. Selection is deterministic: lowest load first, ties broken by
// ascending preceptor ID. Returns nil when nothing is eligible — the
// assignment is then reported, never silently dropped or kept.
func (s *regenerationService) findReplacement(sc *SchedulingContext, a model.Assignment, planned map[preceptorDateKey]int) *string {
	date := model.DateOnly(a.RotationDate)

	var sitePool *string
	if orig, ok := sc.Preceptor(a.PreceptorID); ok {
		sitePool = orig.SiteID
	}

	var bestID string
	bestLoad := -1
	for _, id := range sc.PreceptorIDs() {
		if id == a.PreceptorID {
			continue
		}
		cand, _ := sc.Preceptor(id)
		if sitePool != nil && (cand.SiteID == nil || *cand.SiteID != *sitePool) {
			continue
		}

		// A candidate must make the whole assignment valid, so violations a
		// preceptor swap cannot fix (blackout, student double-booking) rule
		// out every candidate and yield nil.
		swapped := a
		swapped.PreceptorID = id
		if !s.validator.Validate(sc, swapped, a.AssignmentID).Valid {
			continue
		}

		load := sc.PreceptorLoad(id, date, a.AssignmentID) + planned[preceptorDateKey{id, date}]
		if load >= cand.MaxStudents {
			continue
		}
		if bestLoad == -1 || load < bestLoad || (load == bestLoad && id < bestID) {
			bestID = id
			bestLoad = load
		}
	}

	if bestLoad == -1 {
		return nil
	}
	return &bestID
}

// ── Preview ──

// AnalyzeImpact runs the planner and reports what a regeneration would do.
// It never writes; calling it any number of times leaves the store
// untouched.
func (s *regenerationService) AnalyzeImpact(ctx context.Context, req *dto.RegenerationRequest) (*dto.ImpactReportResponse, error) {
	strategy, cutover, windowEnd, err := parseRegenerationRequest(req)
	if err != nil {
		return nil, err
	}

	sc, history, err := s.loadFacts(ctx, cutover, windowEnd)
	if err != nil {
		s.logger.Error("impact fact loading failed", zap.Error(err))
		return nil, err
	}

	p := s.plan(sc, history, strategy, cutover)
	return toImpactReport(p), nil
}

// ── Apply ──

// Apply re-derives the plan from current facts (a preview may be stale) and
// performs the mutations: deletions for full-reoptimize, validated
// re-pointing of affected assignments for minimal-change. Affected
// assignments without an eligible replacement are left in place and
// reported.
func (s *regenerationService) Apply(ctx context.Context, req *dto.RegenerationRequest, callerID string) (*dto.ApplyRegenerationResponse, error) {
	strategy, cutover, windowEnd, err := parseRegenerationRequest(req)
	if err != nil {
		return nil, err
	}

	sc, history, err := s.loadFacts(ctx, cutover, windowEnd)
	if err != nil {
		s.logger.Error("apply fact loading failed", zap.Error(err))
		return nil, err
	}

	p := s.plan(sc, history, strategy, cutover)

	resp := &dto.ApplyRegenerationResponse{
		PreservedCount: len(p.preserve),
		Unresolved:     []dto.AffectedAssignmentResponse{},
	}

	if len(p.del) > 0 {
		ids := make([]string, 0, len(p.del))
		for _, a := range p.del {
			ids = append(ids, a.AssignmentID)
		}
		deleted, err := s.repo.Assignment.DeleteByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("regeneration deletion failed", zap.Error(err))
			return nil, err
		}
		resp.DeletedCount = int(deleted)
		s.logger.Info("regeneration deleted future assignments",
			zap.String("strategy", string(strategy)),
			zap.Int("count", resp.DeletedCount))
	}

	for _, aff := range p.affected {
		if aff.replacementID == nil {
			resp.Unresolved = append(resp.Unresolved, toAffectedResponse(aff))
			continue
		}
		updated := aff.assignment
		updated.PreceptorID = *aff.replacementID
		updated.UpdatedBy = &callerID
		if err := s.repo.Assignment.Update(ctx, &updated); err != nil {
			// A lost race on one record does not abort the rest; it is
			// reported for a follow-up pass.
			s.logger.Warn("replacement write failed",
				zap.String("assignment_id", updated.AssignmentID), zap.Error(err))
			resp.Unresolved = append(resp.Unresolved, toAffectedResponse(aff))
			continue
		}
		resp.ReassignedCount++
	}

	s.logger.Info("regeneration applied",
		zap.String("strategy", string(strategy)),
		zap.Int("deleted", resp.DeletedCount),
		zap.Int("preserved", resp.PreservedCount),
		zap.Int("reassigned", resp.ReassignedCount),
		zap.Int("unresolved", len(resp.Unresolved)))

	return resp, nil
}

// ── Conversions ──

func parseRegenerationRequest(req *dto.RegenerationRequest) (RegenStrategy, time.Time, time.Time, error) {
	strategy, err := ParseStrategy(req.Strategy)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	cutover, err := dto.ParseDate(req.CutoverDate)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	windowEnd, err := dto.ParseDate(req.WindowEnd)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return strategy, cutover, windowEnd, nil
}

func toAffectedResponse(aff affectedAssignment) dto.AffectedAssignmentResponse {
	a := aff.assignment
	return dto.AffectedAssignmentResponse{
		Assignment:             toAssignmentResponse(&a),
		ReplacementPreceptorID: aff.replacementID,
	}
}

func toImpactReport(p *regenPlan) *dto.ImpactReportResponse {
	report := &dto.ImpactReportResponse{
		Strategy:       string(p.strategy),
		CutoverDate:    dto.FormatDate(p.cutover),
		WindowEnd:      dto.FormatDate(p.windowEnd),
		PastCount:      len(p.past),
		PreservedCount: len(p.preserve),
		DeletedCount:   len(p.del),
		AffectedCount:  len(p.affected),
		Affected:       []dto.AffectedAssignmentResponse{},
		Progress:       []dto.PairProgressResponse{},
	}
	for _, aff := range p.affected {
		report.Affected = append(report.Affected, toAffectedResponse(aff))
	}
	// Progress covers every pair with credited history: what the preserved
	// past has already paid down.
	for _, pair := range p.credited.CreditedPairs() {
		report.Progress = append(report.Progress, dto.PairProgressResponse{
			StudentID:     pair[0],
			ClerkshipID:   pair[1],
			CompletedDays: p.credited.CreditedDays(pair[0], pair[1]),
			RemainingDays: p.credited.RemainingDays(pair[0], pair[1]),
		})
	}
	return report
}
