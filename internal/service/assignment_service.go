package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/model"
	"clerkrota/backend/internal/repository"
	pkgerrors "clerkrota/backend/pkg/errors"
	"clerkrota/backend/pkg/redis"
)

// AssignmentService owns every assignment write. Each mutation passes
// through the validator against freshly loaded facts before it commits.
type AssignmentService interface {
	// Validate runs the rule set without writing anything.
	Validate(ctx context.Context, req *dto.ValidateAssignmentRequest) (*dto.ValidationResultResponse, error)
	Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	Get(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	List(ctx context.Context, filter repository.AssignmentFilter) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string) error
	// BulkCreate is best-effort per item: the response lists successes and
	// failures separately so a caller can retry only the failures.
	BulkCreate(ctx context.Context, req *dto.BulkCreateAssignmentsRequest, callerID string) (*dto.BulkCreateAssignmentsResponse, error)
	// GetProgress derives per-clerkship completion for a student, capped at
	// 100%.
	GetProgress(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error)
}

type assignmentService struct {
	repo      *repository.Repository
	validator *AssignmentValidator
	cache     *redis.Client // nil degrades to uncached
	cacheTTL  time.Duration
	logger    *zap.Logger

	// Serializes validate-then-write so no other assignment write can
	// interleave between a validation and its commit. The store's unique
	// index on (student, rotation_date) backstops writers outside this
	// process.
	writeMu sync.Mutex
}

// NewAssignmentService creates the single assignment write path.
func NewAssignmentService(repo *repository.Repository, validator *AssignmentValidator, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) AssignmentService {
	return &assignmentService{
		repo:      repo,
		validator: validator,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// ── Fact loading ──

// buildDayContext snapshots exactly the facts the validator needs to judge
// one proposed assignment: the referenced entities, both parties' existing
// assignments on the date, the explicit availability record, and the
// blackout flag. Missing entities stay absent so the existence rule fires.
func (s *assignmentService) buildDayContext(ctx context.Context, proposed model.Assignment) (*SchedulingContext, error) {
	date := model.DateOnly(proposed.RotationDate)
	in := ContextInput{WindowStart: date, WindowEnd: date}

	student, err := s.repo.Student.GetByID(ctx, proposed.StudentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if student != nil {
		in.Students = append(in.Students, *student)
	}

	preceptor, err := s.repo.Preceptor.GetByID(ctx, proposed.PreceptorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if preceptor != nil {
		in.Preceptors = append(in.Preceptors, *preceptor)
	}

	clerkship, err := s.repo.Clerkship.GetByID(ctx, proposed.ClerkshipID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if clerkship != nil {
		in.Clerkships = append(in.Clerkships, *clerkship)
	}

	studentDay, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{
		StudentID: proposed.StudentID, From: &date, To: &date,
	})
	if err != nil {
		return nil, err
	}
	in.Assignments = append(in.Assignments, studentDay...)

	preceptorDay, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{
		PreceptorID: proposed.PreceptorID, From: &date, To: &date,
	})
	if err != nil {
		return nil, err
	}
	// The student's and preceptor's day lists can overlap on the record
	// being updated; dedupe by ID.
	seen := make(map[string]struct{}, len(in.Assignments))
	for _, a := range in.Assignments {
		seen[a.AssignmentID] = struct{}{}
	}
	for _, a := range preceptorDay {
		if _, ok := seen[a.AssignmentID]; !ok {
			in.Assignments = append(in.Assignments, a)
		}
	}

	record, err := s.repo.Availability.Get(ctx, proposed.PreceptorID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if record != nil {
		in.Availability = append(in.Availability, *record)
	}

	blackout, err := s.repo.Blackout.Contains(ctx, date)
	if err != nil {
		return nil, err
	}
	if blackout {
		in.Blackouts = append(in.Blackouts, model.BlackoutDate{Date: date})
	}

	return BuildContext(in)
}

func (s *assignmentService) validateProposed(ctx context.Context, proposed model.Assignment, excludeID string) (ValidationResult, error) {
	sc, err := s.buildDayContext(ctx, proposed)
	if err != nil {
		return ValidationResult{}, err
	}
	return s.validator.Validate(sc, proposed, excludeID), nil
}

// ── Operations ──

func (s *assignmentService) Validate(ctx context.Context, req *dto.ValidateAssignmentRequest) (*dto.ValidationResultResponse, error) {
	proposed, err := assignmentFromCreateRequest(&req.CreateAssignmentRequest)
	if err != nil {
		return nil, err
	}
	result, err := s.validateProposed(ctx, proposed, req.ExcludeAssignmentID)
	if err != nil {
		s.logger.Error("validation fact loading failed", zap.Error(err))
		return nil, err
	}
	violations := result.Violations
	if violations == nil {
		violations = []pkgerrors.Violation{}
	}
	return &dto.ValidationResultResponse{Valid: result.Valid, Errors: violations}, nil
}

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	proposed, err := assignmentFromCreateRequest(req)
	if err != nil {
		return nil, err
	}
	proposed.CreatedBy = &callerID
	proposed.UpdatedBy = &callerID

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.validateThenCreate(ctx, &proposed); err != nil {
		return nil, err
	}

	s.invalidateProgress(ctx, proposed.StudentID)
	resp := toAssignmentResponse(&proposed)
	return &resp, nil
}

// validateThenCreate is the guarded create path. A duplicate-key error from
// the store's uniqueness backstop means a concurrent writer won a race this
// process could not see; per policy that is re-validated once, not blindly
// retried.
func (s *assignmentService) validateThenCreate(ctx context.Context, proposed *model.Assignment) error {
	result, err := s.validateProposed(ctx, *proposed, "")
	if err != nil {
		return err
	}
	if !result.Valid {
		return pkgerrors.NewValidationError(result.Violations)
	}

	err = s.repo.Assignment.Create(ctx, proposed)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	// Race detected: re-validate against current facts.
	result, verr := s.validateProposed(ctx, *proposed, "")
	if verr != nil {
		return verr
	}
	if !result.Valid {
		return pkgerrors.NewValidationError(result.Violations)
	}
	if err := s.repo.Assignment.Create(ctx, proposed); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pkgerrors.NewConflictError("uq_assignments_student_date",
				"student already assigned on "+model.DateOnly(proposed.RotationDate).Format("2006-01-02"))
		}
		return err
	}
	return nil
}

func (s *assignmentService) Get(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("assignment", id)
		}
		return nil, err
	}
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

func (s *assignmentService) List(ctx context.Context, filter repository.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, toAssignmentResponse(&assignments[i]))
	}
	return out, nil
}

func (s *assignmentService) Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	stored, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("assignment", id)
		}
		return nil, err
	}

	// Merge the patch, then validate the merged record excluding itself.
	merged := *stored
	if req.PreceptorID != nil {
		merged.PreceptorID = *req.PreceptorID
	}
	if req.ClerkshipID != nil {
		merged.ClerkshipID = *req.ClerkshipID
	}
	if req.RotationDate != nil {
		date, err := dto.ParseDate(*req.RotationDate)
		if err != nil {
			return nil, err
		}
		merged.RotationDate = date
	}
	if req.Status != nil {
		merged.Status = *req.Status
	}
	merged.UpdatedBy = &callerID

	result, err := s.validateProposed(ctx, merged, id)
	if err != nil {
		s.logger.Error("update validation failed to load facts", zap.Error(err))
		return nil, err
	}
	if !result.Valid {
		return nil, pkgerrors.NewValidationError(result.Violations)
	}

	if err := s.repo.Assignment.Update(ctx, &merged); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.NewConflictError("uq_assignments_student_date",
				"student already assigned on "+model.DateOnly(merged.RotationDate).Format("2006-01-02"))
		}
		return nil, err
	}

	s.invalidateProgress(ctx, merged.StudentID)
	resp := toAssignmentResponse(&merged)
	return &resp, nil
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.NewNotFoundError("assignment", id)
		}
		return err
	}
	if err := s.repo.Assignment.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateProgress(ctx, assignment.StudentID)
	return nil
}

func (s *assignmentService) BulkCreate(ctx context.Context, req *dto.BulkCreateAssignmentsRequest, callerID string) (*dto.BulkCreateAssignmentsResponse, error) {
	resp := &dto.BulkCreateAssignmentsResponse{
		Successful: []dto.AssignmentResponse{},
		Failed:     []dto.BulkItemFailure{},
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for i := range req.Assignments {
		item := req.Assignments[i]
		proposed, err := assignmentFromCreateRequest(&item)
		if err != nil {
			resp.Failed = append(resp.Failed, dto.BulkItemFailure{Index: i, Message: err.Error()})
			continue
		}
		proposed.CreatedBy = &callerID
		proposed.UpdatedBy = &callerID

		if err := s.validateThenCreate(ctx, &proposed); err != nil {
			var vErr *pkgerrors.ValidationError
			if errors.As(err, &vErr) {
				resp.Failed = append(resp.Failed, dto.BulkItemFailure{Index: i, Violations: vErr.Violations})
				continue
			}
			resp.Failed = append(resp.Failed, dto.BulkItemFailure{Index: i, Message: err.Error()})
			continue
		}
		s.invalidateProgress(ctx, proposed.StudentID)
		resp.Successful = append(resp.Successful, toAssignmentResponse(&proposed))
	}

	return resp, nil
}

func (s *assignmentService) GetProgress(ctx context.Context, studentID string) (*dto.StudentProgressResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetProgress(ctx, studentID); err == nil && cached != "" {
			var resp dto.StudentProgressResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NewNotFoundError("student", studentID)
		}
		return nil, err
	}

	clerkships, err := s.repo.Clerkship.List(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repo.Assignment.List(ctx, repository.AssignmentFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, a := range assignments {
		counts[a.ClerkshipID]++
	}

	resp := &dto.StudentProgressResponse{
		StudentID:  studentID,
		Clerkships: make([]dto.ClerkshipProgress, 0, len(clerkships)),
	}
	for _, c := range clerkships {
		completed := counts[c.ClerkshipID]
		percent := 0.0
		if c.RequiredDays > 0 {
			percent = float64(completed) / float64(c.RequiredDays) * 100
			if percent > 100 {
				percent = 100
			}
		}
		resp.Clerkships = append(resp.Clerkships, dto.ClerkshipProgress{
			ClerkshipID:   c.ClerkshipID,
			ClerkshipName: c.Name,
			RequiredDays:  c.RequiredDays,
			CompletedDays: completed,
			Percent:       percent,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.SetProgress(ctx, studentID, string(payload), s.cacheTTL); err != nil {
				s.logger.Warn("progress cache write failed", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// invalidateProgress drops the cached progress after any write touching the
// student. Cache errors only degrade freshness, never the write.
func (s *assignmentService) invalidateProgress(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProgress(ctx, studentID); err != nil {
		s.logger.Warn("progress cache invalidation failed",
			zap.String("student_id", studentID), zap.Error(err))
	}
}

// ── Conversions ──

func assignmentFromCreateRequest(req *dto.CreateAssignmentRequest) (model.Assignment, error) {
	date, err := dto.ParseDate(req.RotationDate)
	if err != nil {
		return model.Assignment{}, err
	}
	status := req.Status
	if status == "" {
		status = model.StatusScheduled
	}
	return model.Assignment{
		StudentID:    req.StudentID,
		PreceptorID:  req.PreceptorID,
		ClerkshipID:  req.ClerkshipID,
		RotationDate: model.DateOnly(date),
		Status:       status,
		Version:      1,
	}, nil
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:           a.AssignmentID,
		StudentID:    a.StudentID,
		PreceptorID:  a.PreceptorID,
		ClerkshipID:  a.ClerkshipID,
		RotationDate: dto.FormatDate(a.RotationDate),
		Status:       a.Status,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
