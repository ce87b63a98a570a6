package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/repository"
	"clerkrota/backend/internal/service"
	pkgerrors "clerkrota/backend/pkg/errors"
	"clerkrota/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	validateResult *dto.ValidationResultResponse
	validateErr    error
	createResult   *dto.AssignmentResponse
	createErr      error
	getResult      *dto.AssignmentResponse
	getErr         error
	listResult     []dto.AssignmentResponse
	listErr        error
	updateResult   *dto.AssignmentResponse
	updateErr      error
	deleteErr      error
	bulkResult     *dto.BulkCreateAssignmentsResponse
	bulkErr        error
	progressResult *dto.StudentProgressResponse
	progressErr    error
}

func (m *mockAssignmentService) Validate(_ context.Context, _ *dto.ValidateAssignmentRequest) (*dto.ValidationResultResponse, error) {
	return m.validateResult, m.validateErr
}
func (m *mockAssignmentService) Create(_ context.Context, _ *dto.CreateAssignmentRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockAssignmentService) Get(_ context.Context, _ string) (*dto.AssignmentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockAssignmentService) List(_ context.Context, _ repository.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAssignmentService) Update(_ context.Context, _ string, _ *dto.UpdateAssignmentRequest, _ string) (*dto.AssignmentResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockAssignmentService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockAssignmentService) BulkCreate(_ context.Context, _ *dto.BulkCreateAssignmentsRequest, _ string) (*dto.BulkCreateAssignmentsResponse, error) {
	return m.bulkResult, m.bulkErr
}
func (m *mockAssignmentService) GetProgress(_ context.Context, _ string) (*dto.StudentProgressResponse, error) {
	return m.progressResult, m.progressErr
}

// ── Mock RegenerationService ──

type mockRegenerationService struct {
	impactResult *dto.ImpactReportResponse
	impactErr    error
	applyResult  *dto.ApplyRegenerationResponse
	applyErr     error
}

func (m *mockRegenerationService) AnalyzeImpact(_ context.Context, _ *dto.RegenerationRequest) (*dto.ImpactReportResponse, error) {
	return m.impactResult, m.impactErr
}
func (m *mockRegenerationService) Apply(_ context.Context, _ *dto.RegenerationRequest, _ string) (*dto.ApplyRegenerationResponse, error) {
	return m.applyResult, m.applyErr
}

// ── Helpers ──

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func createRequest() *dto.CreateAssignmentRequest {
	return &dto.CreateAssignmentRequest{
		StudentID:    "s1",
		PreceptorID:  "p1",
		ClerkshipID:  "c1",
		RotationDate: "2026-03-05",
	}
}

// ── Tests ──

func TestCreateAssignmentCreated(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{
		createResult: &dto.AssignmentResponse{ID: "a1"},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/assignments", jsonBody(createRequest()))

	h.Create(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
}

func TestCreateAssignmentValidationFailureIs422WithDetails(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{
		createErr: pkgerrors.NewValidationError([]pkgerrors.Violation{
			{Rule: pkgerrors.RuleCapacity, Message: "preceptor full"},
			{Rule: pkgerrors.RuleBlackout, Message: "blackout"},
		}),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/assignments", jsonBody(createRequest()))

	h.Create(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	resp := parseResponse(t, w)
	details, ok := resp.Details.([]interface{})
	if !ok || len(details) != 2 {
		t.Fatalf("want both violations in details, got %+v", resp.Details)
	}
}

func TestCreateAssignmentBadBody(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/assignments", bytes.NewReader([]byte("{")))

	h.Create(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetAssignmentNotFoundIs404(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{
		getErr: pkgerrors.NewNotFoundError("assignment", "ghost"),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/assignments/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	h.Get(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestCreateAssignmentConflictIs409(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{
		createErr: pkgerrors.NewConflictError("uq_assignments_student_date", "already assigned"),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/assignments", jsonBody(createRequest()))

	h.Create(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestListAssignmentsRejectsBadDateFilter(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/assignments?from=03-05-2026", nil)

	h.List(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeImpactUnknownStrategyIs400(t *testing.T) {
	h := NewRegenerationHandler(&mockRegenerationService{
		impactErr: service.ErrUnknownStrategy,
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/schedule/impact", jsonBody(&dto.RegenerationRequest{
		CutoverDate: "2026-03-10",
		WindowEnd:   "2026-03-31",
		Strategy:    "partial",
	}))

	h.AnalyzeImpact(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestApplyRegenerationOK(t *testing.T) {
	h := NewRegenerationHandler(&mockRegenerationService{
		applyResult: &dto.ApplyRegenerationResponse{DeletedCount: 3},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/schedule/regenerate", jsonBody(&dto.RegenerationRequest{
		CutoverDate: "2026-03-10",
		WindowEnd:   "2026-03-31",
		Strategy:    "full_reoptimize",
	}))

	h.Apply(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Fatalf("envelope code = %d, want 0", resp.Code)
	}
}
