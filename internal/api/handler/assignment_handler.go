package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/repository"
	"clerkrota/backend/internal/service"
	"clerkrota/backend/pkg/response"
)

// AssignmentHandler is the HTTP surface of the assignment write path.
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// Validate runs the rule set against a proposal without writing.
// POST /api/v1/assignments/validate
func (h *AssignmentHandler) Validate(c *gin.Context) {
	var req dto.ValidateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	result, err := h.assignmentSvc.Validate(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Create validates and writes one assignment.
// POST /api/v1/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	assignment, err := h.assignmentSvc.Create(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, assignment)
}

// BulkCreate validates and writes a batch, best-effort per item.
// POST /api/v1/assignments/bulk
func (h *AssignmentHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkCreateAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	result, err := h.assignmentSvc.BulkCreate(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}

// Get returns one assignment.
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 40001, "assignment id is required")
		return
	}

	assignment, err := h.assignmentSvc.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, assignment)
}

// List returns assignments matching the query filters, date ascending.
// GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	filter := repository.AssignmentFilter{
		StudentID:   c.Query("student_id"),
		PreceptorID: c.Query("preceptor_id"),
		ClerkshipID: c.Query("clerkship_id"),
	}

	var err error
	if filter.From, err = optionalDate(c.Query("from")); err != nil {
		response.BadRequest(c, 40002, err.Error())
		return
	}
	if filter.To, err = optionalDate(c.Query("to")); err != nil {
		response.BadRequest(c, 40002, err.Error())
		return
	}

	assignments, err := h.assignmentSvc.List(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": assignments})
}

// Update patches and re-validates one assignment.
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 40001, "assignment id is required")
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	assignment, err := h.assignmentSvc.Update(c.Request.Context(), id, &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, assignment)
}

// Delete removes one assignment.
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 40001, "assignment id is required")
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetProgress derives per-clerkship completion for a student.
// GET /api/v1/students/:id/progress
func (h *AssignmentHandler) GetProgress(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 40001, "student id is required")
		return
	}

	progress, err := h.assignmentSvc.GetProgress(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, progress)
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
