package handler

import (
	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/service"
	"clerkrota/backend/pkg/response"
)

// AvailabilityHandler manages explicit preceptor availability records.
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// Set writes the availability record for one (preceptor, date).
// PUT /api/v1/availability
func (h *AvailabilityHandler) Set(c *gin.Context) {
	var req dto.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	record, err := h.availabilitySvc.Set(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, record)
}

// SetRange writes records for every date in [from, to].
// PUT /api/v1/availability/range
func (h *AvailabilityHandler) SetRange(c *gin.Context) {
	var req dto.SetAvailabilityRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	records, err := h.availabilitySvc.SetRange(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// ListByPreceptor returns every explicit record for a preceptor.
// GET /api/v1/preceptors/:id/availability
func (h *AvailabilityHandler) ListByPreceptor(c *gin.Context) {
	records, err := h.availabilitySvc.ListByPreceptor(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// Delete removes one record, returning the pair to the unset state.
// DELETE /api/v1/availability/:preceptor_id/:date
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	date, err := dto.ParseDate(c.Param("date"))
	if err != nil {
		response.BadRequest(c, 40002, err.Error())
		return
	}

	if err := h.availabilitySvc.Delete(c.Request.Context(), c.Param("preceptor_id"), date); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
