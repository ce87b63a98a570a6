package handler

import (
	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/service"
	"clerkrota/backend/pkg/response"
)

// BlackoutHandler manages global no-assignment dates.
type BlackoutHandler struct {
	blackoutSvc service.BlackoutService
}

func NewBlackoutHandler(blackoutSvc service.BlackoutService) *BlackoutHandler {
	return &BlackoutHandler{blackoutSvc: blackoutSvc}
}

// Create blocks a date for everyone.
// POST /api/v1/blackouts
func (h *BlackoutHandler) Create(c *gin.Context) {
	var req dto.CreateBlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	blackout, err := h.blackoutSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, blackout)
}

// ListRange returns blackout dates in [from, to].
// GET /api/v1/blackouts?from=...&to=...
func (h *BlackoutHandler) ListRange(c *gin.Context) {
	from, err := dto.ParseDate(c.Query("from"))
	if err != nil {
		response.BadRequest(c, 40002, err.Error())
		return
	}
	to, err := dto.ParseDate(c.Query("to"))
	if err != nil {
		response.BadRequest(c, 40002, err.Error())
		return
	}

	blackouts, err := h.blackoutSvc.ListRange(c.Request.Context(), from, to)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": blackouts})
}

// Delete unblocks a date.
// DELETE /api/v1/blackouts/:date
func (h *BlackoutHandler) Delete(c *gin.Context) {
	date, err := dto.ParseDate(c.Param("date"))
	if err != nil {
		response.BadRequest(c, 40002, err.Error())
		return
	}

	if err := h.blackoutSvc.Delete(c.Request.Context(), date); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
