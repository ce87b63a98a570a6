package handler

import (
	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/service"
	"clerkrota/backend/pkg/response"
)

// RegenerationHandler exposes schedule regeneration: a read-only impact
// preview and the mutating apply.
type RegenerationHandler struct {
	regenerationSvc service.RegenerationService
}

func NewRegenerationHandler(regenerationSvc service.RegenerationService) *RegenerationHandler {
	return &RegenerationHandler{regenerationSvc: regenerationSvc}
}

// AnalyzeImpact previews a regeneration without changing anything.
// POST /api/v1/schedule/impact
func (h *RegenerationHandler) AnalyzeImpact(c *gin.Context) {
	var req dto.RegenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	report, err := h.regenerationSvc.AnalyzeImpact(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, report)
}

// Apply performs a regeneration. The plan is re-derived from current facts;
// a preview returned earlier is advisory only.
// POST /api/v1/schedule/regenerate
func (h *RegenerationHandler) Apply(c *gin.Context) {
	var req dto.RegenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	result, err := h.regenerationSvc.Apply(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, result)
}
