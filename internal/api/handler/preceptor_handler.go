package handler

import (
	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/service"
	"clerkrota/backend/pkg/response"
)

// PreceptorHandler is the HTTP surface of the preceptor registry.
type PreceptorHandler struct {
	preceptorSvc service.PreceptorService
}

func NewPreceptorHandler(preceptorSvc service.PreceptorService) *PreceptorHandler {
	return &PreceptorHandler{preceptorSvc: preceptorSvc}
}

// POST /api/v1/preceptors
func (h *PreceptorHandler) Create(c *gin.Context) {
	var req dto.CreatePreceptorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	preceptor, err := h.preceptorSvc.Create(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, preceptor)
}

// GET /api/v1/preceptors/:id
func (h *PreceptorHandler) Get(c *gin.Context) {
	preceptor, err := h.preceptorSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, preceptor)
}

// GET /api/v1/preceptors
func (h *PreceptorHandler) List(c *gin.Context) {
	preceptors, err := h.preceptorSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": preceptors})
}

// PUT /api/v1/preceptors/:id
func (h *PreceptorHandler) Update(c *gin.Context) {
	var req dto.UpdatePreceptorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	preceptor, err := h.preceptorSvc.Update(c.Request.Context(), c.Param("id"), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, preceptor)
}

// DELETE /api/v1/preceptors/:id
func (h *PreceptorHandler) Delete(c *gin.Context) {
	if err := h.preceptorSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
