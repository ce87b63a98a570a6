package handler

import (
	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/service"
	"clerkrota/backend/pkg/response"
)

// ClerkshipHandler is the HTTP surface of the rotation-type registry.
type ClerkshipHandler struct {
	clerkshipSvc service.ClerkshipService
}

func NewClerkshipHandler(clerkshipSvc service.ClerkshipService) *ClerkshipHandler {
	return &ClerkshipHandler{clerkshipSvc: clerkshipSvc}
}

// POST /api/v1/clerkships
func (h *ClerkshipHandler) Create(c *gin.Context) {
	var req dto.CreateClerkshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	clerkship, err := h.clerkshipSvc.Create(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, clerkship)
}

// GET /api/v1/clerkships/:id
func (h *ClerkshipHandler) Get(c *gin.Context) {
	clerkship, err := h.clerkshipSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, clerkship)
}

// GET /api/v1/clerkships
func (h *ClerkshipHandler) List(c *gin.Context) {
	clerkships, err := h.clerkshipSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": clerkships})
}

// PUT /api/v1/clerkships/:id
func (h *ClerkshipHandler) Update(c *gin.Context) {
	var req dto.UpdateClerkshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	clerkship, err := h.clerkshipSvc.Update(c.Request.Context(), c.Param("id"), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, clerkship)
}

// DELETE /api/v1/clerkships/:id
func (h *ClerkshipHandler) Delete(c *gin.Context) {
	if err := h.clerkshipSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
