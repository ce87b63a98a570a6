package handler

import (
	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/dto"
	"clerkrota/backend/internal/service"
	"clerkrota/backend/pkg/response"
)

// SiteHandler is the HTTP surface of the clinical-site registry.
type SiteHandler struct {
	siteSvc service.SiteService
}

func NewSiteHandler(siteSvc service.SiteService) *SiteHandler {
	return &SiteHandler{siteSvc: siteSvc}
}

// POST /api/v1/sites
func (h *SiteHandler) Create(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	site, err := h.siteSvc.Create(c.Request.Context(), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, site)
}

// GET /api/v1/sites/:id
func (h *SiteHandler) Get(c *gin.Context) {
	site, err := h.siteSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, site)
}

// GET /api/v1/sites
func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.siteSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sites})
}

// PUT /api/v1/sites/:id
func (h *SiteHandler) Update(c *gin.Context) {
	var req dto.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 40001, "invalid request body")
		return
	}

	site, err := h.siteSvc.Update(c.Request.Context(), c.Param("id"), &req, CallerID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, site)
}

// DELETE /api/v1/sites/:id
func (h *SiteHandler) Delete(c *gin.Context) {
	if err := h.siteSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.OK(c, nil)
}
