package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"clerkrota/backend/internal/service"
	pkgerrors "clerkrota/backend/pkg/errors"
	"clerkrota/backend/pkg/response"
)

// CallerID extracts the acting user for audit columns. Identity comes from
// the upstream gateway via X-Actor-ID; an empty value just leaves the audit
// fields unset.
func CallerID(c *gin.Context) string {
	return c.GetHeader("X-Actor-ID")
}

// handleServiceError maps the service layer's typed errors onto HTTP.
// Validation failures carry every violation in the details payload so the
// caller can fix all of them in one pass.
func handleServiceError(c *gin.Context, err error) {
	var validationErr *pkgerrors.ValidationError
	var notFoundErr *pkgerrors.NotFoundError
	var conflictErr *pkgerrors.ConflictError
	var parseErr *time.ParseError

	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, 422, 42201, "assignment violates scheduling rules", validationErr.Violations)
	case errors.As(err, &notFoundErr):
		response.NotFound(c, 40401, notFoundErr.Error())
	case errors.As(err, &conflictErr):
		response.Conflict(c, 40901, conflictErr.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 40902, err.Error())
	case errors.Is(err, service.ErrUnknownStrategy),
		errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidRange),
		errors.As(err, &parseErr):
		response.BadRequest(c, 40002, err.Error())
	default:
		response.InternalError(c)
	}
}
