package api

import (
	"net/http"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/handler/middleware"
	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// tenantID is set by the tenant middleware; its absence is a wiring bug.
func tenantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetTenantID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("tenant missing from context"),
			httperr.CodeInternal, "Internal server error", nil)
		return uuid.Nil, false
	}
	return id, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, errs.Mark(err, errs.ErrValidation), "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
