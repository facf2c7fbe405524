package middleware

import (
	"log/slog"
	"net/http"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TenantHeader = "X-Tenant-ID"

	ctxTenantIDKey = "tenant_id"
)

type TenantMiddleware struct {
	tenants queries.TenantQueries
}

func NewTenantMiddleware(tenants queries.TenantQueries) *TenantMiddleware {
	return &TenantMiddleware{tenants: tenants}
}

// RequireTenant resolves X-Tenant-ID (uuid or slug) before any handler runs.
func (m *TenantMiddleware) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(TenantHeader)
		if key == "" {
			httperr.AbortWithError(c, http.StatusBadRequest, errs.Validationf("missing %s", TenantHeader),
				httperr.CodeValidation, TenantHeader+" header required", nil)
			return
		}

		t, err := m.tenants.Resolve(c.Request.Context(), key)
		if err != nil {
			if !errs.Is(err, errs.ErrNotFound) && !errs.Is(err, errs.ErrValidation) {
				slog.Error("Tenant resolution failed", "error", err, "tenant_key", key)
			}
			httperr.Abort(c, err)
			return
		}

		c.Set(ctxTenantIDKey, t.ID)
		c.Next()
	}
}

func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxTenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
