package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit throttles per tenant and client IP. Limiter errors let the request through.
func RateLimit(limiter RateLimiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		if tenantID, ok := GetTenantID(c); ok {
			key = scope + ":" + tenantID.String() + ":" + c.ClientIP()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("Rate limiter unavailable, allowing request", "error", err, "scope", scope)
			c.Next()
			return
		}
		if !allowed {
			httperr.AbortWithError(c, http.StatusTooManyRequests, errs.New("rate limit exceeded"),
				httperr.CodeRateLimited, "Too many requests", nil)
			return
		}
		c.Next()
	}
}
