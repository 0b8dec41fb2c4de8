package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/ratelimit"
)

// MaxBodySize rejects requests whose declared Content-Length exceeds limit
// with 413 and caps the body reader at limit bytes for the rest.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "Request body too large",
				Details: fmt.Sprintf("maximum request size is %d bytes", limit),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// RateLimit throttles requests per client IP under the given key prefix. A
// limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter, prefix string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		res, err := limiter.Allow(c.Request.Context(), prefix+":"+c.ClientIP())
		if err != nil {
			logger.Warn("Rate limiter unavailable", zap.String("prefix", prefix), zap.Error(err))
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			retry := int(time.Until(res.ResetAt).Seconds()) + 1
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
