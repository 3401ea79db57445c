package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	grpcmiddleware "grocery-delivery-service/internal/adapter/grpc/middleware"
)

// RateLimiter applies the shared token bucket per method, route and client IP.
func RateLimiter(limiter *grpcmiddleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !limiter.Config().Enabled {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := c.Request.Method + ":" + route + ":" + c.ClientIP()

		if !limiter.Allow(c.Request.Context(), key) {
			abort(c, http.StatusTooManyRequests, "rate_limit_exceeded", limiter.ExceededMessage())
			return
		}
		c.Next()
	}
}
