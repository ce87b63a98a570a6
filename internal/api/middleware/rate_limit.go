package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clerkrota/backend/pkg/redis"
	"clerkrota/backend/pkg/response"
)

// RateLimit is a Redis-backed fixed-window limiter keyed by client IP and
// route. A nil client or a Redis error degrades to letting the request
// through; the limiter protects capacity, it is not a correctness gate.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 42900, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
