package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter is the slice of the cache service the middleware needs
type RateLimiter interface {
	IsRateLimited(ctx context.Context, identifier string, limit int64, window time.Duration) bool
}

// RateLimit rejects clients exceeding limit requests per window, keyed by
// client IP. The limiter fails open, so a cache outage never blocks traffic.
func RateLimit(limiter RateLimiter, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.IsRateLimited(c.Request.Context(), c.ClientIP(), limit, window) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limited",
				"message": "Too many requests, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
