package middleware

import (
	"github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"
	"github.com/Vampire-js/techfiesta/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter rejects requests once the matching bucket runs dry.
func RateLimiter(l limiter.LimiterIface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			count := bucket.TakeAvailable(1)
			if count == 0 {
				response := app.NewResponse(c)
				response.ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
