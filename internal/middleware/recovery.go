package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger converts panics into the unified error envelope and
// logs the stack.
func RecoveryWithLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var msg string
			if err, ok := r.(error); ok {
				msg = err.Error()
			} else {
				msg = fmt.Sprintf("%v", r)
			}

			logger.Error("recovered from panic",
				zap.Int("status", c.Writer.Status()),
				zap.String("router", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String("user-agent", c.Request.UserAgent()),
				zap.String("traceId", GetTraceIDFromGin(c)),
				zap.String("panic", msg),
				zap.String("stack", string(debug.Stack())),
			)

			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(msg))
			c.Abort()
		}()

		c.Next()
	}
}
