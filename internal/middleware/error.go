package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "bizledger/internal/errors"
	"bizledger/internal/handlers"
	"bizledger/internal/logger"
)

// ErrorHandler converts errors attached to the Gin context into the standard
// failure envelope when nothing has been written yet.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		handlers.RespondWithError(c, c.Errors.Last().Err)
	}
}

// NotFound records a route-not-found error for unmatched routes and methods.
// ErrorHandler must run earlier in the chain to render it.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(apperrors.ErrRouteNotFound)
		c.Abort()
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Get().Errorw("panic recovered",
			"panic", fmt.Sprint(recovered),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		handlers.RespondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("panic: %v", recovered)))
	})
}
