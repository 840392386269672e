package diag

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
)

// Recovery returns a Gin middleware that recovers from panics. A
// *di.ResolutionPanic is answered with the status and body of its error;
// any other panic becomes a 500.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			var appErr *errors.AppError
			if err, ok := rec.(error); ok {
				var rp *di.ResolutionPanic
				if stderrors.As(err, &rp) {
					appErr = errors.Wrap(rp.Err)
				} else {
					appErr = errors.Internal(err)
				}
			} else {
				appErr = errors.Internal(fmt.Errorf("%v", rec))
			}

			log.Error("Panic recovered", logger.Fields(
				logger.FieldError, fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			))
			c.AbortWithStatusJSON(errors.HTTPStatus(appErr.Code), appErr.ToResponse())
		}()
		c.Next()
	}
}

// RequestLogger returns a Gin middleware that logs every request with
// method, path, status code, and duration.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request completed", fields)
		case status >= http.StatusBadRequest:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}
