package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fahmidurshanto/custom-cms/internal/infrastructure/gateway"
	"github.com/fahmidurshanto/custom-cms/pkg/constants"
	"github.com/fahmidurshanto/custom-cms/pkg/utils"
)

func getRequestID(c *gin.Context, header string) string {
	return utils.RequestID(c.GetHeader(header))
}

// WithLogger logs every request and attaches a request-scoped logger and
// request id. The id is echoed in the response and forwarded to the
// backend through the request context. Panics are logged and answered
// with 500.
func WithLogger(logger *logrus.Logger, requestIDHeader string) gin.HandlerFunc {
	if requestIDHeader == "" {
		requestIDHeader = constants.HeaderXRequestID
	}
	return func(c *gin.Context) {
		start := time.Now()
		requestID := getRequestID(c, requestIDHeader)

		fieldsLogger := logger.WithFields(logrus.Fields{
			constants.LogFieldRequestID: requestID,
			constants.LogFieldMethod:    c.Request.Method,
			constants.LogFieldPath:      c.Request.URL.Path,
		})
		fieldsLogger.WithFields(logrus.Fields{
			"ip":         c.ClientIP(),
			"user-agent": c.Request.UserAgent(),
		}).Debug("request started")

		c.Set(constants.ContextKeyLogger, fieldsLogger)
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(gateway.WithRequestID(c.Request.Context(), requestID))
		c.Header(requestIDHeader, requestID)

		defer func() {
			if recovered := recover(); recovered != nil {
				fieldsLogger.WithFields(logrus.Fields{
					"panic":                    recovered,
					"stack":                    string(debug.Stack()),
					constants.LogFieldStatus:   http.StatusInternalServerError,
					constants.LogFieldDuration: time.Since(start),
				}).Error("panic recovered in request handler")
				if !c.Writer.Written() {
					c.String(http.StatusInternalServerError, "Internal Server Error")
				}
				c.Abort()
			}
		}()

		c.Next()

		status := c.Writer.Status()
		entry := fieldsLogger.WithFields(logrus.Fields{
			constants.LogFieldStatus:   status,
			constants.LogFieldDuration: time.Since(start),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}

// GetLogger returns the request-scoped logger, or the standard logger
// outside a request.
func GetLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(constants.ContextKeyLogger); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}

// GetRequestID returns the id assigned by WithLogger.
func GetRequestID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyRequestID)
}
