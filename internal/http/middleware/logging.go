package middleware

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/http/response"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// ClientContext assigns a request id, attaches client details to the request
// context and gives each request its own Sentry hub.
func ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := domain.WithClientContext(c.Request.Context(), &domain.ClientContext{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: requestID,
		})

		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("request_id", requestID)
		hub.Scope().SetRequest(c.Request)
		ctx = sentry.SetHubOnContext(ctx, hub)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger logs every request once it completes
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status_code", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("request_id", c.Writer.Header().Get(RequestIDHeader)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("Server error", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("Client error", fields...)
		case latency > 2*time.Second:
			logger.Warn("Slow request", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// Recovery recovers from panics, logs them, reports them to Sentry and
// answers with the standard error envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)

		if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
			hub.Recover(recovered)
		} else {
			sentry.CurrentHub().Recover(recovered)
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Envelope{
			StatusCode: http.StatusInternalServerError,
			Message:    "Something went wrong",
		})
	})
}
