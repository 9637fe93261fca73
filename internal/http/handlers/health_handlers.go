package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/you/usersvc/internal/http/response"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandlers reports liveness of the service and its stores
type HealthHandlers struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandlers creates health handlers for the named checks
func NewHealthHandlers(checks map[string]HealthCheck) *HealthHandlers {
	return &HealthHandlers{checks: checks, timeout: 2 * time.Second}
}

// Health runs every check and answers 200 when all pass, 503 otherwise
func (h *HealthHandlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(gin.H, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	message := "ok"
	if status != http.StatusOK {
		message = "degraded"
	}
	c.JSON(status, response.Envelope{
		StatusCode: status,
		Data:       results,
		Message:    message,
		Success:    status == http.StatusOK,
	})
}
