package diag

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/inject/component"
	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/version"
)

// HealthChecker returns health status for additional components.
type HealthChecker func(ctx context.Context) []component.Health

// RegistrationsResponse is the body of GET /di/registrations.
type RegistrationsResponse struct {
	RegistryID    string                `json:"registry_id"`
	Injected      bool                  `json:"injected"`
	Count         int                   `json:"count"`
	Registrations []di.RegistrationInfo `json:"registrations"`
}

// Register mounts the diagnostics endpoints for r on router.
func Register(router gin.IRoutes, r *di.Registry, serviceName string, checkers ...HealthChecker) {
	router.GET("/di/registrations", Registrations(r))
	router.GET("/di/health", Health(serviceName, append([]HealthChecker{registryChecker(r)}, checkers...)...))
	router.GET("/version", Version())
}

// Registrations returns a handler listing every descriptor in r.
func Registrations(r *di.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := r.Registrations()
		c.JSON(http.StatusOK, RegistrationsResponse{
			RegistryID:    r.ID(),
			Injected:      r.Injected(),
			Count:         len(infos),
			Registrations: infos,
		})
	}
}

func registryChecker(r *di.Registry) HealthChecker {
	c := di.AsComponent(r, "di")
	return func(ctx context.Context) []component.Health {
		return []component.Health{c.Health(ctx)}
	}
}

// Health returns a handler that reports service health including component statuses.
func Health(serviceName string, checkers ...HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := component.StatusHealthy
		var components []component.Health

		for _, checker := range checkers {
			components = append(components, checker(c.Request.Context())...)
		}
		for _, ch := range components {
			if ch.Status == component.StatusUnhealthy {
				status = component.StatusUnhealthy
				break
			}
			if ch.Status == component.StatusDegraded {
				status = component.StatusDegraded
			}
		}

		httpStatus := http.StatusOK
		if status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		})
	}
}

// Version returns a handler that reports build version information.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	}
}
