// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "billflow-api"

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Time     string `json:"time"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(dbHealthChecker func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker: dbHealthChecker,
	}
}

// Check handles GET /health requests. The engine is unusable without its
// store, so a dead database reports degraded with a 503 for the load
// balancer.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := "down"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "up"
	}

	response := HealthResponse{
		Status:   "ok",
		Service:  serviceName,
		Database: dbStatus,
		Time:     time.Now().UTC().Format(time.RFC3339),
	}

	if dbStatus != "up" {
		response.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}
