// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/billflow/backend/internal/integration/entrypoint/controller"
	"github.com/billflow/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine               *gin.Engine
	healthController     *controller.HealthController
	obligationController *controller.ObligationController
	summaryController    *controller.SummaryController
	ingestRateLimiter    *middleware.RateLimiter
	authMiddleware       *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	obligationController *controller.ObligationController,
	summaryController *controller.SummaryController,
	ingestRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:     healthController,
		obligationController: obligationController,
		summaryController:    summaryController,
		ingestRateLimiter:    ingestRateLimiter,
		authMiddleware:       authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Obligation routes (require service authentication)
		if r.obligationController != nil && r.authMiddleware != nil {
			obligations := v1.Group("/obligations")
			obligations.Use(r.authMiddleware.Authenticate())
			{
				obligations.POST("", r.obligationController.Create)
				obligations.GET("/:id/periods", r.obligationController.ListPeriods)
				obligations.PATCH("/:id", r.obligationController.Update)
				obligations.POST("/:id/deactivate", r.obligationController.Deactivate)
				obligations.POST("/:id/rematch", r.obligationController.Rematch)

				// Provider sync is expensive; rate-limit it per caller.
				if r.ingestRateLimiter != nil {
					obligations.POST("/ingest", r.ingestRateLimiter.Middleware(), r.obligationController.Ingest)
				} else {
					obligations.POST("/ingest", r.obligationController.Ingest)
				}
			}
		}

		// Summary routes (require service authentication)
		if r.summaryController != nil && r.authMiddleware != nil {
			summaries := v1.Group("/summaries")
			summaries.Use(r.authMiddleware.Authenticate())
			{
				summaries.GET("", r.summaryController.Get)
				summaries.POST("/rebuild", r.summaryController.Rebuild)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
