// Package dependency provides dependency injection for the application.
package dependency

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/billflow/backend/config"
	"github.com/billflow/backend/internal/application/adapter"
	"github.com/billflow/backend/internal/application/usecase/matching"
	"github.com/billflow/backend/internal/application/usecase/obligation"
	"github.com/billflow/backend/internal/application/usecase/period"
	"github.com/billflow/backend/internal/application/usecase/summary"
	"github.com/billflow/backend/internal/domain/valueobject"
	"github.com/billflow/backend/internal/infra/server/router"
	"github.com/billflow/backend/internal/integration/adapters"
	"github.com/billflow/backend/internal/integration/cache"
	"github.com/billflow/backend/internal/integration/entrypoint/controller"
	"github.com/billflow/backend/internal/integration/entrypoint/middleware"
	"github.com/billflow/backend/internal/integration/events"
	"github.com/billflow/backend/internal/integration/persistence"
	"github.com/billflow/backend/internal/integration/provider"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
	Worker *events.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil, in which case the summary cache is disabled.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Create repositories
	obligationRepo := persistence.NewObligationRepository(db)
	periodRepo := persistence.NewPeriodRepository(db, cfg.Engine.BatchWriteLimit)
	sourcePeriodRepo := persistence.NewSourcePeriodRepository(db)
	summaryRepo := persistence.NewSummaryRepository(db)
	lineItemRepo := persistence.NewLineItemRepository(db)
	eventQueue := persistence.NewEventQueueRepository(db)

	// Create adapters/services
	var summaryCache adapter.SummaryCache
	if redisClient != nil {
		summaryCache = cache.NewRedisSummaryCache(redisClient, cfg.Redis.TTL)
	}
	tokenService := adapters.NewTokenService(cfg.Auth.JWTSecret)
	recurringProvider := provider.NewClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout)

	// Create engine use cases
	matchingConfig := valueobject.DefaultMatchingConfig()
	matchingConfig.DateToleranceDays = cfg.Engine.MatchToleranceDays

	matchUseCase := matching.NewMatchTransactionsUseCase(periodRepo, lineItemRepo, matchingConfig)
	materializeUseCase := period.NewMaterializePeriodsUseCase(
		periodRepo,
		sourcePeriodRepo,
		cfg.Engine.BatchWriteLimit,
		cfg.Engine.GenerationHorizonMonths,
	)
	recalculateUseCase := summary.NewRecalculateBucketUseCase(periodRepo, summaryRepo, summaryCache)
	rebuildUseCase := summary.NewRebuildSummaryUseCase(
		sourcePeriodRepo,
		recalculateUseCase,
		cfg.Engine.RebuildLookbackMonths,
		cfg.Engine.RebuildLookaheadMonths,
	)
	getSummaryUseCase := summary.NewGetSummaryUseCase(summaryRepo, summaryCache)

	rematchUseCase := period.NewRematchObligationUseCase(obligationRepo, periodRepo, matchUseCase, recalculateUseCase)
	listPeriodsUseCase := period.NewListPeriodsUseCase(obligationRepo, periodRepo)
	createdHandler := period.NewHandleObligationCreatedUseCase(obligationRepo, materializeUseCase, matchUseCase, recalculateUseCase)
	updatedHandler := period.NewHandleObligationUpdatedUseCase(obligationRepo, periodRepo, sourcePeriodRepo, rematchUseCase, recalculateUseCase)

	// Create obligation use cases
	createObligationUseCase := obligation.NewCreateObligationUseCase(obligationRepo)
	updateObligationUseCase := obligation.NewUpdateObligationUseCase(obligationRepo, lineItemRepo)
	deactivateObligationUseCase := obligation.NewDeactivateObligationUseCase(obligationRepo)
	ingestObligationsUseCase := obligation.NewIngestObligationsUseCase(recurringProvider, obligationRepo)

	// Create event worker
	workerConfig := events.DefaultWorkerConfig()
	workerConfig.PollInterval = cfg.Engine.WorkerPollInterval
	workerConfig.BatchSize = cfg.Engine.WorkerBatchSize
	worker := events.NewWorker(eventQueue, createdHandler, updatedHandler, workerConfig)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	obligationController := controller.NewObligationController(
		createObligationUseCase,
		updateObligationUseCase,
		deactivateObligationUseCase,
		ingestObligationsUseCase,
		rematchUseCase,
		listPeriodsUseCase,
	)

	summaryController := controller.NewSummaryController(
		getSummaryUseCase,
		rebuildUseCase,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var ingestRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		ingestRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		ingestRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(healthController, obligationController, summaryController, ingestRateLimiter, authMiddleware)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: r,
		Worker: worker,
	}
}
