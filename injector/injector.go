//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/veripharm/veripharm-core/internal/app/deliveries"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
	"github.com/veripharm/veripharm-core/internal/app/services"
	"github.com/veripharm/veripharm-core/internal/infrastructures"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	wire.Value("veripharm"),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewSystemClock,
	services.NewIdentityService,
	services.NewManufacturerService,
	services.NewProductService,
	services.NewBatchService,
	services.NewLedgerService,
	services.NewVerificationLogService,
	services.NewVerificationService,
	services.NewPartnerAPIKeyService,
	wire.Bind(new(services.CodeLedger), new(*services.LedgerService)),
	wire.Bind(new(services.AttemptStore), new(*services.VerificationLogService)),
	wire.Bind(new(middlewares.PartnerKeyService), new(*services.PartnerAPIKeyService)),
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewAPIKeyMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewManufacturerHandler,
	deliveries.NewProductHandler,
	deliveries.NewBatchHandler,
	deliveries.NewVerificationHandler,
	deliveries.NewVerificationLogHandler,
	deliveries.NewPartnerAPIKeyHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}
