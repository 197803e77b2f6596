package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veripharm/veripharm-core/internal/app/deliveries"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
)

// Application represents the main application container for veripharm-core
type Application struct {
	HealthHandler          *deliveries.HealthHandler
	ManufacturerHandler    *deliveries.ManufacturerHandler
	ProductHandler         *deliveries.ProductHandler
	BatchHandler           *deliveries.BatchHandler
	VerificationHandler    *deliveries.VerificationHandler
	VerificationLogHandler *deliveries.VerificationLogHandler
	PartnerAPIKeyHandler   *deliveries.PartnerAPIKeyHandler
	RateLimitMiddleware    *middlewares.RateLimitMiddleware
	APIKeyMiddleware       *middlewares.APIKeyMiddleware
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	// Public API rate limit; /verify is open to anonymous scanning
	router.Use(app.RateLimitMiddleware.LimitByIP(middlewares.PublicVerifyLimit))

	// Partner keys are optional on every route; they carry their own limits
	router.Use(app.APIKeyMiddleware.AuthAPIKey)

	app.HealthHandler.RegisterRoutes(router)
	app.VerificationHandler.RegisterRoutes(router)

	// Authenticated registry surface gets the per-user rate limit
	protectedGroup := router.Group("")
	protectedGroup.Use(app.RateLimitMiddleware.LimitByUser(middlewares.AuthenticatedAPILimit))

	app.ManufacturerHandler.RegisterRoutes(protectedGroup)
	app.ProductHandler.RegisterRoutes(protectedGroup)
	app.BatchHandler.RegisterRoutes(protectedGroup)
	app.VerificationLogHandler.RegisterRoutes(protectedGroup)
	app.PartnerAPIKeyHandler.RegisterRoutes(protectedGroup)
}
