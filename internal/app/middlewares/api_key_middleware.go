package middlewares

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
)

// PartnerKeyService is the key lookup and usage-logging surface the
// middleware depends on
type PartnerKeyService interface {
	GetAPIKey(ctx context.Context, apiKey string) (*models.PartnerAPIKey, error)
	LogAPIKeyUsage(ctx context.Context, usage *models.PartnerAPIKeyUsage) error
}

// APIKeyMiddleware handles partner API key authentication and per-key rate
// limiting
type APIKeyMiddleware struct {
	apiKeyService PartnerKeyService
	rateLimiter   RateLimiter
}

// NewAPIKeyMiddleware creates a new APIKeyMiddleware
func NewAPIKeyMiddleware(apiKeyService PartnerKeyService, rateLimiter RateLimiter) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		apiKeyService: apiKeyService,
		rateLimiter:   rateLimiter,
	}
}

// AuthAPIKey authenticates the X-API-Key header when present. Requests
// without a key continue without partner context.
func (m *APIKeyMiddleware) AuthAPIKey(c *fiber.Ctx) error {
	key := c.Get("X-API-Key")
	if key == "" {
		return c.Next()
	}

	apiKey, err := m.apiKeyService.GetAPIKey(c.Context(), key)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid API key"))
	}

	if !apiKey.IsActive() {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("API key is inactive or expired"))
	}

	allowed, info := m.rateLimiter.Allow("apikey:"+apiKey.ID.String(), keyRate(apiKey))

	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.Reset.Unix()))

	if !allowed {
		return pkg.ErrorResponse(c, errors.NewTooManyRequestsError("Rate limit exceeded"))
	}

	if !hasRequiredScopes(c, apiKey) {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Insufficient permissions"))
	}

	c.Locals("api_key", apiKey)
	c.Locals("partner_manufacturer_id", apiKey.ManufacturerID)

	nextErr := c.Next()

	// Capture request data synchronously; Fiber recycles the context once
	// the handler chain returns, so only the store write runs in the
	// background.
	usage := &models.PartnerAPIKeyUsage{
		APIKeyID:   apiKey.ID,
		Endpoint:   c.Path(),
		Method:     c.Method(),
		IPAddress:  c.IP(),
		UserAgent:  c.Get("User-Agent"),
		StatusCode: c.Response().StatusCode(),
	}
	go func() {
		if err := m.apiKeyService.LogAPIKeyUsage(context.Background(), usage); err != nil {
			logrus.Errorf("failed to log API key usage: %v", err)
		}
	}()

	return nextErr
}

// keyRate returns the key's provisioned limit, or the partner default when
// the row carries none
func keyRate(key *models.PartnerAPIKey) Rate {
	if key.RateLimit <= 0 {
		return PartnerAPILimit
	}
	return Rate{
		Requests: key.RateLimit,
		Window:   time.Minute,
	}
}

// hasRequiredScopes checks if the API key covers the request
func hasRequiredScopes(c *fiber.Ctx, key *models.PartnerAPIKey) bool {
	var requiredScopes []models.APIKeyScope

	if c.Method() == fiber.MethodGet {
		requiredScopes = append(requiredScopes, models.APIKeyScopeRead)
	}

	if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut || c.Method() == fiber.MethodDelete {
		requiredScopes = append(requiredScopes, models.APIKeyScopeWrite)
	}

	if c.Path() == "/verify" {
		requiredScopes = []models.APIKeyScope{models.APIKeyScopeVerify}
	}

	if c.Path() == "/batches" && c.Method() == fiber.MethodPost {
		requiredScopes = append(requiredScopes, models.APIKeyScopeIssue)
	}

	for _, scope := range requiredScopes {
		if !key.HasScope(scope) {
			return false
		}
	}

	return true
}
