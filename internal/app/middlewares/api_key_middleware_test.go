package middlewares

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
)

type fakeKeyStore struct {
	key    *models.PartnerAPIKey
	usages chan *models.PartnerAPIKeyUsage
}

func (f *fakeKeyStore) GetAPIKey(ctx context.Context, apiKey string) (*models.PartnerAPIKey, error) {
	if f.key != nil && f.key.APIKey == apiKey {
		return f.key, nil
	}
	return nil, errors.NewNotFoundError("API key not found")
}

func (f *fakeKeyStore) LogAPIKeyUsage(ctx context.Context, usage *models.PartnerAPIKeyUsage) error {
	f.usages <- usage
	return nil
}

func newPartnerKey(rateLimit int, scopes ...models.APIKeyScope) *models.PartnerAPIKey {
	return &models.PartnerAPIKey{
		ID:             uuid.New(),
		ManufacturerID: uuid.New(),
		KeyName:        "pharmacy-chain-sync",
		APIKey:         "vpk_test_key",
		Prefix:         "vpk",
		Scopes:         scopes,
		RateLimit:      rateLimit,
	}
}

func TestAuthAPIKeyRecordsUsageFromFinishedResponse(t *testing.T) {
	store := &fakeKeyStore{
		key:    newPartnerKey(10, models.APIKeyScopeRead, models.APIKeyScopeWrite),
		usages: make(chan *models.PartnerAPIKeyUsage, 1),
	}
	limiter := &fakeRateLimiter{allow: true}
	middleware := NewAPIKeyMiddleware(store, limiter)

	app := fiber.New()
	app.Post("/products", middleware.AuthAPIKey, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/products", nil)
	req.Header.Set("X-API-Key", "vpk_test_key")
	req.Header.Set("User-Agent", "chain-sync/2.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	select {
	case usage := <-store.usages:
		assert.Equal(t, store.key.ID, usage.APIKeyID)
		assert.Equal(t, "/products", usage.Endpoint)
		assert.Equal(t, fiber.MethodPost, usage.Method)
		assert.Equal(t, "chain-sync/2.1", usage.UserAgent)
		assert.Equal(t, fiber.StatusCreated, usage.StatusCode)
	case <-time.After(2 * time.Second):
		t.Fatal("usage record was never written")
	}
}

func TestAuthAPIKeyUsesProvisionedRateLimit(t *testing.T) {
	store := &fakeKeyStore{
		key:    newPartnerKey(5, models.APIKeyScopeRead),
		usages: make(chan *models.PartnerAPIKeyUsage, 1),
	}
	limiter := &fakeRateLimiter{allow: true}
	middleware := NewAPIKeyMiddleware(store, limiter)

	app := fiber.New()
	app.Get("/products", middleware.AuthAPIKey, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/products", nil)
	req.Header.Set("X-API-Key", "vpk_test_key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, limiter.limits, 1)
	assert.Equal(t, 5, limiter.limits[0].Requests)
	assert.Equal(t, "apikey:"+store.key.ID.String(), limiter.keys[0])

	<-store.usages
}

func TestAuthAPIKeyDefaultsRateLimitWhenUnset(t *testing.T) {
	store := &fakeKeyStore{
		key:    newPartnerKey(0, models.APIKeyScopeRead),
		usages: make(chan *models.PartnerAPIKeyUsage, 1),
	}
	limiter := &fakeRateLimiter{allow: true}
	middleware := NewAPIKeyMiddleware(store, limiter)

	app := fiber.New()
	app.Get("/products", middleware.AuthAPIKey, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/products", nil)
	req.Header.Set("X-API-Key", "vpk_test_key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, limiter.limits, 1)
	assert.Equal(t, PartnerAPILimit.Requests, limiter.limits[0].Requests)
	assert.Equal(t, PartnerAPILimit.Window, limiter.limits[0].Window)

	<-store.usages
}

func TestAuthAPIKeyPassesThroughWithoutKey(t *testing.T) {
	store := &fakeKeyStore{usages: make(chan *models.PartnerAPIKeyUsage, 1)}
	limiter := &fakeRateLimiter{allow: true}
	middleware := NewAPIKeyMiddleware(store, limiter)

	app := fiber.New()
	app.Get("/products", middleware.AuthAPIKey, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Empty(t, limiter.keys)
	select {
	case <-store.usages:
		t.Fatal("anonymous request must not produce a usage record")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAuthAPIKeyRejectsMissingScope(t *testing.T) {
	store := &fakeKeyStore{
		key:    newPartnerKey(10, models.APIKeyScopeRead),
		usages: make(chan *models.PartnerAPIKeyUsage, 1),
	}
	limiter := &fakeRateLimiter{allow: true}
	middleware := NewAPIKeyMiddleware(store, limiter)

	app := fiber.New()
	app.Post("/products", middleware.AuthAPIKey, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/products", nil)
	req.Header.Set("X-API-Key", "vpk_test_key")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
