package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/app/services"
)

type PartnerAPIKeyHandler struct {
	apiKeyService  *services.PartnerAPIKeyService
	authMiddleware *middlewares.AuthMiddleware
}

func NewPartnerAPIKeyHandler(apiKeyService *services.PartnerAPIKeyService, authMiddleware *middlewares.AuthMiddleware) *PartnerAPIKeyHandler {
	return &PartnerAPIKeyHandler{
		apiKeyService:  apiKeyService,
		authMiddleware: authMiddleware,
	}
}

func (h *PartnerAPIKeyHandler) RegisterRoutes(router fiber.Router) {
	keyGroup := router.Group("/api-keys")

	keyGroup.Post("/", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.CreateAPIKey)
	keyGroup.Get("/manufacturer/:manufacturer_id", h.authMiddleware.AuthUser, h.GetAPIKeysByManufacturer)
	keyGroup.Delete("/:id", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.RevokeAPIKey)
}

func (h *PartnerAPIKeyHandler) CreateAPIKey(c *fiber.Ctx) error {
	var req models.PartnerAPIKeyCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	key, err := h.apiKeyService.CreateAPIKey(c.Context(), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, key)
}

func (h *PartnerAPIKeyHandler) GetAPIKeysByManufacturer(c *fiber.Ctx) error {
	manufacturerId := c.Params("manufacturer_id")

	keys, err := h.apiKeyService.GetAPIKeysByManufacturer(c.Context(), manufacturerId)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, keys)
}

func (h *PartnerAPIKeyHandler) RevokeAPIKey(c *fiber.Ctx) error {
	id := c.Params("id")

	err := h.apiKeyService.RevokeAPIKey(c.Context(), id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
