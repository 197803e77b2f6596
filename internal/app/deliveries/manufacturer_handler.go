package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/app/services"
)

type ManufacturerHandler struct {
	manufacturerService *services.ManufacturerService
	authMiddleware      *middlewares.AuthMiddleware
}

func NewManufacturerHandler(manufacturerService *services.ManufacturerService, authMiddleware *middlewares.AuthMiddleware) *ManufacturerHandler {
	return &ManufacturerHandler{
		manufacturerService: manufacturerService,
		authMiddleware:      authMiddleware,
	}
}

func (h *ManufacturerHandler) RegisterRoutes(router fiber.Router) {
	manufacturerGroup := router.Group("/manufacturers")

	manufacturerGroup.Post("/", h.authMiddleware.AuthUser, h.CreateManufacturer)
	manufacturerGroup.Get("/", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.GetManufacturers)
	manufacturerGroup.Get("/:id", h.authMiddleware.AuthUser, h.GetManufacturer)
	manufacturerGroup.Patch("/:id", h.authMiddleware.AuthUser, h.UpdateManufacturer)
	manufacturerGroup.Delete("/:id", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.DeleteManufacturer)

	// Admin approval flow
	manufacturerGroup.Post("/:id/approve", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.ApproveManufacturer)
	manufacturerGroup.Post("/:id/reject", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.RejectManufacturer)
}

func (h *ManufacturerHandler) CreateManufacturer(c *fiber.Ctx) error {
	var req models.ManufacturerCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	var ownerUserId *uuid.UUID
	if user, ok := c.Locals("user").(*models.IdentityUser); ok && user != nil {
		userId := user.ID
		ownerUserId = &userId
	}

	manufacturer, err := h.manufacturerService.CreateManufacturer(&req, ownerUserId)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, manufacturer)
}

func (h *ManufacturerHandler) GetManufacturer(c *fiber.Ctx) error {
	id := c.Params("id")

	manufacturer, err := h.manufacturerService.GetManufacturer(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, manufacturer)
}

func (h *ManufacturerHandler) GetManufacturers(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}

	var status *models.ManufacturerStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.ManufacturerStatus(statusStr)
		status = &s
	}

	manufacturers, err := h.manufacturerService.GetManufacturers(&models.PaginationRequest{Page: page, Limit: limit}, status)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, manufacturers)
}

func (h *ManufacturerHandler) UpdateManufacturer(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.ManufacturerUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	manufacturer, err := h.manufacturerService.UpdateManufacturer(id, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, manufacturer)
}

func (h *ManufacturerHandler) ApproveManufacturer(c *fiber.Ctx) error {
	id := c.Params("id")

	manufacturer, err := h.manufacturerService.SetManufacturerStatus(id, models.ManufacturerStatusApproved)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, manufacturer)
}

func (h *ManufacturerHandler) RejectManufacturer(c *fiber.Ctx) error {
	id := c.Params("id")

	manufacturer, err := h.manufacturerService.SetManufacturerStatus(id, models.ManufacturerStatusRejected)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, manufacturer)
}

func (h *ManufacturerHandler) DeleteManufacturer(c *fiber.Ctx) error {
	id := c.Params("id")

	err := h.manufacturerService.DeleteManufacturer(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
