package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/app/services"
)

type BatchHandler struct {
	batchService   *services.BatchService
	authMiddleware *middlewares.AuthMiddleware
}

func NewBatchHandler(batchService *services.BatchService, authMiddleware *middlewares.AuthMiddleware) *BatchHandler {
	return &BatchHandler{
		batchService:   batchService,
		authMiddleware: authMiddleware,
	}
}

func (h *BatchHandler) RegisterRoutes(router fiber.Router) {
	batchGroup := router.Group("/batches")

	batchGroup.Post("/", h.authMiddleware.AuthUser, h.CreateBatch)
	batchGroup.Get("/", h.authMiddleware.AuthUser, h.GetBatches)
	batchGroup.Get("/:id", h.authMiddleware.AuthUser, h.GetBatch)
	batchGroup.Patch("/:id", h.authMiddleware.AuthUser, h.UpdateBatch)
	batchGroup.Get("/:id/codes", h.authMiddleware.AuthUser, h.GetBatchCodes)

	// Approval issues the batch's verification codes
	batchGroup.Post("/:id/approve", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.ApproveBatch)
	batchGroup.Post("/:id/reject", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.RejectBatch)
}

func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	var req models.BatchCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	batch, err := h.batchService.CreateBatch(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, batch)
}

func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id := c.Params("id")

	batch, err := h.batchService.GetBatch(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, batch)
}

func (h *BatchHandler) GetBatches(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}

	var status *models.BatchStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.BatchStatus(statusStr)
		status = &s
	}

	var productId *string
	if idStr := c.Query("product_id"); idStr != "" {
		productId = &idStr
	}

	batches, err := h.batchService.GetBatches(&models.PaginationRequest{Page: page, Limit: limit}, status, productId)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, batches)
}

func (h *BatchHandler) UpdateBatch(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.BatchUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	batch, err := h.batchService.UpdateBatch(id, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, batch)
}

func (h *BatchHandler) ApproveBatch(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := c.Locals("user").(*models.IdentityUser)
	if !ok || user == nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("User is not authenticated"))
	}

	batch, err := h.batchService.ApproveBatch(id, user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, batch)
}

func (h *BatchHandler) RejectBatch(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := c.Locals("user").(*models.IdentityUser)
	if !ok || user == nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("User is not authenticated"))
	}

	batch, err := h.batchService.RejectBatch(id, user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, batch)
}

func (h *BatchHandler) GetBatchCodes(c *fiber.Ctx) error {
	id := c.Params("id")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil {
		limit = 100
	}

	codes, err := h.batchService.GetBatchCodes(id, &models.PaginationRequest{Page: page, Limit: limit})
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, codes)
}
