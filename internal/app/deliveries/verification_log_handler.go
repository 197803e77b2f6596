package deliveries

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/app/services"
)

type VerificationLogHandler struct {
	verificationLogService *services.VerificationLogService
	identityService        *services.IdentityService
	authMiddleware         *middlewares.AuthMiddleware
}

func NewVerificationLogHandler(verificationLogService *services.VerificationLogService, identityService *services.IdentityService, authMiddleware *middlewares.AuthMiddleware) *VerificationLogHandler {
	return &VerificationLogHandler{
		verificationLogService: verificationLogService,
		identityService:        identityService,
		authMiddleware:         authMiddleware,
	}
}

func (h *VerificationLogHandler) RegisterRoutes(router fiber.Router) {
	logGroup := router.Group("/verification-logs")
	logGroup.Get("/", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.GetLogs)
	logGroup.Get("/:id", h.authMiddleware.AuthUser, h.authMiddleware.RequireAdmin, h.GetLog)
}

func (h *VerificationLogHandler) GetLogs(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}

	filter := &models.VerificationLogFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.VerificationStatus(statusStr)
		filter.Status = &status
	}
	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.From = &from
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.To = &to
		}
	}

	logs, err := h.verificationLogService.GetLogs(&models.PaginationRequest{Page: page, Limit: limit}, filter)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, logs)
}

func (h *VerificationLogHandler) GetLog(c *fiber.Ctx) error {
	log, err := h.verificationLogService.GetLog(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	detail := &models.VerificationLogDetail{VerificationLog: *log}

	// Anonymous attempts carry no user; identity lookup failures degrade to
	// the bare log row
	if log.UserID != nil {
		if user, err := h.identityService.GetUser(log.UserID.String()); err == nil {
			detail.User = user
		}
	}

	return pkg.SuccessResponse(c, detail)
}
