package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veripharm/veripharm-core/internal/app/middlewares"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/app/services"
)

type VerificationHandler struct {
	verificationService *services.VerificationService
	authMiddleware      *middlewares.AuthMiddleware
}

func NewVerificationHandler(verificationService *services.VerificationService, authMiddleware *middlewares.AuthMiddleware) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		authMiddleware:      authMiddleware,
	}
}

func (h *VerificationHandler) RegisterRoutes(router fiber.Router) {
	// Public: consumers scan codes anonymously
	router.Post("/verify", h.authMiddleware.AuthOptional, h.Verify)

	// Read-only classification for inspectors; never redeems a code
	router.Get("/verify/inspect/:code", h.authMiddleware.AuthUser, h.Inspect)
}

func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	var req models.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	meta := &models.VerifyMeta{
		IPAddress:  middlewares.GetIPAddress(c),
		DeviceInfo: c.Get("User-Agent"),
		Location:   req.Location,
	}
	if user, ok := c.Locals("user").(*models.IdentityUser); ok && user != nil {
		userId := user.ID
		meta.UserID = &userId
	}

	response, err := h.verificationService.Verify(c.Context(), &req, meta)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *VerificationHandler) Inspect(c *fiber.Ctx) error {
	code := c.Params("code")

	status, err := h.verificationService.Classify(c.Context(), code)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, status)
}
