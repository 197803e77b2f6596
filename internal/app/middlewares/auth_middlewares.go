package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/veripharm/veripharm-core/internal/app/errors"
	"github.com/veripharm/veripharm-core/internal/app/models"
	"github.com/veripharm/veripharm-core/internal/app/pkg"
	"github.com/veripharm/veripharm-core/internal/app/services"
)

type AuthMiddleware struct {
	identityService *services.IdentityService
}

func NewAuthMiddleware(identityService *services.IdentityService) *AuthMiddleware {
	return &AuthMiddleware{identityService: identityService}
}

// AuthUser requires a resolvable bearer token.
func (m *AuthMiddleware) AuthUser(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(models.WebResponse[any]{
			Success: false,
			Message: "Unauthorized",
		})
	}

	token = strings.Replace(token, "Bearer ", "", 1)

	user, err := m.identityService.GetCurrentUser(token)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid access token"))
	}

	c.Locals("user", user)

	return c.Next()
}

// AuthOptional attaches the user when a valid token is present but never
// rejects the request. Verification must work for anonymous callers.
func (m *AuthMiddleware) AuthOptional(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return c.Next()
	}

	token = strings.Replace(token, "Bearer ", "", 1)

	user, err := m.identityService.GetCurrentUser(token)
	if err == nil {
		c.Locals("user", user)
	}

	return c.Next()
}

// RequireAdmin must run after AuthUser.
func (m *AuthMiddleware) RequireAdmin(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.IdentityUser)
	if !ok || user == nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("User is not authenticated"))
	}

	if user.Role != models.IdentityRoleAdmin {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Admin role required"))
	}

	return c.Next()
}
