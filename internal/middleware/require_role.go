package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/praxis-api/internal/utils"
)

// RequireStaff rejects requests whose caller carries no staff role.
// Service-level checks still run; this keeps obvious misuse out early.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromCtx(c)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if !caller.IsStaff() {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}

// RequireAuthenticated rejects requests with no bound caller.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CallerFromCtx(c); !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		return c.Next()
	}
}
