package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gigflow/gigflow_be/internal/models"
)

func RequireRoles(allowed ...string) fiber.Handler {
	allowedSet := map[string]bool{}
	for _, r := range allowed {
		allowedSet[strings.ToLower(r)] = true
	}

	return func(c *fiber.Ctx) error {
		p, ok := c.Locals("principal").(models.Principal)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if !allowedSet[strings.ToLower(string(p.Role))] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}

		return c.Next()
	}
}
