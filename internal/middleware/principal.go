package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/models"
	"github.com/gigflow/gigflow_be/internal/utils"
)

// AttachPrincipal resolves the token claims into a full models.Principal and
// stores it in locals. The user row is loaded so name/email are fresh and a
// deleted or deactivated account fails authentication here, not mid-operation.
func AttachPrincipal(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*utils.Claims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		var user models.User
		if err := db.First(&user, "id = ?", uid).Error; err != nil {
			return fiber.ErrUnauthorized
		}
		if !user.IsActive {
			return fiber.ErrUnauthorized
		}

		c.Locals("principal", models.Principal{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		})

		return c.Next()
	}
}
