package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/gigflow/gigflow_be/internal/apperr"
	"github.com/gigflow/gigflow_be/internal/models"
)

type UserMini struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func toUserMini(u *models.User) *UserMini {
	if u == nil {
		return nil
	}
	return &UserMini{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
	}
}

// currentPrincipal reads the principal attached by the middleware chain.
func currentPrincipal(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals("principal").(models.Principal)
	return p, ok
}

// fail maps a service error to the stable response for its kind; anything
// else is a 500.
func fail(c *fiber.Ctx, err error) error {
	if ae, ok := apperr.As(err); ok {
		return c.Status(ae.HTTPStatus()).JSON(fiber.Map{
			"success": false,
			"message": ae.Message,
		})
	}

	log.Println("Unexpected error:", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "Internal server error",
	})
}
