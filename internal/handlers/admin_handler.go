package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/models"
)

type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

type AdminUserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

func toAdminUserResponse(u *models.User) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// ListUsers returns every account, newest first.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return fail(c, err)
	}

	out := make([]AdminUserResponse, 0, len(users))
	for i := range users {
		out = append(out, toAdminUserResponse(&users[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

type SetUserActiveReq struct {
	IsActive *bool `json:"is_active"`
}

// SetUserActive toggles an account. A deactivated user can no longer log in
// and their existing sessions stop resolving to a principal.
func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid user id",
		})
	}

	var req SetUserActiveReq
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "is_active is required",
		})
	}

	if userID == p.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You cannot deactivate your own account",
		})
	}

	res := h.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", *req.IsActive)
	if res.Error != nil {
		return fail(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    toAdminUserResponse(&user),
	})
}
