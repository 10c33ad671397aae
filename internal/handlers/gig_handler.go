package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gigflow/gigflow_be/internal/models"
	"github.com/gigflow/gigflow_be/internal/services/gigs"
)

type GigHandler struct {
	Gigs *gigs.Service
}

func NewGigHandler(gigSvc *gigs.Service) *GigHandler {
	return &GigHandler{Gigs: gigSvc}
}

type CreateGigReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      *float64 `json:"budget"`
}

type GigResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	OwnerID     string    `json:"owner_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner *UserMini `json:"owner,omitempty"`
}

func toGigResponse(g *models.Gig) GigResponse {
	return GigResponse{
		ID:          g.ID.String(),
		Title:       g.Title,
		Description: g.Description,
		Budget:      g.Budget,
		OwnerID:     g.OwnerID.String(),
		Status:      string(g.Status),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		Owner:       toUserMini(g.Owner),
	}
}

// Create posts a new gig owned by the caller.
func (h *GigHandler) Create(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateGigReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	gig, err := h.Gigs.Create(p, gigs.CreateGigInput{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toGigResponse(gig),
	})
}

// ListPublic returns every open gig, optionally filtered by ?search=.
// No auth required.
func (h *GigHandler) ListPublic(c *fiber.Ctx) error {
	list, err := h.Gigs.ListOpen(c.Query("search"))
	if err != nil {
		return fail(c, err)
	}

	out := make([]GigResponse, 0, len(list))
	for i := range list {
		out = append(out, toGigResponse(&list[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// ListMine returns the caller's gigs, any status.
func (h *GigHandler) ListMine(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	list, err := h.Gigs.ListMine(p.ID)
	if err != nil {
		return fail(c, err)
	}

	out := make([]GigResponse, 0, len(list))
	for i := range list {
		out = append(out, toGigResponse(&list[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}
