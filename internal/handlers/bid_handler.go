package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/models"
	"github.com/gigflow/gigflow_be/internal/services/bids"
	"github.com/gigflow/gigflow_be/internal/services/notify"
)

type BidHandler struct {
	DB     *gorm.DB
	Bids   *bids.Service
	Notify *notify.Service
}

func NewBidHandler(db *gorm.DB, bidSvc *bids.Service, notifySvc *notify.Service) *BidHandler {
	return &BidHandler{DB: db, Bids: bidSvc, Notify: notifySvc}
}

type CreateBidReq struct {
	GigID   string   `json:"gig_id"`
	Message string   `json:"message"`
	Price   *float64 `json:"price"`
}

type BidResponse struct {
	ID           string    `json:"id"`
	GigID        string    `json:"gig_id"`
	FreelancerID string    `json:"freelancer_id"`
	Message      string    `json:"message"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	Freelancer *UserMini    `json:"freelancer,omitempty"`
	Gig        *GigResponse `json:"gig,omitempty"`
}

func toBidResponse(b *models.Bid) BidResponse {
	resp := BidResponse{
		ID:           b.ID.String(),
		GigID:        b.GigID.String(),
		FreelancerID: b.FreelancerID.String(),
		Message:      b.Message,
		Price:        b.Price,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
		Freelancer:   toUserMini(b.Freelancer),
	}

	if b.Gig != nil {
		gig := toGigResponse(b.Gig)
		resp.Gig = &gig
	}

	return resp
}

// Create places a bid on an open gig and notifies the gig owner.
func (h *BidHandler) Create(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req CreateBidReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid gig ID",
		})
	}

	bid, err := h.Bids.Place(p, bids.PlaceBidInput{
		GigID:   gigID,
		Message: req.Message,
		Price:   req.Price,
	})
	if err != nil {
		return fail(c, err)
	}

	if bid.Gig == nil {
		// owner id needed for the notification; Place does not preload the gig
		var gig models.Gig
		if err := h.DB.First(&gig, "id = ?", bid.GigID).Error; err == nil {
			bid.Gig = &gig
		}
	}

	if bid.Gig != nil {
		h.Notify.Notify(bid.Gig.OwnerID, models.NotifyBidPlaced, map[string]interface{}{
			"gig_id":          bid.GigID.String(),
			"gig_title":       bid.Gig.Title,
			"bid_id":          bid.ID.String(),
			"freelancer_name": p.Name,
			"price":           bid.Price,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    toBidResponse(bid),
	})
}

// ListForGig returns all bids on a gig. Owner only.
func (h *BidHandler) ListForGig(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	gigID, err := uuid.Parse(c.Params("gigId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid gig ID",
		})
	}

	list, err := h.Bids.ListForGig(p, gigID)
	if err != nil {
		return fail(c, err)
	}

	out := make([]BidResponse, 0, len(list))
	for i := range list {
		out = append(out, toBidResponse(&list[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// ListMine returns the caller's bids with their parent gigs.
func (h *BidHandler) ListMine(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	list, err := h.Bids.ListMine(p.ID)
	if err != nil {
		return fail(c, err)
	}

	out := make([]BidResponse, 0, len(list))
	for i := range list {
		out = append(out, toBidResponse(&list[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    out,
	})
}

// Hire assigns the gig to one bid and rejects the competitors, then notifies
// the hired freelancer and every rejected bidder.
func (h *BidHandler) Hire(c *fiber.Ctx) error {
	p, ok := currentPrincipal(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	bidID, err := uuid.Parse(c.Params("bidId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid bid ID",
		})
	}

	hired, rejected, err := h.Bids.Hire(p, bidID)
	if err != nil {
		return fail(c, err)
	}

	gigTitle := ""
	if hired.Gig != nil {
		gigTitle = hired.Gig.Title
	}

	h.Notify.Notify(hired.FreelancerID, models.NotifyBidHired, map[string]interface{}{
		"gig_id":    hired.GigID.String(),
		"gig_title": gigTitle,
		"bid_id":    hired.ID.String(),
	})

	for i := range rejected {
		h.Notify.Notify(rejected[i].FreelancerID, models.NotifyBidRejected, map[string]interface{}{
			"gig_id":    hired.GigID.String(),
			"gig_title": gigTitle,
			"bid_id":    rejected[i].ID.String(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Freelancer hired successfully",
		"data":    toBidResponse(hired),
	})
}
