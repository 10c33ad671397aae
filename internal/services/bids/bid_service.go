package bids

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/apperr"
	"github.com/gigflow/gigflow_be/internal/models"
	"github.com/gigflow/gigflow_be/internal/services/gigs"
)

type Service struct {
	DB   *gorm.DB
	Gigs *gigs.Service
}

func NewService(db *gorm.DB, gigSvc *gigs.Service) *Service {
	return &Service{DB: db, Gigs: gigSvc}
}

type PlaceBidInput struct {
	GigID   uuid.UUID
	Message string
	Price   *float64
}

// Place creates a pending bid on an open gig. Eligibility: the gig exists and
// is open, the caller does not own it, and the caller has not already bid on
// it. The (gig_id, freelancer_id) unique index backs the duplicate check, so a
// racing identical request loses on insert, not just on the pre-check.
func (s *Service) Place(p models.Principal, in PlaceBidInput) (*models.Bid, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apperr.Validation("Message is required")
	}
	if in.Price == nil || *in.Price <= 0 {
		return nil, apperr.Validation("Price is required and must be positive")
	}

	var gig models.Gig
	if err := s.DB.First(&gig, "id = ?", in.GigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Gig not found")
		}
		return nil, err
	}

	if gig.Status != models.GigStatusOpen {
		return nil, apperr.Conflict("This gig is no longer accepting bids")
	}

	if gig.OwnerID == p.ID {
		return nil, apperr.Forbidden("You cannot bid on your own gig")
	}

	var existing models.Bid
	err := s.DB.Where("gig_id = ? AND freelancer_id = ?", gig.ID, p.ID).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("You have already placed a bid on this gig")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	bid := models.Bid{
		GigID:        gig.ID,
		FreelancerID: p.ID,
		Message:      message,
		Price:        *in.Price,
		Status:       models.BidStatusPending,
	}

	if err := s.DB.Create(&bid).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the race against an identical concurrent request
			return nil, apperr.Conflict("You have already placed a bid on this gig")
		}
		return nil, err
	}

	if err := s.DB.Preload("Freelancer").First(&bid, "id = ?", bid.ID).Error; err != nil {
		return nil, err
	}

	return &bid, nil
}

// ListForGig returns all bids on a gig, newest-first, freelancer identity
// included. Only the gig owner may call it.
func (s *Service) ListForGig(p models.Principal, gigID uuid.UUID) ([]models.Bid, error) {
	var gig models.Gig
	if err := s.DB.First(&gig, "id = ?", gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Gig not found")
		}
		return nil, err
	}

	if gig.OwnerID != p.ID {
		return nil, apperr.Forbidden("Not authorized to view these bids")
	}

	var list []models.Bid
	if err := s.DB.
		Preload("Freelancer").
		Where("gig_id = ?", gigID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListMine returns the caller's bids newest-first, each with its parent gig.
func (s *Service) ListMine(freelancerID uuid.UUID) ([]models.Bid, error) {
	var list []models.Bid
	if err := s.DB.
		Preload("Gig").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Hire assigns the gig to the given bid: gig open -> assigned, target bid
// pending -> hired, every other pending bid on the gig -> rejected. The three
// writes run in one DB transaction, and the gig flip is conditional on
// status = open so a second hire on the same gig always reports a conflict.
// Returns the hired bid and the bids that were rejected in the same unit.
func (s *Service) Hire(p models.Principal, bidID uuid.UUID) (*models.Bid, []models.Bid, error) {
	var bid models.Bid
	if err := s.DB.First(&bid, "id = ?", bidID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("Bid not found")
		}
		return nil, nil, err
	}

	var gig models.Gig
	if err := s.DB.First(&gig, "id = ?", bid.GigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// orphaned bid, should not happen but must be checked
			return nil, nil, apperr.NotFound("Gig not found")
		}
		return nil, nil, err
	}

	if gig.OwnerID != p.ID {
		return nil, nil, apperr.Forbidden("Not authorized to hire for this gig")
	}

	if gig.Status != models.GigStatusOpen {
		return nil, nil, apperr.Conflict("This gig has already been assigned")
	}

	var rejected []models.Bid
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// conditional flip closes the double-hire race
		if err := s.Gigs.AssignIfOpen(tx, gig.ID); err != nil {
			return err
		}

		if err := tx.Model(&models.Bid{}).
			Where("id = ?", bid.ID).
			Update("status", models.BidStatusHired).Error; err != nil {
			return err
		}

		// collect the losers first so callers can notify them
		if err := tx.Preload("Freelancer").
			Where("gig_id = ? AND id <> ? AND status = ?", gig.ID, bid.ID, models.BidStatusPending).
			Find(&rejected).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Bid{}).
			Where("gig_id = ? AND id <> ? AND status = ?", gig.ID, bid.ID, models.BidStatusPending).
			Update("status", models.BidStatusRejected).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.DB.Preload("Freelancer").Preload("Gig").First(&bid, "id = ?", bid.ID).Error; err != nil {
		return nil, nil, err
	}

	return &bid, rejected, nil
}
