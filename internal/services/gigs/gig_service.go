package gigs

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigflow/gigflow_be/internal/apperr"
	"github.com/gigflow/gigflow_be/internal/models"
)

type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

type CreateGigInput struct {
	Title       string
	Description string
	Budget      *float64
}

// Create posts a new gig owned by the caller. The gig always starts open.
func (s *Service) Create(p models.Principal, in CreateGigInput) (*models.Gig, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)

	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	if description == "" {
		return nil, apperr.Validation("Description is required")
	}
	if in.Budget == nil {
		return nil, apperr.Validation("Budget is required")
	}
	if *in.Budget < 0 {
		return nil, apperr.Validation("Budget cannot be negative")
	}

	gig := models.Gig{
		Title:       title,
		Description: description,
		Budget:      *in.Budget,
		OwnerID:     p.ID,
		Status:      models.GigStatusOpen,
	}

	if err := s.DB.Create(&gig).Error; err != nil {
		return nil, err
	}

	// reload with owner for the response
	if err := s.DB.Preload("Owner").First(&gig, "id = ?", gig.ID).Error; err != nil {
		return nil, err
	}

	return &gig, nil
}

// ListOpen returns open gigs newest-first, optionally filtered by a
// case-insensitive substring match on the title.
func (s *Service) ListOpen(search string) ([]models.Gig, error) {
	q := s.DB.Preload("Owner").
		Where("status = ?", models.GigStatusOpen)

	search = strings.TrimSpace(search)
	if search != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(search))+"%")
	}

	var gigs []models.Gig
	if err := q.Order("created_at DESC").Find(&gigs).Error; err != nil {
		return nil, err
	}
	return gigs, nil
}

// escapeLike neutralizes LIKE metacharacters so a search term matches
// literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListMine returns all gigs owned by the caller, any status, newest-first.
func (s *Service) ListMine(ownerID uuid.UUID) ([]models.Gig, error) {
	var gigs []models.Gig
	if err := s.DB.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&gigs).Error; err != nil {
		return nil, err
	}
	return gigs, nil
}

// AssignIfOpen flips the gig from open to assigned with a single conditional
// write. Zero rows affected means the gig was already assigned (or gone), so
// two concurrent hires cannot both succeed. Must be called within the hire
// transaction.
func (s *Service) AssignIfOpen(tx *gorm.DB, gigID uuid.UUID) error {
	result := tx.Model(&models.Gig{}).
		Where("id = ? AND status = ?", gigID, models.GigStatusOpen).
		Update("status", models.GigStatusAssigned)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.Conflict("This gig has already been assigned")
	}
	return nil
}
