package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusHired    BidStatus = "hired"
	BidStatusRejected BidStatus = "rejected"
)

type Bid struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// one bid per freelancer per gig, enforced at the store level
	GigID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_gig_freelancer" json:"gig_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bids_gig_freelancer;index" json:"freelancer_id"`

	Message string  `gorm:"type:text;not null" json:"message"`
	Price   float64 `gorm:"not null" json:"price"`

	Status BidStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Gig        *Gig  `gorm:"foreignKey:GigID" json:"gig,omitempty"`
	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

func (b *Bid) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
