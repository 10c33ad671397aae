package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GigStatus string

const (
	GigStatusOpen     GigStatus = "open"     // accepting bids
	GigStatusAssigned GigStatus = "assigned" // one bid hired, closed for bidding
)

type Gig struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Budget      float64   `gorm:"not null" json:"budget"`

	// set once at creation, never changed
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`

	Status GigStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Bids  []Bid `gorm:"foreignKey:GigID" json:"bids,omitempty"`
}

func (g *Gig) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}
