package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotifyBidPlaced   NotificationKind = "bid_placed"   // someone bid on your gig
	NotifyBidHired    NotificationKind = "bid_hired"    // your bid was hired
	NotifyBidRejected NotificationKind = "bid_rejected" // a competing bid was hired
)

type Notification struct {
	ID     uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID        `gorm:"type:uuid;index;not null" json:"user_id"`
	Kind   NotificationKind `gorm:"type:varchar(30);not null" json:"kind"`

	// gig/bid ids, titles, names for display
	Payload datatypes.JSON `json:"payload"`

	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
